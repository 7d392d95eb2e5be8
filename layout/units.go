package layout

// Conversion constants between font points and canvas pixels. Font
// faces are created in points; the slide canvas is sampled at one
// pixel per world unit, so one point maps to PtToPx units there.
const (
	PtToPx = 0.352777
	PxToPt = 1.0 / PtToPx
)
