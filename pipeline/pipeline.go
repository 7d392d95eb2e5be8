// Package pipeline sequences segmentation and composition into an
// ordered slide list. Every invocation is tagged with a generation
// counter; a superseded invocation finishes but publishes nothing, so
// the visible slide list is always the newest complete result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/d33gardner/listeningcarousel/layout"
	"github.com/d33gardner/listeningcarousel/renderer"
	"github.com/d33gardner/listeningcarousel/segment"
)

// ErrSuperseded reports that a newer invocation started before this
// one finished; its results were discarded unpublished.
var ErrSuperseded = errors.New("pipeline: superseded by a newer generation")

// ErrNoGeneration reports a selective re-render without a prior
// successful Generate to reuse segments from.
var ErrNoGeneration = errors.New("pipeline: no cached generation to re-render")

// Slide is one rendered carousel image. Immutable once produced; a
// later generation replaces the list wholesale.
type Slide struct {
	Index  int
	Bytes  []byte
	Width  int
	Height int
}

// Request carries one Generate invocation's inputs.
type Request struct {
	Photo []byte
	Story string
	Title string
	Split segment.Config
	Style layout.Style
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a structured logger; the default discards.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithWorkers bounds concurrent Compose calls. The default of 1
// renders sequentially by ascending index.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLayoutParams overrides the layout engine parameters.
func WithLayoutParams(params layout.Params) Option {
	return func(p *Pipeline) { p.params = params }
}

// Pipeline renders stories into slide lists through a Compositor.
// Methods are safe for concurrent use.
type Pipeline struct {
	comp    renderer.Compositor
	meas    layout.Measurer
	log     zerolog.Logger
	workers int
	params  layout.Params

	mu        sync.Mutex
	gen       uint64
	texts     []string       // segment texts of the last successful Generate
	photo     []byte         // default background of that generation
	style     layout.Style   // style of that generation
	overrides map[int][]byte // sparse per-slide photo overrides, generation scoped
	slides    []Slide        // published output
}

// New builds a Pipeline on a compositor and the measurer its layout
// runs against (normally the same canvas renderer).
func New(comp renderer.Compositor, meas layout.Measurer, opts ...Option) *Pipeline {
	p := &Pipeline{
		comp:    comp,
		meas:    meas,
		log:     zerolog.Nop(),
		workers: 1,
		params:  layout.DefaultParams(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate splits the story and renders every slide in index order.
// Slide 0 is the title when present, otherwise the story's first
// sentence with the remainder fed to the segmenter. On any compositor
// failure the invocation aborts and the previously published list
// stays visible.
func (p *Pipeline) Generate(ctx context.Context, req Request) ([]Slide, error) {
	texts := slideTexts(req.Story, req.Title, req.Split)

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	p.log.Info().Uint64("generation", gen).Int("slides", len(texts)).Msg("generate started")

	slides, err := p.render(ctx, texts, req.Photo, nil, req.Style)
	if err != nil {
		p.log.Error().Err(err).Uint64("generation", gen).Msg("generate failed")
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		p.log.Debug().Uint64("generation", gen).Msg("generate superseded, dropping results")
		return nil, ErrSuperseded
	}
	p.texts = texts
	p.photo = req.Photo
	p.style = req.Style
	p.overrides = map[int][]byte{}
	p.slides = slides
	p.log.Info().Uint64("generation", gen).Int("slides", len(slides)).Msg("generate published")
	return copySlides(slides), nil
}

// RegenerateOne re-renders a single slide from the cached segment
// texts, using the supplied photo override when non-nil. The override
// is recorded so a later RegenerateAll honors it. The segmenter does
// not run again.
func (p *Pipeline) RegenerateOne(ctx context.Context, index int, photoOverride []byte) (Slide, error) {
	p.mu.Lock()
	if p.texts == nil {
		p.mu.Unlock()
		return Slide{}, ErrNoGeneration
	}
	if index < 0 || index >= len(p.texts) {
		p.mu.Unlock()
		return Slide{}, fmt.Errorf("pipeline: slide index %d out of range [0,%d)", index, len(p.texts))
	}
	p.gen++
	gen := p.gen
	text := p.texts[index]
	style := p.style
	photo := p.photo
	if photoOverride != nil {
		p.overrides[index] = photoOverride
		photo = photoOverride
	} else if o, ok := p.overrides[index]; ok {
		photo = o
	}
	p.mu.Unlock()

	lay := layout.LayoutWith(text, style, layout.CanvasWidth, layout.CanvasHeight, p.meas, p.params)
	data, err := p.comp.Compose(ctx, photo, lay, style)
	if err != nil {
		p.log.Error().Err(err).Int("slide", index).Msg("regenerate failed")
		return Slide{}, err
	}
	slide := Slide{Index: index, Bytes: data, Width: int(layout.CanvasWidth), Height: int(layout.CanvasHeight)}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return Slide{}, ErrSuperseded
	}
	if index < len(p.slides) {
		p.slides[index] = slide
	}
	return slide, nil
}

// RegenerateAll re-renders every slide from the cached segment texts,
// honoring per-slide photo overrides, without re-splitting.
func (p *Pipeline) RegenerateAll(ctx context.Context) ([]Slide, error) {
	p.mu.Lock()
	if p.texts == nil {
		p.mu.Unlock()
		return nil, ErrNoGeneration
	}
	p.gen++
	gen := p.gen
	texts := append([]string(nil), p.texts...)
	photo := p.photo
	style := p.style
	overrides := make(map[int][]byte, len(p.overrides))
	for i, o := range p.overrides {
		overrides[i] = o
	}
	p.mu.Unlock()

	slides, err := p.render(ctx, texts, photo, overrides, style)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return nil, ErrSuperseded
	}
	p.slides = slides
	return copySlides(slides), nil
}

// Slides returns the currently published slide list.
func (p *Pipeline) Slides() []Slide {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlides(p.slides)
}

// render lays out and composes every slide text. Compose calls run
// across the worker pool; the result slice is indexed, so output
// ordering is preserved regardless of completion order.
func (p *Pipeline) render(ctx context.Context, texts []string, photo []byte, overrides map[int][]byte, style layout.Style) ([]Slide, error) {
	slides := make([]Slide, len(texts))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)

	for i, text := range texts {
		i, text := i, text
		eg.Go(func() error {
			lay := layout.LayoutWith(text, style, layout.CanvasWidth, layout.CanvasHeight, p.meas, p.params)
			bg := photo
			if o, ok := overrides[i]; ok {
				bg = o
			}
			data, err := p.comp.Compose(egCtx, bg, lay, style)
			if err != nil {
				return fmt.Errorf("slide %d: %w", i, err)
			}
			slides[i] = Slide{Index: i, Bytes: data, Width: int(layout.CanvasWidth), Height: int(layout.CanvasHeight)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return slides, nil
}

// slideTexts derives the ordered slide text list: the title (or the
// extracted first sentence) first, then the segmenter output over the
// rest of the story.
func slideTexts(story, title string, cfg segment.Config) []string {
	var texts []string
	if title != "" {
		texts = append(texts, title)
		texts = append(texts, segment.Split(story, cfg)...)
		return texts
	}
	first, rest := segment.FirstSentence(story)
	if first == "" {
		return nil
	}
	texts = append(texts, first)
	texts = append(texts, segment.Split(rest, cfg)...)
	return texts
}

func copySlides(slides []Slide) []Slide {
	out := make([]Slide, len(slides))
	copy(out, slides)
	return out
}
