package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Color expressions accepted from the style configuration: 3/6-digit
// hex, rgb()/rgba() with decimal channels, and the keywords white and
// black. Anything else is a parse error; callers that only classify
// light vs dark treat that error as the dark branch.

var (
	colorLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Hex", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9]*`},
		{Name: "Punct", Pattern: `[(),]`},
	})

	colorParser = participle.MustBuild[colorExpr](
		participle.Lexer(colorLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	namedColors = map[string]Color{
		"white": {R: 255, G: 255, B: 255},
		"black": {R: 0, G: 0, B: 0},
	}
)

type colorExpr struct {
	Hex  *string    `parser:"  @Hex"`
	Func *colorFunc `parser:"| @@"`
	Name *string    `parser:"| @Ident"`
}

type colorFunc struct {
	Name string   `parser:"@Ident"`
	Args []string `parser:"'(' @Number ( ',' @Number )* ')'"`
}

// ParseColor resolves a color expression to RGB channels.
func ParseColor(value string) (Color, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Color{}, fmt.Errorf("layout: empty color value")
	}
	expr, err := colorParser.ParseString("", value)
	if err != nil {
		return Color{}, fmt.Errorf("layout: color %q: %w", value, err)
	}
	switch {
	case expr.Hex != nil:
		return hexColor(*expr.Hex)
	case expr.Func != nil:
		return funcColor(expr.Func)
	case expr.Name != nil:
		if c, ok := namedColors[strings.ToLower(*expr.Name)]; ok {
			return c, nil
		}
		return Color{}, fmt.Errorf("layout: unknown color name %q", *expr.Name)
	default:
		return Color{}, fmt.Errorf("layout: color %q: empty expression", value)
	}
}

func hexColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	if len(value) == 3 {
		value = strings.Repeat(string(value[0]), 2) +
			strings.Repeat(string(value[1]), 2) +
			strings.Repeat(string(value[2]), 2)
	}
	return Color{
		R: mustHex(value[0:2]),
		G: mustHex(value[2:4]),
		B: mustHex(value[4:6]),
	}, nil
}

func funcColor(fn *colorFunc) (Color, error) {
	name := strings.ToLower(fn.Name)
	switch name {
	case "rgb":
		if len(fn.Args) != 3 {
			return Color{}, fmt.Errorf("layout: rgb() wants 3 arguments, got %d", len(fn.Args))
		}
	case "rgba":
		if len(fn.Args) != 4 {
			return Color{}, fmt.Errorf("layout: rgba() wants 4 arguments, got %d", len(fn.Args))
		}
	default:
		return Color{}, fmt.Errorf("layout: unknown color function %q", fn.Name)
	}
	var ch [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fn.Args[i], 64)
		if err != nil {
			return Color{}, fmt.Errorf("layout: %s() argument %d: %w", name, i+1, err)
		}
		ch[i] = clampChannel(v)
	}
	// rgba alpha is accepted but ignored: classification and drawing
	// only need the channels.
	return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

func clampChannel(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}
