package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/itisgraph/pkg/errors"
)

// Format is an image format supported by [Render].
type Format string

// Image formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates an image format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatSVG, FormatPNG:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q (want svg or png)", s)
}

// RenderSVG lays out DOT text and renders it as SVG.
func RenderSVG(ctx context.Context, dot []byte) ([]byte, error) {
	return Render(ctx, dot, FormatSVG)
}

// RenderPNG lays out DOT text and renders it as PNG.
func RenderPNG(ctx context.Context, dot []byte) ([]byte, error) {
	return Render(ctx, dot, FormatPNG)
}

// Render lays out DOT text and renders it in the given format.
func Render(ctx context.Context, dot []byte, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
