package icon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/shelepuginivan/headset-tray/internal/battery"
	"github.com/shelepuginivan/headset-tray/systray"
)

// ErrRender indicates that the icon document could not be rendered. For
// documents produced by [Document] this is a bug in the template.
var ErrRender = errors.New("render error")

// Renderer renders battery readings into tray icons.
type Renderer interface {
	Render(r battery.Reading) (*systray.Icon, error)
}

// Options configures rasterization.
type Options struct {
	// Size of the canvas in pixels.
	Width  int
	Height int

	// Font resolution of text labels, dots per inch.
	DPI float64
}

// DefaultOptions returns options of a 512x512 canvas.
func DefaultOptions() Options {
	return Options{
		Width:  512,
		Height: 512,
		DPI:    72,
	}
}

// Engine renders readings through the embedded SVG template.
//
// Shapes are rasterized with oksvg. Text elements are drawn separately with
// the Go Bold typeface, since oksvg does not render text.
type Engine struct {
	opts Options
	font *opentype.Font
}

var _ Renderer = (*Engine)(nil)

// NewEngine returns a new [Engine].
func NewEngine(opts Options) (*Engine, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", opts.Width, opts.Height)
	}

	if opts.DPI <= 0 {
		return nil, fmt.Errorf("invalid font resolution %v", opts.DPI)
	}

	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return &Engine{opts: opts, font: f}, nil
}

// Render returns icon of the reading in ARGB format.
func (e *Engine) Render(r battery.Reading) (*systray.Icon, error) {
	img, err := e.Rasterize(Document(r))
	if err != nil {
		return nil, fmt.Errorf("render %v: %w", r, err)
	}

	return systray.NewIcon(e.opts.Width, e.opts.Height, RGBAToARGB(img.Pix))
}

// Rasterize renders SVG document onto a canvas of the configured size.
//
// Errors wrap [ErrRender].
func (e *Engine) Rasterize(doc string) (*image.RGBA, error) {
	labels, err := readLabels(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	svg, err := oksvg.ReadIconStream(strings.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	if svg.ViewBox.W <= 0 || svg.ViewBox.H <= 0 {
		return nil, fmt.Errorf("%w: document has no view box", ErrRender)
	}

	w, h := e.opts.Width, e.opts.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	svg.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	svg.Draw(rasterx.NewDasher(w, h, scanner), 1)

	scaleX := float64(w) / svg.ViewBox.W
	scaleY := float64(h) / svg.ViewBox.H

	for _, l := range labels {
		l.X = (l.X - svg.ViewBox.X) * scaleX
		l.Y = (l.Y - svg.ViewBox.Y) * scaleY
		l.Size *= scaleY

		if err := e.drawLabel(img, l); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRender, err)
		}
	}

	return img, nil
}

// label is a <text> element of the document.
type label struct {
	X, Y   float64
	Size   float64
	Anchor string
	Fill   color.RGBA
	Text   string
}

// drawLabel draws text with the baseline at l.Y.
func (e *Engine) drawLabel(img *image.RGBA, l label) error {
	face, err := opentype.NewFace(e.font, &opentype.FaceOptions{
		Size:    l.Size,
		DPI:     e.opts.DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(l.Fill),
		Face: face,
	}

	dot := fixed.Point26_6{X: toFixed(l.X), Y: toFixed(l.Y)}
	advance := d.MeasureString(l.Text)

	switch l.Anchor {
	case "middle":
		dot.X -= advance / 2
	case "end":
		dot.X -= advance
	}

	d.Dot = dot
	d.DrawString(l.Text)

	return nil
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// readLabels validates the document and returns its text elements.
func readLabels(doc string) ([]label, error) {
	decoder := xml.NewDecoder(strings.NewReader(doc))

	var (
		labels  []label
		current *label
		hasRoot bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid document: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if !hasRoot {
				if t.Name.Local != "svg" {
					return nil, fmt.Errorf("invalid document: root element is %s, not svg", t.Name.Local)
				}
				hasRoot = true
			}

			if t.Name.Local == "text" {
				l, err := newLabel(t.Attr)
				if err != nil {
					return nil, err
				}
				current = &l
			}

		case xml.CharData:
			if current != nil {
				current.Text += string(t)
			}

		case xml.EndElement:
			if t.Name.Local == "text" && current != nil {
				current.Text = strings.TrimSpace(current.Text)
				labels = append(labels, *current)
				current = nil
			}
		}
	}

	if !hasRoot {
		return nil, errors.New("invalid document: no svg element")
	}

	return labels, nil
}

func newLabel(attrs []xml.Attr) (label, error) {
	l := label{
		Size: 16,
		Fill: color.RGBA{A: 0xff},
	}

	for _, attr := range attrs {
		var err error

		switch attr.Name.Local {
		case "x":
			l.X, err = strconv.ParseFloat(attr.Value, 64)
		case "y":
			l.Y, err = strconv.ParseFloat(attr.Value, 64)
		case "font-size":
			l.Size, err = strconv.ParseFloat(strings.TrimSuffix(attr.Value, "px"), 64)
		case "text-anchor":
			l.Anchor = attr.Value
		case "fill":
			l.Fill, err = parseHexColor(attr.Value)
		}

		if err != nil {
			return label{}, fmt.Errorf("invalid text attribute %s=%q: %w", attr.Name.Local, attr.Value, err)
		}
	}

	return l, nil
}

// parseHexColor parses color in #rrggbb form.
func parseHexColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("expected #rrggbb")
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
