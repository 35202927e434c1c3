// Package render turns layout frames into PNG images. It draws links first,
// then node circles colored by classification, supersampled and scaled down
// for smooth edges.
package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/corrnet/corrnet/plugin/layout"
)

// Options configures PNG output.
type Options struct {
	Width       int
	Height      int
	Supersample int
	Background  color.RGBA
	LineWidth   float64
}

// DefaultOptions returns the export defaults for a canvas of the given size.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:       width,
		Height:      height,
		Supersample: 2,
		Background:  color.RGBA{255, 255, 255, 255},
		LineWidth:   1.5,
	}
}

var (
	colorAnchor  = color.RGBA{230, 81, 0, 255}    // #e65100
	colorRelated = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorOther   = color.RGBA{158, 158, 158, 255} // #9e9e9e
	colorLink    = color.RGBA{189, 189, 189, 255} // #bdbdbd
)

func fillFor(c layout.Classification) color.RGBA {
	switch c {
	case layout.ClassAnchor:
		return colorAnchor
	case layout.ClassRelated:
		return colorRelated
	default:
		return colorOther
	}
}

// Draw renders a frame to an image at the configured size.
func Draw(frame *layout.Frame, opts Options) *image.NRGBA {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions(800, 600)
	}
	scale := opts.Supersample
	if scale < 1 {
		scale = 1
	}

	w := opts.Width * scale
	h := opts.Height * scale
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, opts.Background)
		}
	}

	s := float64(scale)
	for _, link := range frame.Links {
		drawLine(img, link.X1*s, link.Y1*s, link.X2*s, link.Y2*s, opts.LineWidth*s, colorLink)
	}
	for _, node := range frame.Nodes {
		drawCircle(img, node.X*s, node.Y*s, node.Radius*s, fillFor(node.Classification))
	}

	if scale == 1 {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, opts.Width, opts.Height, imaging.Lanczos)
}

// Encode renders a frame and writes it as PNG.
func Encode(w io.Writer, frame *layout.Frame, opts Options) error {
	if frame == nil {
		return errors.New("render: nil frame")
	}
	if err := png.Encode(w, Draw(frame, opts)); err != nil {
		return errors.Wrap(err, "encode png")
	}
	return nil
}

// Exporter is a FrameSink that keeps the most recent frame so it can be
// exported on demand. It copies the frame's slices on publish.
type Exporter struct {
	mu   sync.Mutex
	opts Options
	last *layout.Frame
}

// NewExporter returns an Exporter with the given output options.
func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Publish stores a deep copy of the frame for later export.
func (e *Exporter) Publish(frame *layout.Frame) {
	if frame == nil {
		return
	}
	cp := *frame
	cp.Nodes = append([]layout.FrameNode(nil), frame.Nodes...)
	cp.Links = append([]layout.FrameLink(nil), frame.Links...)

	e.mu.Lock()
	e.last = &cp
	e.mu.Unlock()
}

// WritePNG encodes the most recently published frame.
func (e *Exporter) WritePNG(w io.Writer) error {
	e.mu.Lock()
	frame := e.last
	e.mu.Unlock()
	if frame == nil {
		return errors.New("render: no frame published yet")
	}
	return Encode(w, frame, e.opts)
}

func drawCircle(img *image.RGBA, cx, cy, r float64, fill color.RGBA) {
	if r <= 0 {
		return
	}
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))
	for y := minY; y <= maxY; y++ {
		dy := float64(y) - cy
		span := r*r - dy*dy
		if span < 0 {
			continue
		}
		half := math.Sqrt(span)
		for x := int(math.Floor(cx - half)); x <= int(math.Ceil(cx+half)); x++ {
			dx := float64(x) - cx
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, fill)
			}
		}
	}
}

func drawLine(img *image.RGBA, x1, y1, x2, y2, width float64, c color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length < 1 {
		return
	}
	steps := int(length) + 1
	perpX := -dy / length
	perpY := dx / length
	half := width / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := x1 + dx*t
		py := y1 + dy*t
		for o := -half; o <= half; o += 0.5 {
			img.SetRGBA(int(px+perpX*o), int(py+perpY*o), c)
		}
	}
}
