// Package preview draws keyframe curves into small images for the web view.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/animstudio/keyframe"
	"github.com/matt-g-everett/animstudio/util"
)

// padding keeps the curve's extremes off the image border.
const padding = 5

const (
	curveChroma    = 0.6
	curveLuminance = 0.7
)

var (
	flatLine  = colorful.Color{R: 1, G: 1, B: 1}
	keyMarker = colorful.Color{R: 1}
)

// Render draws the curve of track between minTime and maxTime. The track is
// cloned first so its cache and current value are left alone.
//
// Each keyframe inside the bounds gets a red vertical marker. With fewer than
// two such keyframes, or when they all share one value, a white line is drawn
// across the middle instead of the curve.
func Render(track *keyframe.Track, minTime, maxTime, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	if width <= 0 || height <= 0 || maxTime <= minTime {
		return img
	}

	t := track.Clone()
	low, high := math.Inf(1), math.Inf(-1)
	count := 0
	for _, k := range t.Keys() {
		if k.Time < minTime || k.Time > maxTime {
			continue
		}
		count++
		low = math.Min(low, k.Value)
		high = math.Max(high, k.Value)
		verticalLine(img, column(k.Time, minTime, maxTime, width), 0, height-1, keyMarker)
	}

	if count <= 1 || low == high {
		horizontalLine(img, height/2, flatLine)
		return img
	}

	pad := padding
	if height <= 2*padding+1 {
		pad = 0
	}
	scale := float64(height-1-2*pad) / (high - low)

	prev := -1
	for x := 0; x < width; x++ {
		time := minTime
		if width > 1 {
			time = minTime + x*(maxTime-minTime)/(width-1)
		}
		v := t.Evaluate(time)
		y := util.ClampInt(pad+int(math.Round((high-v)*scale)), 0, height-1)
		c := Spectrum.Color(util.Clamp((v-low)/(high-low), 0, 1), curveChroma, curveLuminance)

		if prev < 0 {
			prev = y
		}
		verticalLine(img, x, min(prev, y), max(prev, y), c)
		prev = y
	}

	return img
}

// column maps a tick onto an image column.
func column(time, minTime, maxTime, width int) int {
	return util.ClampInt((time-minTime)*(width-1)/(maxTime-minTime), 0, width-1)
}

func verticalLine(img *image.RGBA, x, y0, y1 int, c color.Color) {
	for y := y0; y <= y1; y++ {
		img.Set(x, y, c)
	}
}

func horizontalLine(img *image.RGBA, y int, c color.Color) {
	for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
		img.Set(x, y, c)
	}
}

// Renderer keeps an encoded PNG per control and redraws it when its track is
// marked dirty. Not safe for concurrent use; Images hands out data that is
// never modified afterwards.
type Renderer struct {
	width  int
	height int
	images map[string][]byte
}

// NewRenderer creates a Renderer producing width x height images.
func NewRenderer(width, height int) *Renderer {
	r := new(Renderer)
	r.width = width
	r.height = height
	r.images = make(map[string][]byte)
	return r
}

// Update redraws control's preview if the track is dirty or has never been
// drawn, clearing the dirty flag. It reports whether it drew.
func (r *Renderer) Update(control string, track *keyframe.Track, minTime, maxTime int) (bool, error) {
	if _, ok := r.images[control]; ok && !track.Dirty {
		return false, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(track, minTime, maxTime, r.width, r.height)); err != nil {
		return false, fmt.Errorf("encoding preview %q: %w", control, err)
	}

	r.images[control] = buf.Bytes()
	track.Dirty = false
	return true, nil
}

// Images returns a copy of the preview map.
func (r *Renderer) Images() map[string][]byte {
	images := make(map[string][]byte, len(r.images))
	for k, v := range r.images {
		images[k] = v
	}
	return images
}

// Reset forgets every preview, e.g. after another element was selected.
func (r *Renderer) Reset() {
	r.images = make(map[string][]byte)
}
