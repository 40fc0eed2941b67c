package raster

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"care-label-reader/internal/domain/port"
)

// Imager реализация примитивов на чистом Go
type Imager struct{}

// New создаёт бэкенд без внешних зависимостей от OpenCV
func New() *Imager {
	return &Imager{}
}

// Decode читает PNG/JPEG с учётом EXIF-ориентации
func (Imager) Decode(data []byte, gray bool) (port.Image, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("decode image: empty image")
	}
	if gray {
		return wrapGray(channelOf(imaging.Grayscale(src), 0)), nil
	}
	return &Image{rgb: imaging.Clone(src)}, nil
}

func (Imager) Encode(img port.Image, ext string) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, unwrap(img).Std(), format); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func (Imager) Clone(img port.Image) port.Image {
	m := unwrap(img)
	if m.rgb != nil {
		return &Image{rgb: imaging.Clone(m.rgb)}
	}
	return wrapGray(cloneGray(m.gray))
}

// Region вид на часть изображения; пиксели общие с родителем
func (Imager) Region(img port.Image, r image.Rectangle) (port.Image, error) {
	m := unwrap(img)
	bounds := image.Rectangle{Max: m.Size()}
	if r.Empty() || !r.In(bounds) {
		return nil, fmt.Errorf("region %v outside image %v", r, bounds)
	}
	if m.rgb != nil {
		return &Image{rgb: m.rgb.SubImage(r.Add(m.rgb.Rect.Min)).(*image.NRGBA)}, nil
	}
	return &Image{gray: m.gray.SubImage(r.Add(m.gray.Rect.Min)).(*image.Gray)}, nil
}

func (Imager) Border(img port.Image, n int) port.Image {
	g := grayOf(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := newGray(w+2*n, h+2*n)
	for y := 0; y < h; y++ {
		copy(row(out, y+n)[n:], row(g, y))
	}
	return wrapGray(out)
}

func (Imager) Gray(img port.Image) port.Image {
	m := unwrap(img)
	if m.rgb != nil {
		return wrapGray(channelOf(imaging.Grayscale(m.rgb), 0))
	}
	return wrapGray(cloneGray(m.gray))
}

// Channel извлекает канал в порядке BGR
func (Imager) Channel(img port.Image, ch int) port.Image {
	m := unwrap(img)
	if m.rgb == nil {
		return wrapGray(cloneGray(m.gray))
	}
	return wrapGray(channelOf(m.rgb, 2-clampInt(ch, 0, 2)))
}

func (Imager) WhiteMask(img port.Image, maxSaturation, minValue uint8) port.Image {
	m := unwrap(img)
	size := m.Size()
	out := newGray(size.X, size.Y)
	if m.gray != nil {
		for y := 0; y < size.Y; y++ {
			src, dst := row(m.gray, y), row(out, y)
			for x, v := range src {
				if v >= minValue {
					dst[x] = 255
				}
			}
		}
		return wrapGray(out)
	}

	maxS := float64(maxSaturation) / 255
	minV := float64(minValue) / 255
	for y := 0; y < size.Y; y++ {
		src := m.rgb.Pix[y*m.rgb.Stride:]
		dst := row(out, y)
		for x := range dst {
			c := colorful.Color{
				R: float64(src[4*x]) / 255,
				G: float64(src[4*x+1]) / 255,
				B: float64(src[4*x+2]) / 255,
			}
			_, s, v := c.Hsv()
			if s <= maxS && v >= minV {
				dst[x] = 255
			}
		}
	}
	return wrapGray(out)
}

// Normalize min-max растяжение; однотонное изображение становится чёрным
func (Imager) Normalize(img port.Image) port.Image {
	g := grayOf(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	lo, hi := uint8(255), uint8(0)
	for y := 0; y < h; y++ {
		for _, v := range row(g, y) {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	out := newGray(w, h)
	if hi <= lo {
		return wrapGray(out)
	}
	scale := 255 / float64(hi-lo)
	for y := 0; y < h; y++ {
		src, dst := row(g, y), row(out, y)
		for x, v := range src {
			dst[x] = uint8(math.Round(float64(v-lo) * scale))
		}
	}
	return wrapGray(out)
}

// Rotate поворачивает против часовой стрелки, размер не меняется,
// открывшиеся области чёрные
func (Imager) Rotate(img port.Image, cx, cy, angle float64) port.Image {
	m := unwrap(img)
	pivot := image.Pt(int(math.Round(cx)), int(math.Round(cy)))
	opts := &transform.RotationOptions{ResizeBounds: false, Pivot: &pivot}

	var src image.Image
	if m.rgb != nil {
		src = imaging.Clone(m.rgb)
	} else {
		src = cloneGray(m.gray)
	}
	rotated := transform.Rotate(src, -angle, opts)

	if m.rgb != nil {
		return &Image{rgb: toNRGBA(rotated)}
	}
	return wrapGray(channelOf(toNRGBA(rotated), 0))
}

// Resize ближайшим соседом, чтобы бинарные изображения оставались бинарными
func (Imager) Resize(img port.Image, size image.Point) port.Image {
	m := unwrap(img)
	resized := imaging.Resize(m.Std(), size.X, size.Y, imaging.NearestNeighbor)
	if m.rgb != nil {
		return &Image{rgb: resized}
	}
	return wrapGray(channelOf(resized, 0))
}

func (Imager) And(a, b port.Image) port.Image {
	return bitwise(a, b, func(x, y uint8) uint8 { return x & y })
}

func (Imager) Or(a, b port.Image) port.Image {
	return bitwise(a, b, func(x, y uint8) uint8 { return x | y })
}

func (Imager) Xor(a, b port.Image) port.Image {
	return bitwise(a, b, func(x, y uint8) uint8 { return x ^ y })
}

func (Imager) Not(img port.Image) port.Image {
	g := grayOf(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := newGray(w, h)
	for y := 0; y < h; y++ {
		src, dst := row(g, y), row(out, y)
		for x, v := range src {
			dst[x] = ^v
		}
	}
	return wrapGray(out)
}

func (Imager) CountNonZero(img port.Image) int {
	g := grayOf(img)
	n := 0
	for y := 0; y < g.Rect.Dy(); y++ {
		for _, v := range row(g, y) {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// bitwise поэлементная операция над общей частью двух серых изображений
func bitwise(a, b port.Image, op func(x, y uint8) uint8) port.Image {
	ga, gb := grayOf(a), grayOf(b)
	w := min(ga.Rect.Dx(), gb.Rect.Dx())
	h := min(ga.Rect.Dy(), gb.Rect.Dy())
	out := newGray(w, h)
	for y := 0; y < h; y++ {
		ra, rb, dst := row(ga, y), row(gb, y), row(out, y)
		for x := 0; x < w; x++ {
			dst[x] = op(ra[x], rb[x])
		}
	}
	return wrapGray(out)
}

var _ port.Imager = (*Imager)(nil)
