package raster

import (
	"fmt"
	"image"

	"care-label-reader/internal/domain/port"
)

// Image изображение в памяти: серое или цветное
type Image struct {
	gray *image.Gray
	rgb  *image.NRGBA
}

// FromImage оборачивает стандартное изображение; *image.Gray остаётся серым
func FromImage(src image.Image) *Image {
	if g, ok := src.(*image.Gray); ok {
		return &Image{gray: cloneGray(g)}
	}
	return &Image{rgb: toNRGBA(src)}
}

func (m *Image) Size() image.Point {
	switch {
	case m.gray != nil:
		return m.gray.Rect.Size()
	case m.rgb != nil:
		return m.rgb.Rect.Size()
	}
	return image.Point{}
}

func (m *Image) Channels() int {
	if m.rgb != nil {
		return 3
	}
	return 1
}

func (m *Image) Close() error {
	m.gray = nil
	m.rgb = nil
	return nil
}

// Std возвращает изображение как image.Image
func (m *Image) Std() image.Image {
	if m.rgb != nil {
		return m.rgb
	}
	return m.gray
}

func unwrap(img port.Image) *Image {
	m, ok := img.(*Image)
	if !ok {
		panic(fmt.Sprintf("raster: foreign image type %T", img))
	}
	return m
}

// grayOf возвращает серое представление без копирования для серых изображений
func grayOf(img port.Image) *image.Gray {
	m := unwrap(img)
	if m.gray != nil {
		return m.gray
	}
	return luminance(m.rgb)
}

func newGray(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func wrapGray(g *image.Gray) *Image {
	return &Image{gray: g}
}

// row строка y относительно начала области
func row(g *image.Gray, y int) []uint8 {
	w := g.Rect.Dx()
	off := y * g.Stride
	return g.Pix[off : off+w]
}

func cloneGray(g *image.Gray) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := newGray(w, h)
	for y := 0; y < h; y++ {
		copy(row(out, y), row(g, y))
	}
	return out
}

// luminance яркость по весам BT.601
func luminance(src *image.NRGBA) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := newGray(w, h)
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride:]
		d := row(out, y)
		for x := 0; x < w; x++ {
			r, g, b := float64(s[4*x]), float64(s[4*x+1]), float64(s[4*x+2])
			d[x] = uint8(0.299*r + 0.587*g + 0.114*b + 0.5)
		}
	}
	return out
}

// channelOf извлекает компоненту с номером offset в NRGBA (0 R, 1 G, 2 B)
func channelOf(src *image.NRGBA, offset int) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := newGray(w, h)
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride:]
		d := row(out, y)
		for x := 0; x < w; x++ {
			d[x] = s[4*x+offset]
		}
	}
	return out
}

// toNRGBA копирует любое изображение в NRGBA с началом в нуле
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		d := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			d[4*x] = uint8(r >> 8)
			d[4*x+1] = uint8(g >> 8)
			d[4*x+2] = uint8(bl >> 8)
			d[4*x+3] = 255
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
