package raster

import (
	"image"

	"care-label-reader/internal/domain/port"
)

// Dilate бинарное расширение: за границей изображения фон
func (Imager) Dilate(img port.Image, rx, ry int) port.Image {
	return wrapGray(morph(grayOf(img), rx, ry, false))
}

// Erode бинарное сужение: за границей изображения передний план
func (Imager) Erode(img port.Image, rx, ry int) port.Image {
	return wrapGray(morph(grayOf(img), rx, ry, true))
}

// morph считает число пикселей переднего плана в окне по интегральной сумме
func morph(g *image.Gray, rx, ry int, erode bool) *image.Gray {
	rx, ry = max(rx, 0), max(ry, 0)
	if rx == 0 && ry == 0 {
		return cloneGray(g)
	}
	w, h := g.Rect.Dx(), g.Rect.Dy()
	sum := integral(g)
	stride := w + 1

	out := newGray(w, h)
	for y := 0; y < h; y++ {
		y0, y1 := max(y-ry, 0), min(y+ry, h-1)+1
		dst := row(out, y)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-rx, 0), min(x+rx, w-1)+1
			n := sum[y1*stride+x1] - sum[y0*stride+x1] - sum[y1*stride+x0] + sum[y0*stride+x0]
			if erode {
				if n == (x1-x0)*(y1-y0) {
					dst[x] = 255
				}
			} else if n > 0 {
				dst[x] = 255
			}
		}
	}
	return out
}

// integral таблица (w+1)×(h+1) накопленного числа ненулевых пикселей
func integral(g *image.Gray) []int {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	stride := w + 1
	sum := make([]int, stride*(h+1))
	for y := 0; y < h; y++ {
		acc := 0
		src := row(g, y)
		for x := 0; x < w; x++ {
			if src[x] != 0 {
				acc++
			}
			sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + acc
		}
	}
	return sum
}

// FillHoles заливает фон, недостижимый от края изображения
func (Imager) FillHoles(img port.Image) port.Image {
	g := grayOf(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	outside := floodBackground(g)

	out := newGray(w, h)
	for y := 0; y < h; y++ {
		dst := row(out, y)
		for x := 0; x < w; x++ {
			if !outside[y*w+x] {
				dst[x] = 255
			}
		}
	}
	return wrapGray(out)
}

// floodBackground отмечает фон, 4-связно достижимый от края
func floodBackground(g *image.Gray) []bool {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	seen := make([]bool, w*h)
	stack := make([]int, 0, 2*(w+h))
	push := func(x, y int) {
		i := y*w + x
		if seen[i] || row(g, y)[x] != 0 {
			return
		}
		seen[i] = true
		stack = append(stack, i)
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}
	return seen
}
