package raster

import (
	"image"
	"sync"

	"github.com/ernyoke/imger/edgedetection"
	"github.com/ernyoke/imger/threshold"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"care-label-reader/internal/domain/port"
)

// smallMedian наибольшее ядро, которое считается через bild
const smallMedian = 5

// MedianBlur медианный фильтр с окном ksize×ksize и повтором краёв
func (Imager) MedianBlur(img port.Image, ksize int) port.Image {
	g := grayOf(img)
	if ksize <= 1 {
		return wrapGray(cloneGray(g))
	}
	if ksize%2 == 0 {
		ksize++
	}
	if ksize <= smallMedian {
		return wrapGray(channelOf(toNRGBA(effect.Median(g, float64(ksize/2))), 0))
	}
	return wrapGray(histogramMedian(g, ksize/2))
}

// histogramMedian скользящая гистограмма по строке: O(r) на пиксель
func histogramMedian(g *image.Gray, r int) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := newGray(w, h)
	n := (2*r + 1) * (2*r + 1)
	half := n / 2

	for y := 0; y < h; y++ {
		var hist [256]int
		for dy := -r; dy <= r; dy++ {
			src := row(g, clampInt(y+dy, 0, h-1))
			for dx := -r; dx <= r; dx++ {
				hist[src[clampInt(dx, 0, w-1)]]++
			}
		}
		dst := row(out, y)
		dst[0] = medianOf(&hist, half)
		for x := 1; x < w; x++ {
			xo := clampInt(x-r-1, 0, w-1)
			xi := clampInt(x+r, 0, w-1)
			for dy := -r; dy <= r; dy++ {
				src := row(g, clampInt(y+dy, 0, h-1))
				hist[src[xo]]--
				hist[src[xi]]++
			}
			dst[x] = medianOf(&hist, half)
		}
	}
	return out
}

func medianOf(hist *[256]int, half int) uint8 {
	cum := 0
	for v := 0; v < 256; v++ {
		cum += hist[v]
		if cum > half {
			return uint8(v)
		}
	}
	return 255
}

// Threshold пиксели ярче порога становятся 255 (или 0 при inverse).
// Порог Оцу и сравнение считает Imger
func (Imager) Threshold(img port.Image, level uint8, otsu, inverse bool) port.Image {
	g := originGray(grayOf(img))
	method := threshold.ThreshBinary
	if inverse {
		method = threshold.ThreshBinaryInv
	}

	var (
		out *image.Gray
		err error
	)
	switch {
	case otsu:
		out, err = threshold.OtsuThreshold(g, method)
	case !inclusiveThreshold():
		out, err = threshold.Threshold(g, level, method)
	case level < 255:
		out, err = threshold.Threshold(g, level+1, method)
	default:
		// ярче 255 ничего нет
		out = newGray(g.Rect.Dx(), g.Rect.Dy())
		if inverse {
			fill(out, 255)
		}
	}
	if err != nil {
		return wrapGray(newGray(g.Rect.Dx(), g.Rect.Dy()))
	}
	return wrapGray(out)
}

var (
	tieOnce      sync.Once
	tieInclusive bool
)

// inclusiveThreshold true, если Imger относит к 255 и пиксель, равный порогу
func inclusiveThreshold() bool {
	tieOnce.Do(func() {
		sample := newGray(1, 1)
		sample.Pix[0] = 7
		out, err := threshold.Threshold(sample, 7, threshold.ThreshBinary)
		tieInclusive = err == nil && out.Pix[0] == 255
	})
	return tieInclusive
}

// originGray Imger обходит пиксели от (0, 0), вид нужно скопировать
func originGray(g *image.Gray) *image.Gray {
	if g.Rect.Min == (image.Point{}) {
		return g
	}
	return cloneGray(g)
}

func fill(g *image.Gray, v uint8) {
	for i := range g.Pix {
		g.Pix[i] = v
	}
}

// AdaptiveThreshold сравнивает пиксель с гауссовым средним окрестности минус c
func (Imager) AdaptiveThreshold(img port.Image, block int, c float64, inverse bool) port.Image {
	g := grayOf(img)
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	// сигма как у OpenCV для ядра block; у bild sigma² = 2·radius
	sigma := 0.3*(float64(block-1)*0.5-1) + 0.8
	mean := channelOf(toNRGBA(blur.Gaussian(g, sigma*sigma/2)), 0)

	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := newGray(w, h)
	for y := 0; y < h; y++ {
		src, avg, dst := row(g, y), row(mean, y), row(out, y)
		for x, v := range src {
			if (float64(v) > float64(avg[x])-c) != inverse {
				dst[x] = 255
			}
		}
	}
	return wrapGray(out)
}

// cannyPad поле с повтором краёв, чтобы граница снимка не давала рёбер
const cannyPad = 4

// Canny детектор рёбер Imger с ядром сглаживания 1
func (Imager) Canny(img port.Image, low, high float64) port.Image {
	g := grayOf(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := newGray(w, h)
	if w < 3 || h < 3 {
		return wrapGray(out)
	}

	edges, err := edgedetection.CannyGray(replicatePad(g, cannyPad), low, high, 1)
	if err != nil {
		return wrapGray(out)
	}
	for y := 0; y < h; y++ {
		src := edges.Pix[(y+cannyPad)*edges.Stride+cannyPad:]
		dst := row(out, y)
		for x := range dst {
			if src[x] != 0 {
				dst[x] = 255
			}
		}
	}
	return wrapGray(out)
}

// replicatePad копия g с полем n, заполненным ближайшими краевыми пикселями
func replicatePad(g *image.Gray, n int) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := newGray(w+2*n, h+2*n)
	for y := 0; y < h+2*n; y++ {
		src := row(g, clampInt(y-n, 0, h-1))
		dst := row(out, y)
		for x := range dst {
			dst[x] = src[clampInt(x-n, 0, w-1)]
		}
	}
	return out
}
