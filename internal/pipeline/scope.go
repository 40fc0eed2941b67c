package pipeline

import (
	"image"

	"care-label-reader/internal/domain/port"
)

// scope собирает промежуточные изображения этапа и закрывает их разом
type scope struct {
	images []port.Image
}

// keep регистрирует изображение и возвращает его же
func (s *scope) keep(img port.Image) port.Image {
	if img != nil {
		s.images = append(s.images, img)
	}
	return img
}

func (s *scope) close() {
	for i := len(s.images) - 1; i >= 0; i-- {
		_ = s.images[i].Close()
	}
	s.images = nil
}

// clampRect пересечение r с изображением размера size
func clampRect(r image.Rectangle, size image.Point) image.Rectangle {
	return r.Intersect(image.Rectangle{Max: size})
}

// odd ближайшее нечётное не меньше n и не меньше 3
func odd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n + 1
	}
	return n
}

func div(n, d int) int {
	if d <= 0 {
		return 0
	}
	return n / d
}

// cropClone копия области r; r обрезается по границам img
func cropClone(im port.Imager, img port.Image, r image.Rectangle) (port.Image, bool) {
	r = clampRect(r, img.Size())
	if r.Empty() {
		return nil, false
	}
	view, err := im.Region(img, r)
	if err != nil {
		return nil, false
	}
	defer view.Close()
	return im.Clone(view), true
}
