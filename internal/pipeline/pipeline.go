// Package pipeline распознаёт символы ухода на фотографии этикетки:
// поиск этикетки, полосы символов, выделение, очистка и сравнение с шаблонами.
package pipeline

import (
	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// Pipeline этапы распознавания поверх примитивов Imager
type Pipeline struct {
	im     port.Imager
	params Params
	log    *zap.Logger
}

// New создаёт набор этапов с заданными параметрами
func New(im port.Imager, params Params, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{im: im, params: params, log: log}
}

// Params параметры этапов
func (p *Pipeline) Params() Params {
	return p.params
}

// closing замыкание: расширение, затем сужение
func (p *Pipeline) closing(img port.Image, rx, ry int) port.Image {
	d := p.im.Dilate(img, rx, ry)
	defer d.Close()
	return p.im.Erode(d, rx, ry)
}

// opening размыкание: сужение, затем расширение
func (p *Pipeline) opening(img port.Image, rx, ry int) port.Image {
	e := p.im.Erode(img, rx, ry)
	defer e.Close()
	return p.im.Dilate(e, rx, ry)
}

// deskew поворачивает img так, чтобы rr стал прямым, и вырезает его
func (p *Pipeline) deskew(img port.Image, rr entity.RotatedRect) (port.Image, bool) {
	rotated := p.im.Rotate(img, rr.CenterX, rr.CenterY, rr.Angle)
	defer rotated.Close()
	return cropClone(p.im, rotated, rr.Crop())
}

// largest контур с наибольшей площадью
func (p *Pipeline) largest(mask port.Image) (entity.Contour, bool) {
	contours := p.im.Contours(mask)
	i := entity.Largest(contours)
	if i < 0 {
		return entity.Contour{}, false
	}
	return contours[i], true
}
