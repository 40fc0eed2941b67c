package pipeline

import (
	"fmt"
	"image"
	"math"
	"sort"

	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// Glyph выделенный символ вместе с его изображением
type Glyph struct {
	*entity.Symbol
	Image port.Image
}

// Close освобождает изображение символа
func (g *Glyph) Close() error {
	if g.Image == nil {
		return nil
	}
	return g.Image.Close()
}

// CloseGlyphs закрывает все символы
func CloseGlyphs(glyphs []*Glyph) {
	for _, g := range glyphs {
		_ = g.Close()
	}
}

// IsolateSymbols делит выровненную полосу на символы слева направо.
// Все символы вырезаются рамкой одного размера. expected > 0 требует
// точного числа символов
func (p *Pipeline) IsolateSymbols(band port.Image, expected int) ([]*Glyph, error) {
	var s scope
	defer s.close()

	h := band.Size().Y
	ink := s.keep(p.im.Normalize(band))
	ink = s.keep(p.im.MedianBlur(ink, 3))
	ink = s.keep(p.im.AdaptiveThreshold(ink, odd(h/2), p.params.IsolateAdaptiveC, true))
	ink = s.keep(p.im.Dilate(ink, 1, 1))
	if r := div(h, p.params.IsolateCloseDivisor); r > 0 {
		ink = s.keep(p.closing(ink, r, r))
	}
	ink = s.keep(p.im.FillHoles(ink))
	if r := div(h, p.params.IsolateOpenDivisor); r > 0 {
		ink = s.keep(p.opening(ink, r, r))
	}

	contours := p.im.Contours(ink)
	sort.SliceStable(contours, func(i, j int) bool {
		return contours[i].Bounds.Min.X < contours[j].Bounds.Min.X
	})

	n := len(contours)
	p.log.Debug("symbols detected", zap.Int("count", n), zap.Int("expected", expected))
	switch {
	case n == 0:
		return nil, entity.ErrNoSymbolsFound
	case n > p.params.MaxSymbols:
		return nil, fmt.Errorf("%w: found %d, at most %d", entity.ErrSymbolCountMismatch, n, p.params.MaxSymbols)
	case expected > 0 && n != expected:
		return nil, fmt.Errorf("%w: found %d, expected %d", entity.ErrSymbolCountMismatch, n, expected)
	}

	boxes := symbolBoxes(contours, band.Size(), p.params.IsolateWidthScale, p.params.IsolateHeightScale)
	glyphs := make([]*Glyph, 0, n)
	for i, box := range boxes {
		img, ok := cropClone(p.im, band, box)
		if !ok {
			CloseGlyphs(glyphs)
			return nil, fmt.Errorf("%w: symbol %d has empty box %v", entity.ErrNoSymbolsFound, i, box)
		}
		glyphs = append(glyphs, &Glyph{Symbol: entity.NewSymbol(i, box), Image: img})
	}
	return glyphs, nil
}

// symbolBoxes рамки общего размера: ширина по самому широкому символу,
// высота по общему вертикальному охвату
func symbolBoxes(contours []entity.Contour, size image.Point, wScale, hScale float64) []image.Rectangle {
	union := contours[0].Bounds
	maxW := 0
	for _, c := range contours {
		union = union.Union(c.Bounds)
		maxW = max(maxW, c.Bounds.Dx())
	}
	w := min(int(math.Round(float64(maxW)*wScale)), size.X)
	h := min(int(math.Round(float64(union.Dy())*hScale)), size.Y)
	cy := union.Min.Y + union.Dy()/2

	boxes := make([]image.Rectangle, len(contours))
	for i, c := range contours {
		cx := c.Bounds.Min.X + c.Bounds.Dx()/2
		box := image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)
		box = shiftInside(box, size)
		boxes[i] = clampRect(box, size)
	}
	return boxes
}

// shiftInside сдвигает r внутрь изображения, не меняя размер, если он помещается
func shiftInside(r image.Rectangle, size image.Point) image.Rectangle {
	var d image.Point
	switch {
	case r.Min.X < 0:
		d.X = -r.Min.X
	case r.Max.X > size.X:
		d.X = size.X - r.Max.X
	}
	switch {
	case r.Min.Y < 0:
		d.Y = -r.Min.Y
	case r.Max.Y > size.Y:
		d.Y = size.Y - r.Max.Y
	}
	return r.Add(d)
}
