package pipeline

import (
	"image"

	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// LocateBand находит горизонтальную полосу со строкой символов.
// Полоса занимает всю ширину этикетки и вдвое выше найденной строки
func (p *Pipeline) LocateBand(label port.Image) (port.Image, error) {
	var s scope
	defer s.close()

	flat := s.keep(p.flattenBackground(&s, label))

	edges := s.keep(p.im.Normalize(flat))
	edges = s.keep(p.im.MedianBlur(edges, 5))
	edges = s.keep(p.im.Canny(edges, p.params.BandCannyLow, p.params.BandCannyHigh))
	edges = s.keep(p.im.Dilate(edges, 1, 0))
	edges = s.keep(p.im.Dilate(edges, 1, 1))
	if r := p.params.BandEdgeClose; r > 0 {
		edges = s.keep(p.closing(edges, r, r))
	}
	edges = s.keep(p.im.FillHoles(edges))

	size := edges.Size()
	r := div(min(size.X, size.Y), p.params.BandOpenDivisor)
	edges = s.keep(p.opening(edges, r, r))
	edges = s.keep(p.im.Dilate(edges, div(size.X, p.params.BandBridgeDivisor), 0))

	row, ok := p.largest(edges)
	if !ok {
		return nil, entity.ErrNoSymbolRowFound
	}
	span := p.rowSpan(&s, flat, edges, row)
	y, h := span.Min.Y, span.Dy()
	y += h / 2
	h *= 2
	y -= h / 2

	band, ok := cropClone(p.im, label, image.Rect(0, y, size.X, y+h))
	if !ok {
		return nil, entity.ErrNoSymbolRowFound
	}
	p.log.Debug("symbol band located", zap.Int("y", y), zap.Int("height", h))
	return band, nil
}

// rowSpan вертикальный охват строки: рамка row и тёмные компоненты,
// которые её задевают. После поворота контур символа может не залиться
// и исчезнуть при размыкании, а его чернила остаются
func (p *Pipeline) rowSpan(s *scope, flat, rows port.Image, row entity.Contour) image.Rectangle {
	span := row.Bounds
	ink, ok := p.inkMask(s, flat)
	if !ok {
		return span
	}
	blob := s.keep(p.im.ContourMask(rows, row))
	limit := flat.Size().Y * 2 / 3
	for _, c := range p.im.Contours(ink) {
		if c.Bounds.Dy() > limit || !c.Bounds.Overlaps(row.Bounds) {
			continue
		}
		part := s.keep(p.im.ContourMask(ink, c))
		if p.im.CountNonZero(s.keep(p.im.And(part, blob))) == 0 {
			continue
		}
		span.Min.Y = min(span.Min.Y, c.Bounds.Min.Y)
		span.Max.Y = max(span.Max.Y, c.Bounds.Max.Y)
	}
	return span
}

// inkMask тёмные пиксели по Оцу после растяжения яркости. Пустая маска
// или маска на всю область значит, что чернил нет
func (p *Pipeline) inkMask(s *scope, img port.Image) (port.Image, bool) {
	ink := s.keep(p.im.Normalize(img))
	ink = s.keep(p.im.Threshold(ink, 0, true, true))
	size := img.Size()
	if n := p.im.CountNonZero(ink); n == 0 || n == size.X*size.Y {
		return nil, false
	}
	return ink, true
}

// flattenBackground заменяет цветные области, касающиеся края этикетки,
// медианной оценкой фона. Результат в одном канале
func (p *Pipeline) flattenBackground(s *scope, label port.Image) port.Image {
	ch := s.keep(p.im.Channel(label, p.params.BandChannel))
	ch = s.keep(p.im.MedianBlur(ch, p.params.BandMedianKSize))

	pale := s.keep(p.im.WhiteMask(label, p.params.BandInkSaturation, p.params.BandInkValue))
	mask := s.keep(p.im.Not(pale))
	mask = s.keep(p.closing(mask, p.params.BandMaskClose, p.params.BandMaskClose))
	mask = s.keep(p.borderComponents(s, mask))
	mask = s.keep(p.im.Dilate(mask, p.params.BandMaskDilate, p.params.BandMaskDilate))

	bkgd := s.keep(p.im.MedianBlur(ch, p.params.BandBackgroundKSize))
	kept := s.keep(p.im.And(ch, s.keep(p.im.Not(mask))))
	filled := s.keep(p.im.And(bkgd, mask))
	return p.im.Or(kept, filled)
}

// borderComponents оставляет только компоненты маски, касающиеся края
func (p *Pipeline) borderComponents(s *scope, mask port.Image) port.Image {
	size := mask.Size()
	frame := image.Rect(1, 1, size.X-1, size.Y-1)

	out := s.keep(p.im.Xor(mask, mask))
	for _, c := range p.im.Contours(mask) {
		if c.Bounds.In(frame) {
			continue
		}
		filled := s.keep(p.im.ContourMask(mask, c))
		part := s.keep(p.im.And(filled, mask))
		out = s.keep(p.im.Or(out, part))
	}
	return p.im.Clone(out)
}

// RefineBand обрезает полосу по горизонтали до группы символов
func (p *Pipeline) RefineBand(band port.Image) (port.Image, error) {
	var s scope
	defer s.close()

	size := band.Size()
	margin := p.params.RefineSideMargin
	if size.X <= 2*margin {
		margin = 0
	}
	inner, err := p.im.Region(band, image.Rect(margin, 0, size.X-margin, size.Y))
	if err != nil {
		return nil, entity.ErrNoSymbolRowFound
	}
	s.keep(inner)

	w, h := inner.Size().X, inner.Size().Y
	ink, ok := p.inkMask(&s, inner)
	if !ok {
		return nil, entity.ErrNoSymbolRowFound
	}
	// промежуток между символами растёт с их высотой, а не с шириной этикетки
	rx := max(div(w, p.params.RefineHDivisor), div(h, p.params.RefineBridge))
	ink = s.keep(p.im.Dilate(ink, rx, 0))
	ink = s.keep(p.im.Dilate(ink, 0, div(h, p.params.RefineVDivisor)))

	group, ok := p.largest(ink)
	if !ok {
		return nil, entity.ErrNoSymbolRowFound
	}
	x0 := group.Bounds.Min.X + margin - p.params.RefineSideMargin
	x1 := group.Bounds.Max.X + margin + p.params.RefineSideMargin

	refined, ok := cropClone(p.im, band, image.Rect(x0, 0, x1, size.Y))
	if !ok {
		return nil, entity.ErrNoSymbolRowFound
	}
	p.log.Debug("symbol band refined", zap.Int("x", max(x0, 0)), zap.Stringer("size", refined.Size()))
	return refined, nil
}

// AlignBand убирает остаточный наклон полосы
func (p *Pipeline) AlignBand(band port.Image) (port.Image, error) {
	var s scope
	defer s.close()

	size := band.Size()
	ink, ok := p.inkMask(&s, band)
	if !ok {
		return nil, entity.ErrNoSymbolRowFound
	}
	ink = s.keep(p.im.Dilate(ink, div(size.X, p.params.AlignHDivisor), 0))
	ink = s.keep(p.im.Dilate(ink, 0, div(size.Y, p.params.AlignVDivisor)))

	contours := p.im.Contours(ink)
	i := entity.Largest(contours)
	if i < 0 {
		return nil, entity.ErrNoSymbolRowFound
	}
	rr := p.im.MinAreaRect(sameRow(contours, i))
	aligned, ok := p.deskew(band, rr)
	if !ok {
		return nil, entity.ErrNoSymbolRowFound
	}
	p.log.Debug("symbol band aligned", zap.Float64("angle", rr.Angle), zap.Stringer("size", aligned.Size()))
	return aligned, nil
}

// sameRow объединяет контур i с контурами, центр которых лежит в его
// строке. Символы после обрезки стоят дальше друг от друга, чем радиус
// расширения, и сливаются не всегда
func sameRow(contours []entity.Contour, i int) entity.Contour {
	core := contours[i]
	pad := core.Bounds.Dy() / 2
	top, bottom := core.Bounds.Min.Y-pad, core.Bounds.Max.Y+pad

	group := entity.Contour{Bounds: core.Bounds, Seed: core.Seed}
	for _, c := range contours {
		cy := (c.Bounds.Min.Y + c.Bounds.Max.Y) / 2
		if cy < top || cy > bottom {
			continue
		}
		group.Points = append(group.Points, c.Points...)
		group.Bounds = group.Bounds.Union(c.Bounds)
		group.Area += c.Area
	}
	return group
}
