package pipeline

import (
	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// glyphParts части бинарного символа
type glyphParts struct {
	base     port.Image // контур пиктограммы, обрезанный по её рамке
	markings port.Image // метки внутри пиктограммы; nil если их нет
	outer    port.Image // штрихи снаружи пиктограммы
}

func (g *glyphParts) Close() error {
	for _, img := range []port.Image{g.base, g.markings, g.outer} {
		if img != nil {
			_ = img.Close()
		}
	}
	return nil
}

// splitGlyph делит символ на пиктограмму, внутренние метки и внешние линии.
// Пиктограмма самая крупная залитая область, метки лежат в её дырах
func (p *Pipeline) splitGlyph(ink port.Image) (*glyphParts, error) {
	var s scope
	defer s.close()

	filled := s.keep(p.im.FillHoles(ink))
	body, ok := p.largest(filled)
	if !ok {
		return nil, entity.ErrNoSymbolsFound
	}
	solid := s.keep(p.im.ContourMask(filled, body))

	holes := s.keep(p.im.And(filled, s.keep(p.im.Not(ink))))
	interior := s.keep(p.im.FillHoles(holes))
	interior = s.keep(p.im.And(interior, solid))

	parts := &glyphParts{}
	parts.outer = p.im.And(ink, s.keep(p.im.Not(solid)))

	stroke := s.keep(p.im.And(ink, solid))
	stroke = s.keep(p.im.And(stroke, s.keep(p.im.Not(interior))))
	base, ok := cropClone(p.im, stroke, body.Bounds)
	if !ok {
		parts.Close()
		return nil, entity.ErrNoSymbolsFound
	}
	parts.base = base

	markings := s.keep(p.im.And(ink, interior))
	if p.im.CountNonZero(markings) > 0 {
		if box, ok := p.inkBounds(markings, p.params.InnerCloseRadius); ok {
			parts.markings, _ = cropClone(p.im, markings, box)
		}
	}
	return parts, nil
}
