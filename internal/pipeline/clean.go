package pipeline

import (
	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// CleanSymbol убирает шум вокруг штриха символа и бинаризует его:
// штрих 255, фон 0
func (p *Pipeline) CleanSymbol(img port.Image) (port.Image, error) {
	var s scope
	defer s.close()

	gray := s.keep(p.im.Gray(img))
	size := gray.Size()
	r := p.params.CleanDilateRadius

	solid := s.keep(p.im.Threshold(gray, 0, true, true))
	solid = s.keep(p.im.Dilate(solid, r, r))
	solid = s.keep(p.im.FillHoles(solid))

	contours := p.im.Contours(solid)
	i := entity.Closest(contours, float64(size.X)/2, float64(size.Y)/2)
	if i < 0 {
		return nil, entity.ErrNoSymbolsFound
	}
	mask := s.keep(p.im.ContourMask(solid, contours[i]))
	mask = s.keep(p.im.Dilate(mask, r, r))

	bkgd := s.keep(p.im.MedianBlur(gray, p.params.CleanBackgroundKSize))
	stroke := s.keep(p.im.And(gray, mask))
	around := s.keep(p.im.And(bkgd, s.keep(p.im.Not(mask))))
	clean := s.keep(p.im.Or(stroke, around))

	clean = s.keep(p.im.Normalize(clean))
	clean = s.keep(p.im.MedianBlur(clean, 3))
	bin := p.im.AdaptiveThreshold(clean, odd(min(size.X, size.Y)/2), p.params.CleanAdaptiveC, true)

	p.log.Debug("symbol cleaned", zap.Int("contours", len(contours)), zap.Int("ink", p.im.CountNonZero(bin)))
	return bin, nil
}
