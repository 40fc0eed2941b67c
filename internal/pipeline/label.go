package pipeline

import (
	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// LocateLabel находит светлую панель этикетки, выравнивает и вырезает её
func (p *Pipeline) LocateLabel(photo port.Image) (port.Image, error) {
	var s scope
	defer s.close()

	mask := s.keep(p.im.WhiteMask(photo, p.params.LabelMaxSaturation, p.params.LabelMinValue))
	mask = s.keep(p.closing(mask, p.params.LabelCloseRadius, p.params.LabelCloseRadius))
	mask = s.keep(p.opening(mask, p.params.LabelOpenRadius, p.params.LabelOpenRadius))

	panel, ok := p.largest(mask)
	if !ok {
		return nil, entity.ErrNoLabelFound
	}
	rr := p.im.MinAreaRect(panel)
	label, ok := p.deskew(photo, rr)
	if !ok {
		return nil, entity.ErrNoLabelFound
	}

	p.log.Debug("label located",
		zap.Float64("angle", rr.Angle),
		zap.Stringer("size", label.Size()),
	)
	return label, nil
}
