package pipeline

import (
	"math"

	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// BaseMatch лучший базовый шаблон
type BaseMatch struct {
	Category entity.Base
	Allowed  bool
	Score    float64
}

// InnerMatch лучший внутренний шаблон
type InnerMatch struct {
	Template entity.InnerTemplate
	Score    float64
}

// Matcher сравнивает очищенные символы с библиотекой шаблонов
type Matcher struct {
	*Pipeline
	lib *Library
}

// NewMatcher создаёт сравнение поверх загруженной библиотеки
func NewMatcher(p *Pipeline, lib *Library) *Matcher {
	return &Matcher{Pipeline: p, lib: lib}
}

// Score сходство g с шаблоном t: совпавшие пиксели минус расхождения дальше
// tol от совпадений, в долях от числа пикселей шаблона
func (m *Matcher) Score(t, g port.Image, tol int) float64 {
	var s scope
	defer s.close()

	total := m.im.CountNonZero(t)
	if total == 0 {
		return math.Inf(-1)
	}
	resized := s.keep(m.im.Resize(g, t.Size()))

	both := s.keep(m.im.And(t, resized))
	diff := s.keep(m.im.Xor(t, resized))
	agree := m.im.CountNonZero(both)
	if tol > 0 {
		diff = s.keep(m.im.Dilate(diff, tol, tol))
		both = s.keep(m.im.Dilate(both, tol, tol))
	}
	far := s.keep(m.im.And(diff, s.keep(m.im.Not(both))))

	disagree := m.im.CountNonZero(far)
	return float64(agree-disagree) / float64(total)
}

// MatchBase перебирает категории, для каждой разрешающий и запрещающий
// шаблон; при равенстве побеждает просмотренный позже
func (m *Matcher) MatchBase(stroke port.Image) BaseMatch {
	best := BaseMatch{Score: math.Inf(-1)}
	for _, b := range entity.Bases() {
		candidates := [2]struct {
			t       Template
			allowed bool
		}{{m.lib.Allowed[b], true}, {m.lib.Forbidden[b], false}}

		for _, c := range candidates {
			score := m.Score(c.t.Image, stroke, m.params.BaseTolerance)
			if score >= best.Score {
				best = BaseMatch{Category: b, Allowed: c.allowed, Score: score}
			}
		}
	}
	return best
}

// MatchInner лучший из внутренних шаблонов
func (m *Matcher) MatchInner(markings port.Image) InnerMatch {
	best := InnerMatch{Score: math.Inf(-1)}
	for _, it := range entity.InnerTemplates() {
		score := m.Score(m.lib.Inner[it].Image, markings, m.params.InnerTolerance)
		if score >= best.Score {
			best = InnerMatch{Template: it, Score: score}
		}
	}
	return best
}

// CountOuter число внешних линий
func (m *Matcher) CountOuter(outer port.Image) entity.Outer {
	opened := m.opening(outer, m.params.OuterOpenRadius, m.params.OuterOpenRadius)
	defer opened.Close()

	n := len(m.im.Contours(opened))
	return entity.Outer(min(n, entity.MaxOuterField))
}

// Classify распознаёт бинарный символ и продвигает sym по состояниям
// до кодирования
func (m *Matcher) Classify(glyph port.Image, sym *entity.Symbol) (entity.Code, error) {
	parts, err := m.splitGlyph(glyph)
	if err != nil {
		return 0, err
	}
	defer parts.Close()

	base := m.MatchBase(parts.base)
	if err := sym.Advance(entity.SymbolBaseMatched); err != nil {
		return 0, err
	}
	fields := entity.Fields{Base: base.Category, Allowed: base.Allowed}
	log := m.log.With(zap.Int("symbol", sym.Index))
	log.Debug("base matched",
		zap.Stringer("category", base.Category),
		zap.Bool("allowed", base.Allowed),
		zap.Float64("score", base.Score),
	)

	if base.Allowed && parts.markings != nil {
		inner := m.MatchInner(parts.markings)
		fields.Inner = entity.RemapInner(base.Category, inner.Template)
		log.Debug("inner matched", zap.Stringer("template", inner.Template), zap.Float64("score", inner.Score))
		err = sym.Advance(entity.SymbolInnerMatched)
	} else {
		err = sym.Advance(entity.SymbolInnerSkipped)
	}
	if err != nil {
		return 0, err
	}

	if base.Allowed {
		fields.Outer = m.CountOuter(parts.outer)
		log.Debug("outer counted", zap.Uint8("lines", uint8(fields.Outer)))
		err = sym.Advance(entity.SymbolOuterMatched)
	} else {
		err = sym.Advance(entity.SymbolOuterSkipped)
	}
	if err != nil {
		return 0, err
	}

	code, err := entity.Encode(fields)
	if err != nil {
		return 0, err
	}
	if err := sym.Encode(code); err != nil {
		return 0, err
	}
	return code, nil
}
