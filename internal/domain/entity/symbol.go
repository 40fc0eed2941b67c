package entity

import (
	"fmt"
	"image"
)

// SymbolState состояние обработки одного символа
type SymbolState string

const (
	SymbolIsolated     SymbolState = "isolated"
	SymbolCleaned      SymbolState = "cleaned"
	SymbolBaseMatched  SymbolState = "base_matched"
	SymbolInnerMatched SymbolState = "inner_matched"
	SymbolInnerSkipped SymbolState = "inner_skipped"
	SymbolOuterMatched SymbolState = "outer_matched"
	SymbolOuterSkipped SymbolState = "outer_skipped"
	SymbolEncoded      SymbolState = "encoded"
	SymbolFailed       SymbolState = "failed"
)

var symbolTransitions = map[SymbolState][]SymbolState{
	SymbolIsolated:     {SymbolCleaned},
	SymbolCleaned:      {SymbolBaseMatched},
	SymbolBaseMatched:  {SymbolInnerMatched, SymbolInnerSkipped},
	SymbolInnerMatched: {SymbolOuterMatched, SymbolOuterSkipped},
	SymbolInnerSkipped: {SymbolOuterMatched, SymbolOuterSkipped},
	SymbolOuterMatched: {SymbolEncoded},
	SymbolOuterSkipped: {SymbolEncoded},
}

// Terminal сообщает, завершена ли обработка символа
func (s SymbolState) Terminal() bool {
	return s == SymbolEncoded || s == SymbolFailed
}

// CanTransition проверяет допустимость перехода
func (s SymbolState) CanTransition(next SymbolState) bool {
	if next == SymbolFailed {
		return !s.Terminal()
	}
	for _, allowed := range symbolTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Symbol один выделенный символ и его код
type Symbol struct {
	Index  int             // позиция слева направо
	Bounds image.Rectangle // область в выровненной полосе
	State  SymbolState
	Code   Code
	Err    error // причина перехода в SymbolFailed
}

// NewSymbol создаёт символ в начальном состоянии
func NewSymbol(index int, bounds image.Rectangle) *Symbol {
	return &Symbol{Index: index, Bounds: bounds, State: SymbolIsolated}
}

// Advance переводит символ в следующее состояние
func (s *Symbol) Advance(next SymbolState) error {
	if !s.State.CanTransition(next) {
		return fmt.Errorf("symbol %d: invalid transition %s -> %s", s.Index, s.State, next)
	}
	s.State = next
	return nil
}

// Fail переводит символ в SymbolFailed с причиной
func (s *Symbol) Fail(err error) {
	if s.State.Terminal() {
		return
	}
	s.State = SymbolFailed
	s.Err = err
}

// Encode сохраняет итоговый код и завершает обработку
func (s *Symbol) Encode(c Code) error {
	if err := s.Advance(SymbolEncoded); err != nil {
		return err
	}
	s.Code = c
	return nil
}
