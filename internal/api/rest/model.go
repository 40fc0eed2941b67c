package rest

import "care-label-reader/internal/domain/entity"

// Symbol один распознанный символ
type Symbol struct {
	Index       int    `json:"index"`
	Code        string `json:"code"`
	Value       uint16 `json:"value"`
	Description string `json:"description"`
}

// ReadingData результат распознавания снимка
type ReadingData struct {
	MD5      string   `json:"md5"`
	Expected int      `json:"expected,omitempty"`
	Symbols  []Symbol `json:"symbols"`
}

// ReadResponse ответ на распознавание
type ReadResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *ReadingData `json:"data,omitempty"`
}

// ErrorResponse ответ с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newReadingData(r *entity.Reading) *ReadingData {
	symbols := make([]Symbol, len(r.Codes))
	for i, c := range r.Codes {
		symbols[i] = Symbol{
			Index:       i,
			Code:        c.String(),
			Value:       uint16(c),
			Description: c.Describe(),
		}
	}
	return &ReadingData{MD5: r.Hash, Expected: r.Expected, Symbols: symbols}
}
