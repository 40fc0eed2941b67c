//go:build !gocv
// +build !gocv

package vision

import "care-label-reader/internal/domain/port"

// Available сообщает, собран ли бэкенд с OpenCV
const Available = false

// Imager заглушка без OpenCV
type Imager struct {
	port.Imager
}

// New всегда возвращает ErrUnavailable
func New() (*Imager, error) {
	return nil, ErrUnavailable
}
