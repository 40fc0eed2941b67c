// Package vision реализует примитивы обработки изображений поверх OpenCV (gocv).
// Собирается с тегом gocv; без него New возвращает ErrUnavailable.
package vision

import "errors"

// ErrUnavailable возвращается, если бинарник собран без OpenCV
var ErrUnavailable = errors.New("gocv build tag is not enabled")
