package port

import (
	"image"

	"care-label-reader/internal/domain/entity"
)

// Номера цветовых каналов в порядке BGR.
const (
	ChannelBlue  = 0
	ChannelGreen = 1
	ChannelRed   = 2
)

// Image растровое изображение, которым владеет конкретный бэкенд.
// Region возвращает вид на часть родителя без копирования, Clone копию.
type Image interface {
	// Size ширина и высота в пикселях
	Size() image.Point
	// Channels 1 для серого, 3 для цветного
	Channels() int
	// Close освобождает ресурсы; повторный вызов безопасен
	Close() error
}

// Imager примитивы обработки изображений.
// Бинарные изображения хранят передний план как 255, фон как 0.
// Каждая операция возвращает новое изображение, которое закрывает вызывающий.
type Imager interface {
	// Decode читает PNG/JPEG; gray приводит к одному каналу
	Decode(data []byte, gray bool) (Image, error)
	// Encode кодирует в формат по расширению (".png", ".jpg")
	Encode(img Image, ext string) ([]byte, error)

	Clone(img Image) Image
	// Region вид на прямоугольник r, лежащий внутри img
	Region(img Image, r image.Rectangle) (Image, error)
	// Border добавляет чёрную рамку толщиной n
	Border(img Image, n int) Image

	Gray(img Image) Image
	Channel(img Image, ch int) Image
	// WhiteMask маска светлых малонасыщенных пикселей
	WhiteMask(img Image, maxSaturation, minValue uint8) Image
	// Normalize растягивает яркость на диапазон 0..255
	Normalize(img Image) Image
	MedianBlur(img Image, ksize int) Image

	// Threshold фиксированный порог level или порог Оцу при otsu
	Threshold(img Image, level uint8, otsu, inverse bool) Image
	// AdaptiveThreshold гауссовский локальный порог
	AdaptiveThreshold(img Image, block int, c float64, inverse bool) Image
	Canny(img Image, low, high float64) Image

	// Dilate и Erode прямоугольным ядром (2rx+1)×(2ry+1)
	Dilate(img Image, rx, ry int) Image
	Erode(img Image, rx, ry int) Image
	FillHoles(img Image) Image

	// Contours внешние контуры в порядке обнаружения
	Contours(img Image) []entity.Contour
	// ContourMask залитая маска контура c размером src
	ContourMask(src Image, c entity.Contour) Image
	MinAreaRect(c entity.Contour) entity.RotatedRect

	// Rotate поворачивает вокруг центра против часовой стрелки на angle градусов
	Rotate(img Image, cx, cy, angle float64) Image
	Resize(img Image, size image.Point) Image

	And(a, b Image) Image
	Or(a, b Image) Image
	Xor(a, b Image) Image
	Not(img Image) Image
	CountNonZero(img Image) int
}
