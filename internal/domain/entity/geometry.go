package entity

import (
	"image"
	"math"
)

// Contour внешний контур одной связной области бинарного изображения
type Contour struct {
	Points []image.Point   // точки границы
	Bounds image.Rectangle // ограничивающий прямоугольник
	Area   float64         // площадь области
	Seed   image.Point     // любой пиксель области
}

// Centroid центр масс точек границы
func (c Contour) Centroid() (float64, float64) {
	if len(c.Points) == 0 {
		return float64(c.Bounds.Min.X+c.Bounds.Max.X) / 2, float64(c.Bounds.Min.Y+c.Bounds.Max.Y) / 2
	}
	var sx, sy float64
	for _, p := range c.Points {
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	n := float64(len(c.Points))
	return sx / n, sy / n
}

// Largest возвращает индекс контура с наибольшей площадью; при равенстве
// побеждает найденный первым. -1 для пустого списка
func Largest(contours []Contour) int {
	best := -1
	for i, c := range contours {
		if best < 0 || c.Area > contours[best].Area {
			best = i
		}
	}
	return best
}

// Closest возвращает индекс контура, центр которого ближе всего к точке
func Closest(contours []Contour, x, y float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range contours {
		cx, cy := c.Centroid()
		d := math.Hypot(cx-x, cy-y)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// RotatedRect повёрнутый прямоугольник. Angle в градусах, положительный
// угол означает поворот по часовой стрелке на изображении
type RotatedRect struct {
	CenterX, CenterY float64
	Width, Height    float64
	Angle            float64
}

// Upright приводит угол к диапазону [-45, 45], меняя стороны местами
// на каждом шаге в 90 градусов
func (r RotatedRect) Upright() RotatedRect {
	for r.Angle > 45 {
		r.Angle -= 90
		r.Width, r.Height = r.Height, r.Width
	}
	for r.Angle < -45 {
		r.Angle += 90
		r.Width, r.Height = r.Height, r.Width
	}
	return r
}

// Crop прямоугольник размером w×h с центром в центре r после выравнивания
func (r RotatedRect) Crop() image.Rectangle {
	w := int(math.Round(r.Width))
	h := int(math.Round(r.Height))
	x := int(math.Round(r.CenterX - r.Width/2))
	y := int(math.Round(r.CenterY - r.Height/2))
	return image.Rect(x, y, x+w, y+h)
}
