package raster

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"care-label-reader/internal/domain/entity"
)

// MinAreaRect прямоугольник минимальной площади вращающимися калиперами
// по выпуклой оболочке точек контура
func (Imager) MinAreaRect(c entity.Contour) entity.RotatedRect {
	hull := convexHull(c.Points)
	switch len(hull) {
	case 0:
		return entity.RotatedRect{}
	case 1:
		return entity.RotatedRect{CenterX: hull[0].X, CenterY: hull[0].Y}
	}

	best := entity.RotatedRect{}
	bestArea := math.Inf(1)
	for i := range hull {
		edge := r2.Sub(hull[(i+1)%len(hull)], hull[i])
		if r2.Norm(edge) == 0 {
			continue
		}
		u := r2.Unit(edge)
		v := r2.Vec{X: -u.Y, Y: u.X}

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			pu, pv := r2.Dot(p, u), r2.Dot(p, v)
			minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
			minV, maxV = math.Min(minV, pv), math.Max(maxV, pv)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			center := r2.Add(r2.Scale((minU+maxU)/2, u), r2.Scale((minV+maxV)/2, v))
			best = entity.RotatedRect{
				CenterX: center.X,
				CenterY: center.Y,
				Width:   maxU - minU,
				Height:  maxV - minV,
				Angle:   math.Atan2(u.Y, u.X) * 180 / math.Pi,
			}
		}
	}
	return best.Upright()
}

// convexHull монотонная цепочка Эндрю
func convexHull(points []image.Point) []r2.Vec {
	pts := make([]r2.Vec, len(points))
	for i, p := range points {
		pts[i] = r2.Vec{X: float64(p.X), Y: float64(p.Y)}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	pts = dedup(pts)
	if len(pts) < 3 {
		return pts
	}

	turn := func(o, a, b r2.Vec) float64 {
		return r2.Cross(r2.Sub(a, o), r2.Sub(b, o))
	}
	hull := make([]r2.Vec, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func dedup(pts []r2.Vec) []r2.Vec {
	out := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			out = append(out, p)
		}
	}
	return out
}
