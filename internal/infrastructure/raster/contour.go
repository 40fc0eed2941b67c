package raster

import (
	"image"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// neighbours по часовой стрелке на изображении, начиная с востока
var neighbours = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

const west = 4

// Contours 8-связные компоненты в порядке растровой развёртки.
// Points обходит внешнюю границу, Area число пикселей компоненты
func (Imager) Contours(img port.Image) []entity.Contour {
	g := grayOf(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	label := make([]int32, w*h)
	var contours []entity.Contour

	stack := make([]int, 0, 64)
	for y := 0; y < h; y++ {
		src := row(g, y)
		for x := 0; x < w; x++ {
			if src[x] == 0 || label[y*w+x] != 0 {
				continue
			}
			id := int32(len(contours) + 1)
			bounds := image.Rect(x, y, x+1, y+1)
			area := 0

			label[y*w+x] = id
			stack = append(stack[:0], y*w+x)
			for len(stack) > 0 {
				i := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				px, py := i%w, i/w
				area++
				bounds = bounds.Union(image.Rect(px, py, px+1, py+1))
				for _, d := range neighbours {
					nx, ny := px+d.X, py+d.Y
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					j := ny*w + nx
					if label[j] == 0 && row(g, ny)[nx] != 0 {
						label[j] = id
						stack = append(stack, j)
					}
				}
			}

			seed := image.Pt(x, y)
			contours = append(contours, entity.Contour{
				Points: traceBoundary(label, w, h, seed, id),
				Bounds: bounds,
				Area:   float64(area),
				Seed:   seed,
			})
		}
	}
	return contours
}

// traceBoundary обход Мура от верхнего левого пикселя компоненты
func traceBoundary(label []int32, w, h int, start image.Point, id int32) []image.Point {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && label[p.Y*w+p.X] == id
	}

	points := []image.Point{start}
	cur, back := start, west
	limit := 4*w*h + 8
	for step := 0; step < limit; step++ {
		next, nextBack, ok := mooreStep(inside, cur, back)
		if !ok {
			break
		}
		if next == start && nextBack == west {
			break
		}
		points = append(points, next)
		cur, back = next, nextBack
	}
	if len(points) > 1 && points[len(points)-1] == start {
		points = points[:len(points)-1]
	}
	return points
}

// mooreStep ищет следующий пиксель границы по часовой стрелке от back
func mooreStep(inside func(image.Point) bool, cur image.Point, back int) (image.Point, int, bool) {
	prev := cur.Add(neighbours[back])
	for i := 1; i <= 8; i++ {
		d := (back + i) % 8
		p := cur.Add(neighbours[d])
		if inside(p) {
			return p, directionOf(prev.Sub(p)), true
		}
		prev = p
	}
	return cur, back, false
}

func directionOf(d image.Point) int {
	for i, n := range neighbours {
		if n == d {
			return i
		}
	}
	return west
}

// ContourMask залитая компонента, содержащая c.Seed в src
func (Imager) ContourMask(src port.Image, c entity.Contour) port.Image {
	g := grayOf(src)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := newGray(w, h)
	s := c.Seed
	if s.X < 0 || s.Y < 0 || s.X >= w || s.Y >= h || row(g, s.Y)[s.X] == 0 {
		return wrapGray(out)
	}

	row(out, s.Y)[s.X] = 255
	stack := []int{s.Y*w + s.X}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		px, py := i%w, i/w
		for _, d := range neighbours {
			nx, ny := px+d.X, py+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if dst := row(out, ny); dst[nx] == 0 && row(g, ny)[nx] != 0 {
				dst[nx] = 255
				stack = append(stack, ny*w+nx)
			}
		}
	}

	outside := floodBackground(out)
	for y := 0; y < h; y++ {
		dst := row(out, y)
		for x := 0; x < w; x++ {
			if !outside[y*w+x] {
				dst[x] = 255
			}
		}
	}
	return wrapGray(out)
}
