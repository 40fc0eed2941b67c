package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
	"care-label-reader/internal/infrastructure/raster"
)

// font 3×5, строки сверху вниз
var font = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'A': {"010", "101", "111", "101", "101"},
	'F': {"111", "100", "110", "100", "100"},
	'P': {"110", "101", "110", "100", "100"},
	'W': {"101", "101", "101", "111", "101"},
}

const fontScale = 3

func whiteGray(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

func fillRect(g *image.Gray, r image.Rectangle, v uint8) {
	r = r.Intersect(g.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

// outline рамка r толщиной t
func outline(g *image.Gray, r image.Rectangle, t int) {
	fillRect(g, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), 0)
	fillRect(g, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), 0)
	fillRect(g, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), 0)
	fillRect(g, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), 0)
}

// line толстая линия из квадратных отпечатков
func line(g *image.Gray, x0, y0, x1, y1, t int) {
	n := int(math.Max(math.Abs(float64(x1-x0)), math.Abs(float64(y1-y0)))) + 1
	for i := 0; i < n; i++ {
		f := float64(i) / float64(max(n-1, 1))
		x := int(math.Round(float64(x0) + f*float64(x1-x0)))
		y := int(math.Round(float64(y0) + f*float64(y1-y0)))
		fillRect(g, image.Rect(x-t/2, y-t/2, x-t/2+t, y-t/2+t), 0)
	}
}

func polygon(g *image.Gray, pts []image.Point, t int) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		line(g, a.X, a.Y, b.X, b.Y, t)
	}
}

func ring(g *image.Gray, cx, cy, r float64, t float64) {
	b := g.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if math.Abs(d-r) <= t/2 {
				g.SetGray(x, y, color.Gray{})
			}
		}
	}
}

// text рисует строку шрифтом font, возвращает ширину
func text(g *image.Gray, x, y int, s string) int {
	start := x
	for _, ch := range s {
		rows := font[ch]
		for ry, bits := range rows {
			for rx, bit := range bits {
				if bit == '1' {
					fillRect(g, image.Rect(
						x+rx*fontScale, y+ry*fontScale,
						x+(rx+1)*fontScale, y+(ry+1)*fontScale), 0)
				}
			}
		}
		x += 4 * fontScale
	}
	return x - start - fontScale
}

// baseShape рисует пиктограмму; forbidden добавляет косой крест
func baseShape(g *image.Gray, b entity.Base, off image.Point, forbidden bool) {
	var box image.Rectangle
	switch b {
	case entity.BaseWash:
		box = image.Rect(0, 0, 60, 40).Add(off)
		outline(g, box, 3)
	case entity.BaseBleach:
		box = image.Rect(0, 0, 60, 44).Add(off)
		polygon(g, []image.Point{
			off.Add(image.Pt(1, 42)), off.Add(image.Pt(58, 42)), off.Add(image.Pt(30, 1)),
		}, 3)
	case entity.BaseDry:
		box = image.Rect(0, 0, 50, 50).Add(off)
		outline(g, box, 3)
		ring(g, float64(off.X)+25, float64(off.Y)+25, 16, 3)
	case entity.BaseIron:
		box = image.Rect(0, 0, 62, 40).Add(off)
		polygon(g, []image.Point{
			off.Add(image.Pt(12, 1)), off.Add(image.Pt(48, 1)),
			off.Add(image.Pt(60, 38)), off.Add(image.Pt(1, 38)),
		}, 3)
	case entity.BasePro:
		box = image.Rect(0, 0, 50, 50).Add(off)
		ring(g, float64(off.X)+25, float64(off.Y)+25, 23, 3)
	}
	if forbidden {
		line(g, box.Min.X+1, box.Min.Y+1, box.Max.X-2, box.Max.Y-2, 3)
		line(g, box.Max.X-2, box.Min.Y+1, box.Min.X+1, box.Max.Y-2, 3)
	}
}

func innerShape(g *image.Gray, t entity.InnerTemplate, off image.Point) {
	if n := t.Dots(); n > 0 {
		for i := 0; i < n; i++ {
			fillRect(g, image.Rect(i*10, 0, i*10+6, 6).Add(off), 0)
		}
		return
	}
	text(g, off.X, off.Y, t.Name())
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// templateFS полный набор шаблонов тем же рисованием, что и символы
func templateFS(t *testing.T) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, b := range entity.Bases() {
		for _, forbidden := range []bool{false, true} {
			g := whiteGray(90, 80)
			baseShape(g, b, image.Pt(10, 10), forbidden)
			name := "base/" + b.Name()
			if forbidden {
				name += "_not"
			}
			fsys[name+".png"] = &fstest.MapFile{Data: encodePNG(t, g)}
		}
	}
	for _, it := range entity.InnerTemplates() {
		g := whiteGray(80, 40)
		innerShape(g, it, image.Pt(10, 10))
		fsys["inner/"+it.Name()+".png"] = &fstest.MapFile{Data: encodePNG(t, g)}
	}
	return fsys
}

func newTestReader(t *testing.T) (*Reader, port.Imager) {
	t.Helper()
	im := raster.New()
	lib, err := LoadTemplates(templateFS(t), im, DefaultParams())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return NewReader(im, lib, DefaultParams(), zap.NewNop()), im
}

func grayAt(t *testing.T, img port.Image, x, y int) uint8 {
	t.Helper()
	std, ok := img.(*raster.Image)
	require.True(t, ok)
	g, ok := std.Std().(*image.Gray)
	require.True(t, ok)
	return g.GrayAt(g.Rect.Min.X+x, g.Rect.Min.Y+y).Y
}
