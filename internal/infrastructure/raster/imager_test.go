package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"care-label-reader/internal/domain/port"
)

func grayFilled(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func fillRect(g *image.Gray, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

func countIn(t *testing.T, im *Imager, img port.Image, r image.Rectangle) int {
	t.Helper()
	region, err := im.Region(img, r)
	require.NoError(t, err)
	defer region.Close()
	return im.CountNonZero(region)
}

func TestThreshold_OtsuSeparatesTwoLevels(t *testing.T) {
	im := New()
	g := grayFilled(20, 20, 200)
	fillRect(g, image.Rect(5, 5, 15, 15), 40)

	bin := im.Threshold(FromImage(g), 0, true, true)
	defer bin.Close()
	require.Equal(t, 100, im.CountNonZero(bin))
	require.Equal(t, 100, countIn(t, im, bin, image.Rect(5, 5, 15, 15)))
}

func TestThreshold_Fixed(t *testing.T) {
	im := New()
	g := grayFilled(10, 10, 100)
	fillRect(g, image.Rect(0, 0, 5, 10), 150)

	bin := im.Threshold(FromImage(g), 120, false, false)
	defer bin.Close()
	require.Equal(t, 50, im.CountNonZero(bin))
}

func TestThreshold_LevelIsExclusive(t *testing.T) {
	im := New()
	g := grayFilled(4, 4, 120)
	fillRect(g, image.Rect(0, 0, 4, 1), 121)

	bin := im.Threshold(FromImage(g), 120, false, false)
	defer bin.Close()
	require.Equal(t, 4, im.CountNonZero(bin))

	top := im.Threshold(FromImage(g), 255, false, true)
	defer top.Close()
	require.Equal(t, 16, im.CountNonZero(top))
}

func TestThreshold_OtsuOnRegion(t *testing.T) {
	im := New()
	g := grayFilled(40, 40, 200)
	fillRect(g, image.Rect(25, 25, 35, 35), 40)

	view, err := im.Region(FromImage(g), image.Rect(20, 20, 40, 40))
	require.NoError(t, err)
	defer view.Close()

	bin := im.Threshold(view, 0, true, true)
	defer bin.Close()
	require.Equal(t, image.Pt(20, 20), bin.Size())
	require.Equal(t, 100, im.CountNonZero(bin))
	require.Equal(t, 100, countIn(t, im, bin, image.Rect(5, 5, 15, 15)))
}

func TestDilateErode(t *testing.T) {
	im := New()
	g := grayFilled(21, 21, 0)
	g.SetGray(10, 10, color.Gray{Y: 255})

	d := im.Dilate(FromImage(g), 2, 1)
	defer d.Close()
	require.Equal(t, 15, im.CountNonZero(d))

	e := im.Erode(d, 2, 1)
	defer e.Close()
	require.Equal(t, 1, im.CountNonZero(e))
}

func TestErode_TreatsOutsideAsForeground(t *testing.T) {
	im := New()
	e := im.Erode(FromImage(grayFilled(8, 8, 255)), 3, 3)
	defer e.Close()
	require.Equal(t, 64, im.CountNonZero(e))
}

func TestFillHoles(t *testing.T) {
	im := New()
	g := grayFilled(30, 30, 0)
	fillRect(g, image.Rect(5, 5, 25, 25), 255)
	fillRect(g, image.Rect(8, 8, 22, 22), 0)

	filled := im.FillHoles(FromImage(g))
	defer filled.Close()
	require.Equal(t, 400, im.CountNonZero(filled))
}

func TestContours_OrderBoundsArea(t *testing.T) {
	im := New()
	g := grayFilled(60, 30, 0)
	fillRect(g, image.Rect(40, 5, 50, 25), 255)
	fillRect(g, image.Rect(5, 10, 15, 20), 255)

	contours := im.Contours(FromImage(g))
	require.Len(t, contours, 2)

	require.Equal(t, image.Rect(40, 5, 50, 25), contours[0].Bounds)
	require.Equal(t, 200.0, contours[0].Area)
	require.Equal(t, image.Pt(40, 5), contours[0].Seed)
	require.Len(t, contours[0].Points, 2*(10+20)-4)

	require.Equal(t, image.Rect(5, 10, 15, 20), contours[1].Bounds)
	require.Equal(t, 100.0, contours[1].Area)
}

func TestContours_SinglePixel(t *testing.T) {
	im := New()
	g := grayFilled(5, 5, 0)
	g.SetGray(2, 2, color.Gray{Y: 255})

	contours := im.Contours(FromImage(g))
	require.Len(t, contours, 1)
	require.Equal(t, []image.Point{{2, 2}}, contours[0].Points)
}

func TestContourMask_FillsRing(t *testing.T) {
	im := New()
	g := grayFilled(40, 40, 0)
	fillRect(g, image.Rect(5, 5, 25, 25), 255)
	fillRect(g, image.Rect(8, 8, 22, 22), 0)
	fillRect(g, image.Rect(30, 30, 35, 35), 255)
	src := FromImage(g)

	contours := im.Contours(src)
	require.Len(t, contours, 2)

	mask := im.ContourMask(src, contours[0])
	defer mask.Close()
	require.Equal(t, 400, im.CountNonZero(mask))
	require.Zero(t, countIn(t, im, mask, image.Rect(30, 30, 35, 35)))
}

func TestMinAreaRect_AxisAligned(t *testing.T) {
	im := New()
	g := grayFilled(80, 60, 0)
	fillRect(g, image.Rect(10, 20, 50, 40), 255)

	contours := im.Contours(FromImage(g))
	require.Len(t, contours, 1)

	rr := im.MinAreaRect(contours[0])
	require.InDelta(t, 0, rr.Angle, 1e-9)
	require.InDelta(t, 39, rr.Width, 1e-9)
	require.InDelta(t, 19, rr.Height, 1e-9)
	require.InDelta(t, 29.5, rr.CenterX, 1e-9)
	require.InDelta(t, 29.5, rr.CenterY, 1e-9)
}

func TestMinAreaRect_Tilted(t *testing.T) {
	im := New()
	g := grayFilled(200, 200, 0)
	// прямоугольник 100×40, повёрнутый на 10° по часовой стрелке
	theta := 10 * math.Pi / 180
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			dx, dy := float64(x)-100, float64(y)-100
			u := dx*math.Cos(theta) + dy*math.Sin(theta)
			v := -dx*math.Sin(theta) + dy*math.Cos(theta)
			if math.Abs(u) <= 50 && math.Abs(v) <= 20 {
				g.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	contours := im.Contours(FromImage(g))
	require.Len(t, contours, 1)

	rr := im.MinAreaRect(contours[0])
	require.InDelta(t, 10, rr.Angle, 1.5)
	require.InDelta(t, 100, rr.Width, 3)
	require.InDelta(t, 40, rr.Height, 3)
	require.InDelta(t, 100, rr.CenterX, 1.5)
	require.InDelta(t, 100, rr.CenterY, 1.5)
}

func TestRegion_AliasesAndValidates(t *testing.T) {
	im := New()
	img := FromImage(grayFilled(10, 10, 0))

	region, err := im.Region(img, image.Rect(2, 2, 6, 6))
	require.NoError(t, err)
	require.Equal(t, image.Pt(4, 4), region.Size())

	unwrap(region).gray.Pix[0] = 255
	require.Equal(t, 1, countIn(t, im, img, image.Rect(2, 2, 3, 3)))

	clone := im.Clone(region)
	unwrap(clone).gray.Pix[0] = 0
	require.Equal(t, 1, im.CountNonZero(img))

	_, err = im.Region(img, image.Rect(5, 5, 12, 8))
	require.Error(t, err)
	_, err = im.Region(img, image.Rect(3, 3, 3, 8))
	require.Error(t, err)
}

func TestRotate_CounterClockwise(t *testing.T) {
	im := New()
	g := grayFilled(101, 101, 0)
	fillRect(g, image.Rect(75, 45, 95, 56), 255)

	rotated := im.Rotate(FromImage(g), 50, 50, 90)
	defer rotated.Close()
	require.Equal(t, image.Pt(101, 101), rotated.Size())

	top := countIn(t, im, rotated, image.Rect(40, 0, 61, 30))
	right := countIn(t, im, rotated, image.Rect(70, 40, 101, 61))
	require.Greater(t, top, 150)
	require.Zero(t, right)
}

func TestResize_NearestKeepsBinary(t *testing.T) {
	im := New()
	g := grayFilled(10, 10, 0)
	fillRect(g, image.Rect(0, 0, 5, 10), 255)

	resized := im.Resize(FromImage(g), image.Pt(20, 5))
	defer resized.Close()
	require.Equal(t, image.Pt(20, 5), resized.Size())
	require.Equal(t, 50, im.CountNonZero(resized))
}

func TestWhiteMask(t *testing.T) {
	im := New()
	rgb := image.NewNRGBA(image.Rect(0, 0, 10, 1))
	for x := 0; x < 10; x++ {
		c := color.NRGBA{R: 250, G: 248, B: 245, A: 255}
		if x >= 5 {
			c = color.NRGBA{R: 200, G: 20, B: 30, A: 255}
		}
		rgb.SetNRGBA(x, 0, c)
	}

	mask := im.WhiteMask(FromImage(rgb), 60, 150)
	defer mask.Close()
	require.Equal(t, 5, im.CountNonZero(mask))
	require.Equal(t, 5, countIn(t, im, mask, image.Rect(0, 0, 5, 1)))
}

func TestChannel_BGROrder(t *testing.T) {
	im := New()
	rgb := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		rgb.SetNRGBA(i%2, i/2, color.NRGBA{R: 200, G: 100, B: 0, A: 255})
	}
	src := FromImage(rgb)

	red := im.Channel(src, port.ChannelRed)
	blue := im.Channel(src, port.ChannelBlue)
	require.Equal(t, uint8(200), unwrap(red).gray.Pix[0])
	require.Zero(t, im.CountNonZero(blue))
}

func TestNormalize(t *testing.T) {
	im := New()
	g := grayFilled(4, 1, 100)
	g.Pix[3] = 150

	n := im.Normalize(FromImage(g))
	require.Equal(t, []uint8{0, 0, 0, 255}, unwrap(n).gray.Pix)

	flat := im.Normalize(FromImage(grayFilled(3, 3, 77)))
	require.Zero(t, im.CountNonZero(flat))
}

func TestMedianBlur_RemovesSpeckle(t *testing.T) {
	im := New()
	for _, k := range []int{3, 9} {
		g := grayFilled(30, 30, 0)
		g.SetGray(10, 10, color.Gray{Y: 255})
		g.SetGray(20, 5, color.Gray{Y: 255})
		fillRect(g, image.Rect(15, 15, 28, 28), 255)

		out := im.MedianBlur(FromImage(g), k)
		require.Zero(t, countIn(t, im, out, image.Rect(0, 0, 14, 14)), "ksize %d", k)
		require.Equal(t, 1, countIn(t, im, out, image.Rect(21, 21, 22, 22)), "ksize %d", k)
	}
}

func TestAdaptiveThreshold_InverseMarksInk(t *testing.T) {
	im := New()
	g := grayFilled(60, 60, 220)
	fillRect(g, image.Rect(20, 20, 30, 30), 30)

	bin := im.AdaptiveThreshold(FromImage(g), 31, 5, true)
	defer bin.Close()
	require.Equal(t, 100, countIn(t, im, bin, image.Rect(20, 20, 30, 30)))
	require.Zero(t, countIn(t, im, bin, image.Rect(0, 0, 10, 10)))
}

func TestCanny_StepEdge(t *testing.T) {
	im := New()
	g := grayFilled(40, 20, 0)
	fillRect(g, image.Rect(20, 0, 40, 20), 255)

	edges := im.Canny(FromImage(g), 50, 150)
	defer edges.Close()
	require.Greater(t, countIn(t, im, edges, image.Rect(18, 2, 22, 18)), 10)
	require.Zero(t, countIn(t, im, edges, image.Rect(0, 0, 15, 20)))
	require.Zero(t, countIn(t, im, edges, image.Rect(25, 0, 40, 20)))
}

func TestBorderAndBitwise(t *testing.T) {
	im := New()
	a := FromImage(grayFilled(4, 4, 255))

	bordered := im.Border(a, 2)
	require.Equal(t, image.Pt(8, 8), bordered.Size())
	require.Equal(t, 16, im.CountNonZero(bordered))

	inv := im.Not(bordered)
	require.Equal(t, 48, im.CountNonZero(inv))
	require.Zero(t, im.CountNonZero(im.And(bordered, inv)))
	require.Equal(t, 64, im.CountNonZero(im.Or(bordered, inv)))
	require.Equal(t, 64, im.CountNonZero(im.Xor(bordered, inv)))
}

func TestEncodeDecode_PNG(t *testing.T) {
	im := New()
	g := grayFilled(12, 7, 0)
	fillRect(g, image.Rect(0, 0, 6, 7), 255)

	data, err := im.Encode(FromImage(g), ".png")
	require.NoError(t, err)

	decoded, err := im.Decode(data, true)
	require.NoError(t, err)
	require.Equal(t, image.Pt(12, 7), decoded.Size())
	require.Equal(t, 1, decoded.Channels())
	require.Equal(t, 42, im.CountNonZero(decoded))

	colored, err := im.Decode(data, false)
	require.NoError(t, err)
	require.Equal(t, 3, colored.Channels())

	_, err = im.Decode([]byte("not an image"), false)
	require.Error(t, err)
}
