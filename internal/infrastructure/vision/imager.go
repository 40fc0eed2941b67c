//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// Available сообщает, собран ли бэкенд с OpenCV
const Available = true

// Mat изображение OpenCV
type Mat struct {
	mat gocv.Mat
}

func (m *Mat) Size() image.Point {
	return image.Pt(m.mat.Cols(), m.mat.Rows())
}

func (m *Mat) Channels() int {
	return m.mat.Channels()
}

func (m *Mat) Close() error {
	if m.mat.Ptr() == nil {
		return nil
	}
	err := m.mat.Close()
	m.mat = gocv.Mat{}
	return err
}

// Imager примитивы на OpenCV
type Imager struct{}

// New создаёт бэкенд OpenCV
func New() (*Imager, error) {
	return &Imager{}, nil
}

func matOf(img port.Image) gocv.Mat {
	m, ok := img.(*Mat)
	if !ok {
		panic(fmt.Sprintf("vision: foreign image type %T", img))
	}
	return m.mat
}

func wrap(mat gocv.Mat) port.Image {
	return &Mat{mat: mat}
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte, flags gocv.IMReadFlag) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, flags)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func (Imager) Decode(data []byte, gray bool) (port.Image, error) {
	flags := gocv.IMReadColor
	if gray {
		flags = gocv.IMReadGrayScale
	}
	mat, err := decodeToMat(data, flags)
	if err != nil {
		mat.Close()
		return nil, err
	}
	return wrap(mat), nil
}

func (Imager) Encode(img port.Image, ext string) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.FileExt(ext), matOf(img))
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func (Imager) Clone(img port.Image) port.Image {
	return wrap(matOf(img).Clone())
}

func (Imager) Region(img port.Image, r image.Rectangle) (port.Image, error) {
	mat := matOf(img)
	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	if r.Empty() || !r.In(bounds) {
		return nil, fmt.Errorf("region %v outside image %v", r, bounds)
	}
	return wrap(mat.Region(r)), nil
}

func (Imager) Border(img port.Image, n int) port.Image {
	dst := gocv.NewMat()
	gocv.CopyMakeBorder(matOf(img), &dst, n, n, n, n, gocv.BorderConstant, color.RGBA{})
	return wrap(dst)
}

// gray копия в одном канале
func gray(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	if src.Channels() == 1 {
		src.CopyTo(&dst)
		return dst
	}
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}

func (Imager) Gray(img port.Image) port.Image {
	return wrap(gray(matOf(img)))
}

func (Imager) Channel(img port.Image, ch int) port.Image {
	src := matOf(img)
	if src.Channels() == 1 {
		return wrap(src.Clone())
	}
	channels := gocv.Split(src)
	var out gocv.Mat
	for i := range channels {
		if i == ch {
			out = channels[i]
			continue
		}
		channels[i].Close()
	}
	return wrap(out)
}

func (Imager) WhiteMask(img port.Image, maxSaturation, minValue uint8) port.Image {
	src := matOf(img)
	dst := gocv.NewMat()
	if src.Channels() == 1 {
		gocv.Threshold(src, &dst, float32(minValue)-1, 255, gocv.ThresholdBinary)
		return wrap(dst)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	lower := gocv.NewScalar(0, 0, float64(minValue), 0)
	upper := gocv.NewScalar(180, float64(maxSaturation), 255, 0)
	gocv.InRangeWithScalar(hsv, lower, upper, &dst)
	return wrap(dst)
}

func (Imager) Normalize(img port.Image) port.Image {
	src := gray(matOf(img))
	defer src.Close()
	dst := gocv.NewMat()
	gocv.Normalize(src, &dst, 0, 255, gocv.NormMinMax)
	return wrap(dst)
}

func (Imager) MedianBlur(img port.Image, ksize int) port.Image {
	src := gray(matOf(img))
	if ksize <= 1 {
		return wrap(src)
	}
	defer src.Close()
	if ksize%2 == 0 {
		ksize++
	}
	dst := gocv.NewMat()
	gocv.MedianBlur(src, &dst, ksize)
	return wrap(dst)
}

func (Imager) Threshold(img port.Image, level uint8, otsu, inverse bool) port.Image {
	src := gray(matOf(img))
	defer src.Close()

	typ := gocv.ThresholdBinary
	if inverse {
		typ = gocv.ThresholdBinaryInv
	}
	if otsu {
		typ |= gocv.ThresholdOtsu
	}
	dst := gocv.NewMat()
	gocv.Threshold(src, &dst, float32(level), 255, typ)
	return wrap(dst)
}

func (Imager) AdaptiveThreshold(img port.Image, block int, c float64, inverse bool) port.Image {
	src := gray(matOf(img))
	defer src.Close()

	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	typ := gocv.ThresholdBinary
	if inverse {
		typ = gocv.ThresholdBinaryInv
	}
	dst := gocv.NewMat()
	gocv.AdaptiveThreshold(src, &dst, 255, gocv.AdaptiveThresholdGaussian, typ, block, float32(c))
	return wrap(dst)
}

func (Imager) Canny(img port.Image, low, high float64) port.Image {
	src := gray(matOf(img))
	defer src.Close()
	dst := gocv.NewMat()
	gocv.Canny(src, &dst, float32(low), float32(high))
	return wrap(dst)
}

func kernel(rx, ry int) gocv.Mat {
	return gocv.GetStructuringElement(gocv.MorphRect, image.Pt(2*max(rx, 0)+1, 2*max(ry, 0)+1))
}

func (Imager) Dilate(img port.Image, rx, ry int) port.Image {
	k := kernel(rx, ry)
	defer k.Close()
	dst := gocv.NewMat()
	gocv.Dilate(matOf(img), &dst, k)
	return wrap(dst)
}

func (Imager) Erode(img port.Image, rx, ry int) port.Image {
	k := kernel(rx, ry)
	defer k.Close()
	dst := gocv.NewMat()
	gocv.Erode(matOf(img), &dst, k)
	return wrap(dst)
}

// FillHoles заливает все внешние контуры
func (Imager) FillHoles(img port.Image) port.Image {
	src := matOf(img)
	dst := src.Clone()

	contours := gocv.FindContours(src, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()
	if contours.Size() > 0 {
		gocv.DrawContours(&dst, contours, -1, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	}
	return wrap(dst)
}

func (Imager) Contours(img port.Image) []entity.Contour {
	contours := gocv.FindContours(matOf(img), gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()

	out := make([]entity.Contour, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		points := c.ToPoints()
		if len(points) == 0 {
			continue
		}
		out = append(out, entity.Contour{
			Points: points,
			Bounds: gocv.BoundingRect(c),
			Area:   gocv.ContourArea(c),
			Seed:   points[0],
		})
	}
	return out
}

func (Imager) ContourMask(src port.Image, c entity.Contour) port.Image {
	mat := matOf(src)
	dst := gocv.Zeros(mat.Rows(), mat.Cols(), gocv.MatTypeCV8U)
	if len(c.Points) == 0 {
		return wrap(dst)
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{c.Points})
	defer pv.Close()
	gocv.DrawContours(&dst, pv, -1, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	return wrap(dst)
}

func (Imager) MinAreaRect(c entity.Contour) entity.RotatedRect {
	if len(c.Points) == 0 {
		return entity.RotatedRect{}
	}
	pv := gocv.NewPointVectorFromPoints(c.Points)
	defer pv.Close()

	rr := gocv.MinAreaRect(pv)
	return entity.RotatedRect{
		CenterX: float64(rr.Center.X),
		CenterY: float64(rr.Center.Y),
		Width:   float64(rr.Width),
		Height:  float64(rr.Height),
		Angle:   rr.Angle,
	}.Upright()
}

func (Imager) Rotate(img port.Image, cx, cy, angle float64) port.Image {
	src := matOf(img)
	m := gocv.GetRotationMatrix2D(image.Pt(int(cx+0.5), int(cy+0.5)), angle, 1)
	defer m.Close()

	dst := gocv.NewMat()
	gocv.WarpAffine(src, &dst, m, image.Pt(src.Cols(), src.Rows()))
	return wrap(dst)
}

func (Imager) Resize(img port.Image, size image.Point) port.Image {
	dst := gocv.NewMat()
	gocv.Resize(matOf(img), &dst, size, 0, 0, gocv.InterpolationNearestNeighbor)
	return wrap(dst)
}

func (Imager) And(a, b port.Image) port.Image {
	dst := gocv.NewMat()
	gocv.BitwiseAnd(matOf(a), matOf(b), &dst)
	return wrap(dst)
}

func (Imager) Or(a, b port.Image) port.Image {
	dst := gocv.NewMat()
	gocv.BitwiseOr(matOf(a), matOf(b), &dst)
	return wrap(dst)
}

func (Imager) Xor(a, b port.Image) port.Image {
	dst := gocv.NewMat()
	gocv.BitwiseXor(matOf(a), matOf(b), &dst)
	return wrap(dst)
}

func (Imager) Not(img port.Image) port.Image {
	dst := gocv.NewMat()
	gocv.BitwiseNot(matOf(img), &dst)
	return wrap(dst)
}

func (Imager) CountNonZero(img port.Image) int {
	src := gray(matOf(img))
	defer src.Close()
	return gocv.CountNonZero(src)
}

var _ port.Imager = (*Imager)(nil)
