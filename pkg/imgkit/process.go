package imgkit

import (
	"bytes"
	"image"
	_ "image/jpeg" // register decoder
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// MaxSide bounds the declared width and height Avatar is willing to decode.
const MaxSide = 4096

// DecodeBounded reads the image header first and refuses images whose declared
// dimensions exceed maxSide on either axis, before any pixel buffer is allocated.
func DecodeBounded(data []byte, maxSide int) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(err, "decode image config")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", errors.New("image has no pixels")
	}
	if cfg.Width > maxSide || cfg.Height > maxSide {
		return nil, "", errors.Errorf("image too large: %dx%d exceeds %dx%d", cfg.Width, cfg.Height, maxSide, maxSide)
	}
	return Decode(bytes.NewReader(data))
}

// Decode reads a PNG or JPEG image.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "decode image")
	}
	return img, format, nil
}

// Cover scales src so it fills a size x size square and crops the overflow
// around the center.
func Cover(src image.Image, size int, scale draw.Scaler) image.Image {
	if scale == nil {
		scale = draw.CatmullRom
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	side := width
	if height < side {
		side = height
	}
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		bounds.Min.X+(width-side)/2,
		bounds.Min.Y+(height-side)/2,
	))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	scale.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}

// CircleMask keeps the inscribed circle of src and makes the corners transparent.
func CircleMask(src image.Image) image.Image {
	bounds := src.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	radius := float64(bounds.Dx()) / 2
	if h := float64(bounds.Dy()) / 2; h < radius {
		radius = h
	}
	dc.DrawCircle(float64(bounds.Dx())/2, float64(bounds.Dy())/2, radius)
	dc.Clip()
	dc.DrawImage(src, -bounds.Min.X, -bounds.Min.Y)
	return dc.Image()
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

// Avatar turns raw image bytes into a circular size x size PNG.
func Avatar(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}
	if size <= 0 {
		return nil, errors.Errorf("invalid avatar size %d", size)
	}

	img, _, err := DecodeBounded(data, MaxSide)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, errors.New("image has no pixels")
	}
	return EncodePNG(CircleMask(Cover(img, size, nil)))
}
