package security

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// CompressImage downscales an image so its longest side is at most maxDimension
// and re-encodes it as JPEG at the given quality. Fails when the bytes cannot
// be decoded; callers may keep the original in that case.
func CompressImage(data []byte, maxDimension, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxDimension || height > maxDimension {
		ratio := float64(maxDimension) / float64(width)
		if height > width {
			ratio = float64(maxDimension) / float64(height)
		}
		newW := int(float64(width) * ratio)
		newH := int(float64(height) * ratio)

		dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
