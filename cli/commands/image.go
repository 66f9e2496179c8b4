package commands

import (
	"bytes"
	"errors"
	"github.com/qeesung/image2ascii/convert"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const maxPreviewBytes = 10 * 1024 * 1024

var errEmptyImage = errors.New("image has no pixels")

// downscale shrinks img to fit within width columns, keeping its aspect ratio.
// Terminal cells are roughly twice as tall as they are wide, so the height is
// halved.
func downscale(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= width {
		width = bounds.Dx()
	}

	height := bounds.Dy() * width / bounds.Dx() / 2
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// renderImage decodes png, jpeg, gif or webp data into colored ascii art
func renderImage(data []byte, width int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	} else if img.Bounds().Empty() {
		return "", errEmptyImage
	}

	scaled := downscale(img, width)

	converter := convert.NewImageConverter()
	options := convert.DefaultOptions
	options.Colored = true
	options.FitScreen = false
	options.FixedWidth = scaled.Bounds().Dx()
	options.FixedHeight = scaled.Bounds().Dy()

	return converter.Image2ASCIIString(scaled, &options), nil
}
