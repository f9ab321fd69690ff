package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage 上传内容无法解码为 PNG/JPEG/WebP
var ErrUnsupportedImage = errors.New("unsupported image")

// DecodeImage 按内容嗅探格式解码，返回图像和格式名
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty body", ErrUnsupportedImage)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// FitPreview 把大图等比缩小到 maxW×maxH 以内，小图原样返回
func FitPreview(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if maxW <= 0 || maxH <= 0 || (b.Dx() <= maxW && b.Dy() <= maxH) {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Linear)
}
