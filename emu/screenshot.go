package emu

import (
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"famicore/hw"
)

// FrameImage converts a frame to an image, scaled by an integer factor.
func FrameImage(f *Frame, scale int) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, hw.ScreenWidth, hw.ScreenHeight))
	for i, argb := range f.Pixels {
		off := i * 4
		src.Pix[off+0] = uint8(argb >> 16)
		src.Pix[off+1] = uint8(argb >> 8)
		src.Pix[off+2] = uint8(argb)
		src.Pix[off+3] = uint8(argb >> 24)
	}
	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, hw.ScreenWidth*scale, hw.ScreenHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveAsPNG writes the frame as a PNG file.
func SaveAsPNG(f *Frame, scale int, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, FrameImage(f, scale)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
