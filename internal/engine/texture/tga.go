package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types the decoder accepts.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaTrueColorRLE = 10
	tgaGrayRLE      = 11
)

const tgaHeaderSize = 18

// ErrTGA wraps every TGA decoding failure.
var ErrTGA = errors.New("tga")

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
	rightToLeft bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("%w: header truncated (%d bytes)", ErrTGA, len(data))
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		rightToLeft: data[17]&0x10 != 0,
		topToBottom: data[17]&0x20 != 0,
	}
	if data[1] != 0 {
		return h, fmt.Errorf("%w: color-mapped images not supported", ErrTGA)
	}

	switch h.imageType {
	case tgaTrueColor, tgaTrueColorRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return h, fmt.Errorf("%w: unsupported true-color depth %d", ErrTGA, h.bpp)
		}
	case tgaGray, tgaGrayRLE:
		if h.bpp != 8 {
			return h, fmt.Errorf("%w: unsupported grayscale depth %d", ErrTGA, h.bpp)
		}
	default:
		return h, fmt.Errorf("%w: unsupported image type %d", ErrTGA, h.imageType)
	}
	if h.width == 0 || h.height == 0 {
		return h, fmt.Errorf("%w: empty image %dx%d", ErrTGA, h.width, h.height)
	}
	return h, nil
}

// DecodeTGA decodes uncompressed and RLE true-color (24/32 bit) and
// grayscale (8 bit) TGA images into a top-down RGBA image.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: id field truncated", ErrTGA)
	}
	src := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	bytesPerPixel := h.bpp / 8
	pixel := func(p []byte) color.RGBA {
		if bytesPerPixel == 1 {
			return color.RGBA{R: p[0], G: p[0], B: p[0], A: 255}
		}
		c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
		if bytesPerPixel == 4 {
			c.A = p[3]
		}
		return c
	}
	// put stores the i-th pixel in file order, honoring the origin bits.
	put := func(i int, c color.RGBA) {
		x, y := i%h.width, i/h.width
		if h.rightToLeft {
			x = h.width - 1 - x
		}
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}

	count := h.width * h.height
	if h.imageType == tgaTrueColor || h.imageType == tgaGray {
		if len(src) < count*bytesPerPixel {
			return nil, fmt.Errorf("%w: pixel data truncated", ErrTGA)
		}
		for i := 0; i < count; i++ {
			put(i, pixel(src[i*bytesPerPixel:]))
		}
		return img, nil
	}

	// RLE: each packet header holds a repeat flag and a run length of 1..128.
	i, pos := 0, 0
	for i < count {
		if pos >= len(src) {
			return nil, fmt.Errorf("%w: RLE data truncated at pixel %d of %d", ErrTGA, i, count)
		}
		packet := src[pos]
		pos++
		run := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if pos+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("%w: RLE data truncated at pixel %d of %d", ErrTGA, i, count)
			}
			c := pixel(src[pos:])
			pos += bytesPerPixel
			for ; run > 0 && i < count; run-- {
				put(i, c)
				i++
			}
			continue
		}

		if pos+run*bytesPerPixel > len(src) {
			return nil, fmt.Errorf("%w: RLE data truncated at pixel %d of %d", ErrTGA, i, count)
		}
		for ; run > 0 && i < count; run-- {
			put(i, pixel(src[pos:]))
			pos += bytesPerPixel
			i++
		}
	}
	return img, nil
}
