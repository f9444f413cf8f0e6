package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// bgr returns c in TGA byte order without alpha.
func bgr(c color.RGBA) []byte { return []byte{c.B, c.G, c.R} }

func tga(imageType, bpp, descriptor byte, w, h int, body ...[]byte) []byte {
	data := make([]byte, tgaHeaderSize)
	data[2] = imageType
	data[12], data[13] = byte(w), byte(w>>8)
	data[14], data[15] = byte(h), byte(h>>8)
	data[16] = bpp
	data[17] = descriptor
	for _, b := range body {
		data = append(data, b...)
	}
	return data
}

func TestDecodeTGABottomUp(t *testing.T) {
	data := tga(tgaTrueColor, 24, 0, 2, 2, bgr(red), bgr(green), bgr(blue), bgr(white))
	img, err := DecodeTGA(data)
	require.NoError(t, err)

	// File rows start at the bottom unless the descriptor says otherwise.
	assert.Equal(t, red, img.RGBAAt(0, 1))
	assert.Equal(t, green, img.RGBAAt(1, 1))
	assert.Equal(t, blue, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(1, 0))
}

func TestDecodeTGAVariants(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want map[image.Point]color.RGBA
	}{
		{
			name: "32 bit with alpha",
			data: tga(tgaTrueColor, 32, 0x20, 1, 1, []byte{10, 20, 30, 40}),
			want: map[image.Point]color.RGBA{{0, 0}: {R: 30, G: 20, B: 10, A: 40}},
		},
		{
			name: "grayscale",
			data: tga(tgaGray, 8, 0x20, 1, 1, []byte{0x80}),
			want: map[image.Point]color.RGBA{{0, 0}: {R: 0x80, G: 0x80, B: 0x80, A: 255}},
		},
		{
			name: "right to left",
			data: tga(tgaTrueColor, 24, 0x30, 2, 1, bgr(red), bgr(green)),
			want: map[image.Point]color.RGBA{{0, 0}: green, {1, 0}: red},
		},
		{
			name: "RLE repeat then raw",
			data: tga(tgaTrueColorRLE, 24, 0x20, 3, 1, []byte{0x81}, bgr(red), []byte{0x00}, bgr(blue)),
			want: map[image.Point]color.RGBA{{0, 0}: red, {1, 0}: red, {2, 0}: blue},
		},
		{
			name: "RLE grayscale run clipped at image end",
			data: tga(tgaGrayRLE, 8, 0x20, 2, 1, []byte{0x85, 7}),
			want: map[image.Point]color.RGBA{{0, 0}: {R: 7, G: 7, B: 7, A: 255}, {1, 0}: {R: 7, G: 7, B: 7, A: 255}},
		},
		{
			name: "id field skipped",
			data: func() []byte {
				d := tga(tgaTrueColor, 24, 0x20, 1, 1, []byte("id!"), bgr(green))
				d[0] = 3
				return d
			}(),
			want: map[image.Point]color.RGBA{{0, 0}: green},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeTGA(tt.data)
			require.NoError(t, err)
			for p, c := range tt.want {
				assert.Equal(t, c, img.RGBAAt(p.X, p.Y), "pixel %v", p)
			}
		})
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	colorMapped := tga(tgaTrueColor, 24, 0, 1, 1, bgr(red))
	colorMapped[1] = 1

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", make([]byte, 10)},
		{"color mapped", colorMapped},
		{"unknown type", tga(1, 8, 0, 1, 1, []byte{0})},
		{"16 bit", tga(tgaTrueColor, 16, 0, 1, 1, []byte{0, 0})},
		{"24 bit gray", tga(tgaGray, 24, 0, 1, 1, bgr(red))},
		{"empty", tga(tgaTrueColor, 24, 0, 0, 4)},
		{"pixels truncated", tga(tgaTrueColor, 24, 0, 2, 2, bgr(red))},
		{"RLE packet without pixel", tga(tgaTrueColorRLE, 24, 0, 2, 1, []byte{0x81})},
		{"RLE raw run truncated", tga(tgaTrueColorRLE, 24, 0, 2, 1, []byte{0x01}, bgr(red))},
		{"RLE stops early", tga(tgaTrueColorRLE, 24, 0, 3, 1, []byte{0x80}, bgr(red))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeTGA(tt.data)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, ErrTGA)
		})
	}
}

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 0, blue)
	return img
}

func TestDecodeByExtension(t *testing.T) {
	var pngData, bmpData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, sample()))
	require.NoError(t, bmp.Encode(&bmpData, sample()))

	for ext, data := range map[string][]byte{
		".PNG": pngData.Bytes(),
		".bmp": bmpData.Bytes(),
		".tga": tga(tgaTrueColor, 24, 0x20, 2, 1, bgr(red), bgr(blue)),
	} {
		t.Run(ext, func(t *testing.T) {
			img, err := Decode(data, ext)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())
			assert.Equal(t, red, img.RGBAAt(0, 0))
			assert.Equal(t, blue, img.RGBAAt(1, 0))
		})
	}

	_, err := Decode(pngData.Bytes(), ".gif")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = Decode([]byte("not a png"), ".png")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wood.tga")
	require.NoError(t, os.WriteFile(path, tga(tgaTrueColor, 24, 0x20, 1, 1, bgr(green)), 0644))

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, green, img.RGBAAt(0, 0))

	_, err = Load(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.tga")
	require.NoError(t, os.WriteFile(bad, []byte{1, 2, 3}, 0644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrTGA)
	assert.Contains(t, err.Error(), "bad.tga")
}

func TestToRGBA(t *testing.T) {
	src := sample()
	assert.Same(t, src, ToRGBA(src))

	// A sub-image is rebased to the origin.
	sub := src.SubImage(image.Rect(1, 0, 2, 1))
	got := ToRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 1, 1), got.Bounds())
	assert.Equal(t, blue, got.RGBAAt(0, 0))

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.Pix[0] = 9
	assert.Equal(t, color.RGBA{R: 9, G: 9, B: 9, A: 255}, ToRGBA(gray).RGBAAt(0, 0))
}

func TestBottomUp(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, red)
	img.SetRGBA(0, 1, blue)

	pix := bottomUp(img)
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, pix)
}

func TestCache(t *testing.T) {
	loads := map[string]int{}
	var deleted []uint32
	next := uint32(0)

	c := NewCache()
	c.load = func(path string) (*image.RGBA, error) {
		loads[path]++
		if path == "broken.png" {
			return nil, errors.New("corrupt")
		}
		return sample(), nil
	}
	c.upload = func(*image.RGBA) uint32 {
		next++
		return next
	}
	c.del = func(ids ...uint32) { deleted = append(deleted, ids...) }

	assert.Equal(t, uint32(0), c.Get(""))
	assert.Equal(t, uint32(1), c.Get("a.png"))
	assert.Equal(t, uint32(2), c.Get("b.png"))
	assert.Equal(t, uint32(1), c.Get("a.png"))
	assert.Equal(t, uint32(0), c.Get("broken.png"))
	assert.Equal(t, uint32(0), c.Get("broken.png"))

	assert.Equal(t, map[string]int{"a.png": 1, "b.png": 1, "broken.png": 1}, loads)
	assert.Equal(t, 2, c.Len())

	c.Close()
	assert.ElementsMatch(t, []uint32{1, 2}, deleted)
	assert.Equal(t, 0, c.Len())
}
