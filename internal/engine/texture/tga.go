package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// tgaReader walks the pixel payload of a true-color TGA.
type tgaReader struct {
	img           *image.RGBA
	data          []byte
	bytesPerPixel int
	topToBottom   bool
}

// pixel reads one BGR(A) pixel at data[i:].
func (r *tgaReader) pixel(i int) color.RGBA {
	c := color.RGBA{R: r.data[i+2], G: r.data[i+1], B: r.data[i], A: 255}
	if r.bytesPerPixel == 4 {
		c.A = r.data[i+3]
	}
	return c
}

// set stores the n-th pixel in file order.
func (r *tgaReader) set(n int, c color.RGBA) {
	w, h := r.img.Rect.Dx(), r.img.Rect.Dy()
	x, y := n%w, n/w
	if !r.topToBottom {
		y = h - 1 - y
	}
	r.img.SetRGBA(x, y, c)
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: TGA header", ErrTruncated)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedFormat)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: TGA type %d", ErrUnsupportedFormat, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: TGA bit depth %d", ErrUnsupportedFormat, bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty TGA image", ErrUnsupportedFormat)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: TGA id field", ErrTruncated)
	}

	r := &tgaReader{
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		data:          data[offset:],
		bytesPerPixel: bpp / 8,
		// Bit 5 of the descriptor marks top-to-bottom row order.
		topToBottom: descriptor&0x20 != 0,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = r.decodeRaw()
	} else {
		err = r.decodeRLE()
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

func (r *tgaReader) decodeRaw() error {
	count := r.img.Rect.Dx() * r.img.Rect.Dy()
	if len(r.data) < count*r.bytesPerPixel {
		return fmt.Errorf("%w: TGA pixel data", ErrTruncated)
	}
	for n := 0; n < count; n++ {
		r.set(n, r.pixel(n*r.bytesPerPixel))
	}
	return nil
}

func (r *tgaReader) decodeRLE() error {
	count := r.img.Rect.Dx() * r.img.Rect.Dy()
	n, i := 0, 0

	for n < count {
		if i >= len(r.data) {
			return fmt.Errorf("%w: TGA RLE stream ends at pixel %d of %d", ErrTruncated, n, count)
		}
		packet := r.data[i]
		i++
		run := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated.
			if i+r.bytesPerPixel > len(r.data) {
				return fmt.Errorf("%w: TGA RLE packet", ErrTruncated)
			}
			c := r.pixel(i)
			i += r.bytesPerPixel
			for k := 0; k < run && n < count; k++ {
				r.set(n, c)
				n++
			}
			continue
		}

		// Raw packet: run literal pixels.
		for k := 0; k < run && n < count; k++ {
			if i+r.bytesPerPixel > len(r.data) {
				return fmt.Errorf("%w: TGA raw packet", ErrTruncated)
			}
			r.set(n, r.pixel(i))
			i += r.bytesPerPixel
			n++
		}
	}

	return nil
}
