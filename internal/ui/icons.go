package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

type iconState int

const (
	iconIdle iconState = iota
	iconBusy
	iconActive
	iconWarning
)

const iconSize = 32

var iconColors = map[iconState]color.RGBA{
	iconIdle:    {160, 160, 160, 255},
	iconBusy:    {240, 190, 30, 255},
	iconActive:  {30, 200, 90, 255},
	iconWarning: {220, 55, 55, 255},
}

var (
	iconOnce  sync.Once
	iconCache map[iconState][]byte
)

// getIcon returns the tray icon for state in the platform's preferred format.
func getIcon(state iconState) []byte {
	iconOnce.Do(func() {
		iconCache = make(map[iconState][]byte, len(iconColors))
		for s, c := range iconColors {
			iconCache[s] = encodeIcon(renderShield(c))
		}
	})
	return iconCache[state]
}

// renderShield draws a filled shield with a darker keyhole on a transparent
// background.
func renderShield(fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	dark := color.RGBA{fill.R / 3, fill.G / 3, fill.B / 3, 255}
	const cx = 15.5

	for y := 2; y < 30; y++ {
		fy := float64(y)
		var halfW float64
		switch {
		case fy < 4:
			halfW = 9 + 1.5*(fy-2)
		case fy < 16:
			halfW = 12
		default:
			halfW = 12 * (30 - fy) / 14
		}
		for x := 0; x < iconSize; x++ {
			dx := float64(x) - cx
			if dx < -halfW || dx > halfW {
				continue
			}
			img.SetRGBA(x, y, fill)
		}
	}

	// Keyhole: a round head over a narrow slot.
	for y := 9; y < 23; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := float64(x)-cx, float64(y)-13
			if dx*dx+dy*dy <= 9 || (y >= 13 && y < 22 && dx >= -1.5 && dx <= 1.5) {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}

func encodePNG(img *image.RGBA) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// encodeICO wraps img in a single-image 32bpp ICO: BGRA rows bottom-up
// followed by an empty AND mask.
func encodeICO(img *image.RGBA) []byte {
	size := img.Bounds().Dx()
	const dibHeaderSize = 40
	pixelDataSize := size * size * 4
	maskRowSize := ((size + 31) / 32) * 4
	maskSize := maskRowSize * size
	imageDataSize := dibHeaderSize + pixelDataSize + maskSize
	headerSize := 6 + 16

	buf := make([]byte, 0, headerSize+imageDataSize)

	buf = append(buf, 0, 0)
	buf = append(buf, 1, 0) // ICO type
	buf = append(buf, 1, 0) // 1 image

	buf = append(buf, byte(size), byte(size))
	buf = append(buf, 0, 0)  // No palette, reserved
	buf = append(buf, 1, 0)  // Planes
	buf = append(buf, 32, 0) // BPP
	buf = appendUint32(buf, uint32(imageDataSize))
	buf = appendUint32(buf, uint32(headerSize))

	buf = appendUint32(buf, dibHeaderSize)
	buf = appendUint32(buf, uint32(size))
	buf = appendUint32(buf, uint32(size*2))
	buf = append(buf, 1, 0)
	buf = append(buf, 32, 0)
	buf = appendUint32(buf, 0) // No compression
	buf = appendUint32(buf, uint32(pixelDataSize))
	buf = append(buf, make([]byte, 16)...)

	for y := size - 1; y >= 0; y-- {
		for x := 0; x < size; x++ {
			c := img.RGBAAt(x, y)
			buf = append(buf, c.B, c.G, c.R, c.A)
		}
	}

	return append(buf, make([]byte, maskSize)...)
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
