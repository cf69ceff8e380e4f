//go:build windows

package ui

import "image"

func encodeIcon(img *image.RGBA) []byte {
	return encodeICO(img)
}
