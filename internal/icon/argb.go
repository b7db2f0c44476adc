package icon

import "fmt"

// RGBAToARGB converts pixels from RGBA channel order (e.g. [image.RGBA.Pix])
// into ARGB channel order of the StatusNotifierItem pixmap.
//
// It panics if length of rgba is not a multiple of 4.
func RGBAToARGB(rgba []byte) []byte {
	checkAligned(rgba)

	argb := make([]byte, len(rgba))

	for i := 0; i < len(rgba); i += 4 {
		argb[i] = rgba[i+3]
		argb[i+1] = rgba[i]
		argb[i+2] = rgba[i+1]
		argb[i+3] = rgba[i+2]
	}

	return argb
}

// ARGBToRGBA is the inverse of [RGBAToARGB].
func ARGBToRGBA(argb []byte) []byte {
	checkAligned(argb)

	rgba := make([]byte, len(argb))

	for i := 0; i < len(argb); i += 4 {
		rgba[i] = argb[i+1]
		rgba[i+1] = argb[i+2]
		rgba[i+2] = argb[i+3]
		rgba[i+3] = argb[i]
	}

	return rgba
}

func checkAligned(pixels []byte) {
	if len(pixels)%4 != 0 {
		panic(fmt.Sprintf("icon: pixel buffer of %d bytes is not aligned to 4", len(pixels)))
	}
}
