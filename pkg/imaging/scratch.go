package imaging

import (
	"fmt"
	"image"
	"sync"
)

// maxSurfaceSide bounds a single scratch surface side. Fit never produces
// more than MaxDimension, so anything above this is a caller defect.
const maxSurfaceSide = 1 << 14

var surfaces sync.Pool

// acquireSurface returns an RGBA surface of the given size backed by a pooled
// pixel buffer, along with the function that hands the buffer back.
// The release function must be called on every exit path.
func acquireSurface(w, h int) (*image.RGBA, func(), error) {
	if w <= 0 || h <= 0 || w > maxSurfaceSide || h > maxSurfaceSide {
		return nil, nil, fmt.Errorf("%w: invalid surface %dx%d", ErrEnvironment, w, h)
	}

	n := 4 * w * h

	var pix []uint8
	if p, ok := surfaces.Get().(*[]uint8); ok && cap(*p) >= n {
		pix = (*p)[:n]
	} else {
		var err error
		if pix, err = allocate(n); err != nil {
			return nil, nil, err
		}
	}

	surface := &image.RGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}

	release := func() {
		buf := surface.Pix[:0]
		surface.Pix = nil
		surfaces.Put(&buf)
	}

	return surface, release, nil
}

func allocate(n int) (pix []uint8, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: allocate %d bytes: %v", ErrEnvironment, n, r)
		}
	}()
	return make([]uint8, n), nil
}
