//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c -Wno-deprecated-declarations
#cgo LDFLAGS: -framework CoreGraphics -framework Foundation
#include <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>

// Capture a top-left origin screen rectangle and draw it into a caller-owned
// RGBA buffer of w*h*4 bytes. The buffer is premultiplied RGBA, matching
// image.RGBA.
static int cg_capture_rect(double x, double y, double rw, double rh, unsigned char *buf, int w, int h) {
    CGRect rect = CGRectMake(x, y, rw, rh);
    CGImageRef img = CGWindowListCreateImage(rect, kCGWindowListOptionOnScreenOnly,
                                             kCGNullWindowID, kCGWindowImageDefault);
    if (!img) return -1;
    if (CGImageGetWidth(img) == 0 || CGImageGetHeight(img) == 0) {
        CGImageRelease(img);
        return -1;
    }

    CGColorSpaceRef cs = CGColorSpaceCreateDeviceRGB();
    CGContextRef ctx = CGBitmapContextCreate(buf, w, h, 8, w * 4, cs,
                                             kCGImageAlphaPremultipliedLast | kCGBitmapByteOrder32Big);
    CGColorSpaceRelease(cs);
    if (!ctx) {
        CGImageRelease(img);
        return -2;
    }
    CGContextSetInterpolationQuality(ctx, kCGInterpolationHigh);
    CGContextDrawImage(ctx, CGRectMake(0, 0, w, h), img);
    CGContextRelease(ctx);
    CGImageRelease(img);
    return 0;
}
*/
import "C"

import (
	"fmt"
	"image"
	"math"
	"unsafe"

	"github.com/mj1618/menubar-shelf/internal/model"
)

// Capturer implements platform.ScreenCapturer with CGWindowListCreateImage.
// Retina captures are downsampled so the bitmap size equals the rectangle
// size in points.
type Capturer struct{}

// NewCapturer creates a new macOS screen capturer.
func NewCapturer() *Capturer {
	return &Capturer{}
}

func (c *Capturer) CaptureRect(r model.Rect) (*image.RGBA, error) {
	w := int(math.Round(r.Width))
	h := int(math.Round(r.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("cannot capture empty rect %s", r)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rc := C.cg_capture_rect(C.double(r.X), C.double(r.Y), C.double(r.Width), C.double(r.Height),
		(*C.uchar)(unsafe.Pointer(&img.Pix[0])), C.int(w), C.int(h))
	switch rc {
	case 0:
		return img, nil
	case -1:
		return nil, fmt.Errorf("failed to capture %s: screen recording permission may be missing", r)
	default:
		return nil, fmt.Errorf("failed to create bitmap context for %dx%d capture", w, h)
	}
}
