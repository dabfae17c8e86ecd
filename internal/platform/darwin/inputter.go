//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework Foundation

#include <CoreGraphics/CoreGraphics.h>

// Post a single mouse-down or mouse-up at screen coordinates (top-left origin).
// button: 0=left, 1=right, 2=middle (maps to kCGMouseButton*)
static int cg_mouse_event(double x, double y, int button, int down) {
    CGPoint point = CGPointMake(x, y);

    CGEventType type;
    CGMouseButton cgButton;

    switch (button) {
        case 1:  // right
            cgButton = kCGMouseButtonRight;
            type = down ? kCGEventRightMouseDown : kCGEventRightMouseUp;
            break;
        case 2:  // middle
            cgButton = kCGMouseButtonCenter;
            type = down ? kCGEventOtherMouseDown : kCGEventOtherMouseUp;
            break;
        default:  // left (0)
            cgButton = kCGMouseButtonLeft;
            type = down ? kCGEventLeftMouseDown : kCGEventLeftMouseUp;
            break;
    }

    CGEventRef ev = CGEventCreateMouseEvent(NULL, type, point, cgButton);
    if (!ev) return -1;
    CGEventSetIntegerValueField(ev, kCGMouseEventClickState, 1);
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}
*/
import "C"

import (
	"fmt"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

// Poster implements platform.EventPoster with CoreGraphics events posted at
// the HID tap.
type Poster struct{}

// NewPoster creates a new macOS event poster.
func NewPoster() *Poster {
	return &Poster{}
}

func (p *Poster) PostMouseEvent(pt model.Point, button platform.MouseButton, down bool) error {
	cButton := C.int(0)
	switch button {
	case platform.MouseRight:
		cButton = 1
	case platform.MouseMiddle:
		cButton = 2
	}
	cDown := C.int(0)
	if down {
		cDown = 1
	}
	if C.cg_mouse_event(C.double(pt.X), C.double(pt.Y), cButton, cDown) != 0 {
		phase := "up"
		if down {
			phase = "down"
		}
		return fmt.Errorf("failed to post %s mouse-%s at (%g, %g)", button, phase, pt.X, pt.Y)
	}
	return nil
}
