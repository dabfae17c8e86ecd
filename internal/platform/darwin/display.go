//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

typedef struct {
    double fx, fy, fw, fh;
    double vx, vy, vw, vh;
    double top_inset;
} ScreenInfo;

static int ns_main_screen(ScreenInfo *out) {
    @autoreleasepool {
        NSScreen *screen = [NSScreen mainScreen];
        if (!screen) return -1;
        NSRect f = [screen frame];
        NSRect v = [screen visibleFrame];
        out->fx = f.origin.x; out->fy = f.origin.y;
        out->fw = f.size.width; out->fh = f.size.height;
        out->vx = v.origin.x; out->vy = v.origin.y;
        out->vw = v.size.width; out->vh = v.size.height;
        out->top_inset = 0;
        if (@available(macOS 12.0, *)) {
            out->top_inset = [screen safeAreaInsets].top;
        }
    }
    return 0;
}
*/
import "C"

import (
	"errors"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

var errNoScreen = errors.New("no main screen")

// Display implements platform.Display with NSScreen.
type Display struct{}

// NewDisplay creates a new macOS display reader.
func NewDisplay() *Display {
	return &Display{}
}

func (d *Display) MainScreen() (platform.Screen, error) {
	var info C.ScreenInfo
	if C.ns_main_screen(&info) != 0 {
		return platform.Screen{}, errNoScreen
	}
	return platform.Screen{
		Frame: model.Rect{
			X: float64(info.fx), Y: float64(info.fy),
			Width: float64(info.fw), Height: float64(info.fh),
		},
		Visible: model.Rect{
			X: float64(info.vx), Y: float64(info.vy),
			Width: float64(info.vw), Height: float64(info.vh),
		},
		TopInset: float64(info.top_inset),
	}, nil
}
