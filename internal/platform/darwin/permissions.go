//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework Foundation
#import <Foundation/Foundation.h>
#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>

static int is_trusted() {
    return AXIsProcessTrusted();
}

static void prompt_trusted() {
    NSDictionary *opts = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @YES};
    AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)opts);
}

static int screen_capture_allowed() {
    return CGPreflightScreenCaptureAccess();
}

static int request_screen_capture() {
    return CGRequestScreenCaptureAccess();
}
*/
import "C"

import (
	"fmt"

	"github.com/mj1618/menubar-shelf/internal/platform"
)

// Permissions implements platform.PermissionChecker over the TCC grants.
type Permissions struct{}

// NewPermissions creates a new macOS permission checker.
func NewPermissions() *Permissions {
	return &Permissions{}
}

func (p *Permissions) Snapshot() platform.Permissions {
	return platform.Permissions{
		AccessibilityTrusted:   IsAccessibilityTrusted(),
		ScreenRecordingAllowed: C.screen_capture_allowed() != 0,
	}
}

func (p *Permissions) RequestAccessibility() {
	if !IsAccessibilityTrusted() {
		C.prompt_trusted()
	}
}

func (p *Permissions) RequestScreenRecording() bool {
	if C.screen_capture_allowed() != 0 {
		return true
	}
	return C.request_screen_capture() != 0
}

// CheckAccessibilityPermission checks if the process has macOS accessibility permission.
// Returns an error with instructions if permission is not granted.
func CheckAccessibilityPermission() error {
	if C.is_trusted() == 0 {
		return fmt.Errorf(
			"accessibility permission required\n\n" +
				"Grant permission at: System Settings > Privacy & Security > Accessibility\n" +
				"Add menubar-shelf (or the terminal running it), then restart it.")
	}
	return nil
}

// IsAccessibilityTrusted returns true if the process has accessibility permission.
func IsAccessibilityTrusted() bool {
	return C.is_trusted() != 0
}
