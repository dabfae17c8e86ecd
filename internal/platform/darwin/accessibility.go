//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework AppKit -framework Foundation
#import <AppKit/AppKit.h>
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
    int pid;
    char *bundleID; // NULL when the application has no identifier
    char *name;
} ProcInfo;

static char *copy_nsstring(NSString *s) {
    if (s == nil) return NULL;
    const char *u = [s UTF8String];
    return u ? strdup(u) : NULL;
}

static int ns_running_apps(ProcInfo **out, int *count) {
    @autoreleasepool {
        NSArray<NSRunningApplication *> *apps = [[NSWorkspace sharedWorkspace] runningApplications];
        int n = (int)[apps count];
        *count = 0;
        *out = NULL;
        if (n == 0) return 0;
        ProcInfo *list = calloc(n, sizeof(ProcInfo));
        if (!list) return -1;
        for (int i = 0; i < n; i++) {
            NSRunningApplication *app = apps[i];
            list[i].pid = (int)[app processIdentifier];
            list[i].bundleID = copy_nsstring([app bundleIdentifier]);
            list[i].name = copy_nsstring([app localizedName]);
        }
        *out = list;
        *count = n;
    }
    return 0;
}

static void ns_free_apps(ProcInfo *list, int count) {
    for (int i = 0; i < count; i++) {
        free(list[i].bundleID);
        free(list[i].name);
    }
    free(list);
}

static AXUIElementRef ax_app_root(int pid) {
    return AXUIElementCreateApplication((pid_t)pid);
}

static void ax_release(AXUIElementRef el) {
    if (el) CFRelease(el);
}

// Copy a string attribute into a malloc'd buffer. Returns NULL when missing.
static char *ax_copy_string(AXUIElementRef el, CFStringRef attr) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, attr, &value) != kAXErrorSuccess || !value) {
        return NULL;
    }
    char *result = NULL;
    if (CFGetTypeID(value) == CFStringGetTypeID()) {
        CFStringRef s = (CFStringRef)value;
        CFIndex len = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
        result = malloc(len);
        if (result && !CFStringGetCString(s, result, len, kCFStringEncodingUTF8)) {
            free(result);
            result = NULL;
        }
    }
    CFRelease(value);
    return result;
}

static char *ax_role(AXUIElementRef el) {
    return ax_copy_string(el, kAXRoleAttribute);
}

static char *ax_subrole(AXUIElementRef el) {
    return ax_copy_string(el, kAXSubroleAttribute);
}

static int ax_position(AXUIElementRef el, double *x, double *y) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, kAXPositionAttribute, &value) != kAXErrorSuccess || !value) {
        return -1;
    }
    CGPoint p;
    int ok = AXValueGetValue((AXValueRef)value, kAXValueCGPointType, &p);
    CFRelease(value);
    if (!ok) return -1;
    *x = p.x;
    *y = p.y;
    return 0;
}

static int ax_size(AXUIElementRef el, double *w, double *h) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, kAXSizeAttribute, &value) != kAXErrorSuccess || !value) {
        return -1;
    }
    CGSize s;
    int ok = AXValueGetValue((AXValueRef)value, kAXValueCGSizeType, &s);
    CFRelease(value);
    if (!ok) return -1;
    *w = s.width;
    *h = s.height;
    return 0;
}

// Copy the children array. Each returned element is retained; the caller
// releases each one and frees the array.
static int ax_children(AXUIElementRef el, AXUIElementRef **out, int *count) {
    *out = NULL;
    *count = 0;
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &value);
    if (err == kAXErrorNoValue || err == kAXErrorAttributeUnsupported) return 0;
    if (err != kAXErrorSuccess || !value) return -1;
    if (CFGetTypeID(value) != CFArrayGetTypeID()) {
        CFRelease(value);
        return 0;
    }
    CFArrayRef arr = (CFArrayRef)value;
    CFIndex n = CFArrayGetCount(arr);
    if (n > 0) {
        AXUIElementRef *list = calloc(n, sizeof(AXUIElementRef));
        if (!list) {
            CFRelease(value);
            return -1;
        }
        for (CFIndex i = 0; i < n; i++) {
            list[i] = (AXUIElementRef)CFRetain(CFArrayGetValueAtIndex(arr, i));
        }
        *out = list;
        *count = (int)n;
    }
    CFRelease(value);
    return 0;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

// Accessibility implements platform.Accessibility over NSWorkspace and the
// AXUIElement API.
type Accessibility struct{}

// NewAccessibility creates a new macOS accessibility reader.
func NewAccessibility() *Accessibility {
	return &Accessibility{}
}

func (a *Accessibility) RunningProcesses() ([]platform.Process, error) {
	var cList *C.ProcInfo
	var cCount C.int
	if C.ns_running_apps(&cList, &cCount) != 0 {
		return nil, fmt.Errorf("failed to enumerate running applications")
	}
	count := int(cCount)
	if count == 0 {
		return []platform.Process{}, nil
	}
	defer C.ns_free_apps(cList, cCount)

	procs := make([]platform.Process, 0, count)
	for _, ci := range unsafe.Slice(cList, count) {
		p := platform.Process{PID: int(ci.pid)}
		if ci.bundleID != nil {
			p.BundleID = C.GoString(ci.bundleID)
		}
		if ci.name != nil {
			p.Name = C.GoString(ci.name)
		}
		if p.Name == "" {
			p.Name = p.BundleID
		}
		procs = append(procs, p)
	}
	return procs, nil
}

func (a *Accessibility) ApplicationRoot(pid int) (platform.AXNode, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return nil, err
	}
	ref := C.ax_app_root(C.int(pid))
	if ref == 0 {
		return nil, fmt.Errorf("failed to create accessibility root for PID %d", pid)
	}
	return &axNode{ref: ref}, nil
}

// axNode owns one retained AXUIElementRef.
type axNode struct {
	ref C.AXUIElementRef
}

func (n *axNode) Role() (string, bool) {
	return takeCString(C.ax_role(n.ref))
}

func (n *axNode) Subrole() (string, bool) {
	return takeCString(C.ax_subrole(n.ref))
}

func (n *axNode) Position() (model.Point, bool) {
	var x, y C.double
	if C.ax_position(n.ref, &x, &y) != 0 {
		return model.Point{}, false
	}
	return model.Point{X: float64(x), Y: float64(y)}, true
}

func (n *axNode) Size() (model.Size, bool) {
	var w, h C.double
	if C.ax_size(n.ref, &w, &h) != 0 {
		return model.Size{}, false
	}
	return model.Size{Width: float64(w), Height: float64(h)}, true
}

func (n *axNode) Children() ([]platform.AXNode, error) {
	var cList *C.AXUIElementRef
	var cCount C.int
	if C.ax_children(n.ref, &cList, &cCount) != 0 {
		return nil, fmt.Errorf("failed to read children")
	}
	count := int(cCount)
	if count == 0 {
		return nil, nil
	}
	defer C.free(unsafe.Pointer(cList))

	children := make([]platform.AXNode, 0, count)
	for _, ref := range unsafe.Slice(cList, count) {
		children = append(children, &axNode{ref: ref})
	}
	return children, nil
}

func (n *axNode) Release() {
	if n.ref != 0 {
		C.ax_release(n.ref)
		n.ref = 0
	}
}

// takeCString converts and frees a malloc'd C string.
func takeCString(s *C.char) (string, bool) {
	if s == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(s))
	return C.GoString(s), true
}
