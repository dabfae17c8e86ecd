//go:build darwin

// Package darwin provides the macOS backends: Accessibility for menu bar
// discovery, CoreGraphics for capture and event posting, and AppKit for the
// status item, shelf panel and global input monitors.
// All functionality requires CGo (Objective-C frameworks).
// When CGo is disabled, the package compiles as a no-op stub.
package darwin
