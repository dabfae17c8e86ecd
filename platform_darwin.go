//go:build darwin

package main

import _ "github.com/mj1618/menubar-shelf/internal/platform/darwin"
