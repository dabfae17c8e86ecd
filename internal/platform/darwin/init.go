//go:build darwin && cgo

package darwin

import "github.com/mj1618/menubar-shelf/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Accessibility: NewAccessibility(),
			Capturer:      NewCapturer(),
			Poster:        NewPoster(),
			Permissions:   NewPermissions(),
			Display:       NewDisplay(),
			App:           NewApp(),
		}, nil
	}
}
