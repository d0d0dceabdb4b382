package viewer

import (
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard reads what the user copied.
type Clipboard interface {
	// Image returns encoded PNG data, or nil.
	Image() ([]byte, error)
	// Text returns the copied text, or nil.
	Text() ([]byte, error)
}

var (
	clipOnce sync.Once
	clipErr  error
)

type systemClipboard struct{}

func (systemClipboard) init() error {
	clipOnce.Do(func() { clipErr = clipboard.Init() })
	return clipErr
}

func (c systemClipboard) Image() ([]byte, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return clipboard.Read(clipboard.FmtImage), nil
}

func (c systemClipboard) Text() ([]byte, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return clipboard.Read(clipboard.FmtText), nil
}
