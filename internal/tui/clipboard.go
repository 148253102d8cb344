package tui

import "github.com/atotto/clipboard"

// Clipboard receives text from the copy actions.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the desktop clipboard (xclip, xsel, wl-copy or
// pbcopy, whichever is available).
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
