package present

import "github.com/atotto/clipboard"

type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ClipboardAvailable reports whether a clipboard utility was found.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}
