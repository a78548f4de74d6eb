package output

import (
	"fmt"
	"io"
)

// Texter is implemented by results with a plain-text form.
type Texter interface {
	Text() string
}

// TextFormatter writes the plain-text form of data, one line per value.
type TextFormatter struct{}

// Format writes data. Values without a Text method fall back to their
// table rendering.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	if t, ok := data.(Texter); ok {
		_, err := fmt.Fprintln(w, t.Text())
		return err
	}
	return (&TableFormatter{}).Format(w, data)
}
