package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()

// PrintError writes err as "Error: <message>". Domain errors carry their
// code in the message: "Error: [BEA-TOKN-4040] token not found".
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorLabel("Error:"), err)
}

// Warnf writes a highlighted warning line.
func Warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("Warning:"), fmt.Sprintf(format, args...))
}
