// Package terminal provides prompt helpers: hidden password input and clearing
// of prompt lines once they have been answered.
package terminal

import (
	"math"
	"os"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

// Width returns the terminal width, or 80 when stdout is not a terminal.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// LinesFor returns how many terminal rows textLength characters occupy at width.
func LinesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	n := int(math.Ceil(float64(textLength) / float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}

// ClearPreviousLines clears text from the terminal that was previously printed.
// textLength is the prompt plus the user's input. After Enter the cursor sits on
// a new empty line below the input, which is cleared too.
func ClearPreviousLines(textLength int) {
	linesToClear := LinesFor(textLength, Width()) + 1
	for i := 0; i < linesToClear; i++ {
		cursor.StartOfLine()
		cursor.ClearLine()
		if i < linesToClear-1 {
			cursor.Up(1)
		}
	}
}
