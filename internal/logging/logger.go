package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger on stderr. verbose forces debug level; otherwise
// level is parsed with zerolog.ParseLevel and falls back to info.
func New(level string, verbose bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, verbose)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, verbose bool) zerolog.Logger {
	lvl := parseLevel(level)
	if verbose {
		lvl = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		FormatMessage: func(i any) string {
			if s, ok := i.(string); ok {
				return Mask(s)
			}
			return ""
		},
		FormatFieldValue:    maskValue,
		FormatErrFieldValue: maskValue,
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func maskValue(i any) string {
	if s, ok := i.(string); ok {
		return Mask(s)
	}
	return Mask(fmt.Sprintf("%v", i))
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
