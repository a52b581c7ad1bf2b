// Package logging writes leveled lines to a shared standard logger.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel is case-insensitive; "warning" is accepted for warn
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Info, fmt.Errorf("unknown log level %q", name)
}

var (
	threshold atomic.Int32
	out       = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
)

func init() {
	threshold.Store(int32(Info))
}

// SetLevel leaves the threshold untouched when name is not a level
func SetLevel(name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	threshold.Store(int32(l))
	return nil
}

func Enabled(l Level) bool {
	return l >= Level(threshold.Load())
}

func SetOutput(w io.Writer) {
	out.SetOutput(w)
}

func write(l Level, format string, args []any) {
	if !Enabled(l) {
		return
	}
	// no args: print as is, a literal % in a preformatted message must survive
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	out.Print("[" + l.String() + "] " + msg)
}

func Debugf(format string, args ...any) { write(Debug, format, args) }
func Infof(format string, args ...any)  { write(Info, format, args) }
func Warnf(format string, args ...any)  { write(Warn, format, args) }
func Errorf(format string, args ...any) { write(Error, format, args) }

// TimeTrack is meant to be deferred: defer TimeTrack(time.Now(), "load")
func TimeTrack(start time.Time, label string) {
	if Enabled(Debug) {
		Debugf("%s took %s", label, time.Since(start))
	}
}
