package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	debugMu     sync.Mutex
	debugOutput io.Writer = os.Stderr
)

// DebugEnabled returns true if debug mode is enabled via JT_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("JT_DEBUG") != ""
}

// SetDebugOutput redirects debug output and returns the previous writer.
func SetDebugOutput(w io.Writer) io.Writer {
	debugMu.Lock()
	defer debugMu.Unlock()
	prev := debugOutput
	debugOutput = w
	return prev
}

// Debugf prints a formatted debug message only if debug mode is enabled.
// Output goes to stderr so it never mixes with CSV on stdout.
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		debugMu.Lock()
		defer debugMu.Unlock()
		fmt.Fprintf(debugOutput, format, args...)
	}
}
