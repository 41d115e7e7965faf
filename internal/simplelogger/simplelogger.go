package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	mu   sync.Mutex
	path string // set by SetPath; takes precedence over MDFMT_LOG_FILE
)

// SetPath directs Log to append to p. An empty p reverts to MDFMT_LOG_FILE.
func SetPath(p string) {
	mu.Lock()
	defer mu.Unlock()
	path = p
}

// Log is a minimal printf-style logger. It appends a timestamped line to the file set with SetPath, or else to the file named by the MDFMT_LOG_FILE environment
// variable.
//
// If neither is set, or the path can't be opened as a file, Log is a no-op.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	p := path
	if p == "" {
		p = os.Getenv("MDFMT_LOG_FILE")
	}
	if p == "" {
		return
	}

	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	b.WriteString(time.Now().Format("2006-01-02T15:04:05.000 "))
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}
