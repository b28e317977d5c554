package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// CallLogger records every intercepted DirectInput call on one line.
type CallLogger interface {
	Log(method string, args string, err error)
}

type callLogger struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewCall creates a CallLogger. A nil writer yields a no-op logger.
func NewCall(w io.Writer) CallLogger {
	return &callLogger{w: w, now: time.Now}
}

// Log writes "<time> <method>(<args>) -> <result>".
func (c *callLogger) Log(method string, args string, err error) {
	if c.w == nil {
		return
	}

	result := "OK"
	if err != nil {
		result = err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(%s) -> %s\n",
		c.now().Format("2006/01/02 15:04:05.000"),
		method,
		args,
		result)

	c.mu.Lock()
	_, _ = io.WriteString(c.w, b.String())
	c.mu.Unlock()
}
