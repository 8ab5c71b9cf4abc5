// Package notify collects non-blocking user notifications (toasts).
package notify

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier is what view models use to surface outcomes to the user.
type Notifier interface {
	Info(message string)
	Success(message string)
	Error(message string)
}

type Toast struct {
	Level   Level
	Message string
	At      time.Time
}

const (
	DefaultTTL = 4 * time.Second
	maxToasts  = 5
)

// Center keeps the most recent toasts and drops them once they expire.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	toasts []Toast
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

func (c *Center) Info(message string)    { c.push(LevelInfo, message) }
func (c *Center) Success(message string) { c.push(LevelSuccess, message) }
func (c *Center) Error(message string)   { c.push(LevelError, message) }

func (c *Center) push(level Level, message string) {
	if level == LevelError {
		log.Printf("[notify] %s", message)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, Toast{Level: level, Message: message, At: c.now()})
	if len(c.toasts) > maxToasts {
		c.toasts = append([]Toast(nil), c.toasts[len(c.toasts)-maxToasts:]...)
	}
}

// Active returns unexpired toasts, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-c.ttl)
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if t.At.After(cutoff) {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
	return append([]Toast(nil), kept...)
}

// Writer prints each notification as a line, for non-interactive commands.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (p *Writer) Info(message string)    { p.write(LevelInfo, message) }
func (p *Writer) Success(message string) { p.write(LevelSuccess, message) }
func (p *Writer) Error(message string)   { p.write(LevelError, message) }

func (p *Writer) write(level Level, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s: %s\n", level, message)
}

// Recorder keeps every notification; tests assert against it.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Info(message string)    { r.add(LevelInfo, message) }
func (r *Recorder) Success(message string) { r.add(LevelSuccess, message) }
func (r *Recorder) Error(message string)   { r.add(LevelError, message) }

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	r.toasts = append(r.toasts, Toast{Level: level, Message: message})
	r.mu.Unlock()
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast, if any.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

var (
	_ Notifier = (*Center)(nil)
	_ Notifier = (*Recorder)(nil)
	_ Notifier = (*Writer)(nil)
)
