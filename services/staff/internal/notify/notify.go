// Package notify queues transient messages for the toast host rendered on every page.
package notify

import "sync"

type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

type Toast struct {
	Level   Level
	Message string
}

// Host collects toasts for one rendered page.
type Host struct {
	mu     sync.Mutex
	toasts []Toast
}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) Error(message string) {
	h.push(LevelError, message)
}

func (h *Host) Success(message string) {
	h.push(LevelSuccess, message)
}

func (h *Host) push(level Level, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toasts = append(h.toasts, Toast{Level: level, Message: message})
}

func (h *Host) Toasts() []Toast {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Toast, len(h.toasts))
	copy(out, h.toasts)
	return out
}
