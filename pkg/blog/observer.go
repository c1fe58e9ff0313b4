package blog

import (
	"log/slog"
	"time"
)

// Operation names passed to Observer.OnError. Insert conflicts report
// under OpCreate, matching the OnCreate hook for a successful insert.
const (
	OpCreate = "create"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Observer defines hooks for observability and metrics collection.
// Hooks run after the store lock is released and must be safe for
// concurrent use.
type Observer interface {
	// OnCreate is called after a successful create or insert.
	OnCreate(id int, duration time.Duration)

	// OnRead is called after a successful get.
	OnRead(id int, duration time.Duration)

	// OnList is called after every list.
	OnList(count int, duration time.Duration)

	// OnUpdate is called after a successful update.
	OnUpdate(id int, duration time.Duration)

	// OnDelete is called after a successful delete.
	OnDelete(id int, duration time.Duration)

	// OnError is called when an operation fails.
	OnError(operation string, id int, err error)
}

// NoopObserver is a no-op implementation of Observer.
type NoopObserver struct{}

func (NoopObserver) OnCreate(id int, duration time.Duration)     {}
func (NoopObserver) OnRead(id int, duration time.Duration)       {}
func (NoopObserver) OnList(count int, duration time.Duration)    {}
func (NoopObserver) OnUpdate(id int, duration time.Duration)     {}
func (NoopObserver) OnDelete(id int, duration time.Duration)     {}
func (NoopObserver) OnError(operation string, id int, err error) {}

// LogObserver writes one debug record per store operation.
type LogObserver struct {
	Log *slog.Logger
}

func (o LogObserver) OnCreate(id int, duration time.Duration) {
	o.Log.Debug("post stored", "id", id, "duration", duration)
}

func (o LogObserver) OnRead(id int, duration time.Duration) {
	o.Log.Debug("post read", "id", id, "duration", duration)
}

func (o LogObserver) OnList(count int, duration time.Duration) {
	o.Log.Debug("posts listed", "count", count, "duration", duration)
}

func (o LogObserver) OnUpdate(id int, duration time.Duration) {
	o.Log.Debug("post replaced", "id", id, "duration", duration)
}

func (o LogObserver) OnDelete(id int, duration time.Duration) {
	o.Log.Debug("post deleted", "id", id, "duration", duration)
}

func (o LogObserver) OnError(operation string, id int, err error) {
	o.Log.Debug("store operation failed", "operation", operation, "id", id, "error", err)
}

// MultiObserver fans every hook out to each observer in order.
type MultiObserver []Observer

func (m MultiObserver) OnCreate(id int, duration time.Duration) {
	for _, o := range m {
		o.OnCreate(id, duration)
	}
}

func (m MultiObserver) OnRead(id int, duration time.Duration) {
	for _, o := range m {
		o.OnRead(id, duration)
	}
}

func (m MultiObserver) OnList(count int, duration time.Duration) {
	for _, o := range m {
		o.OnList(count, duration)
	}
}

func (m MultiObserver) OnUpdate(id int, duration time.Duration) {
	for _, o := range m {
		o.OnUpdate(id, duration)
	}
}

func (m MultiObserver) OnDelete(id int, duration time.Duration) {
	for _, o := range m {
		o.OnDelete(id, duration)
	}
}

func (m MultiObserver) OnError(operation string, id int, err error) {
	for _, o := range m {
		o.OnError(operation, id, err)
	}
}
