// Package notify sends best-effort user notifications (welcome, logout mails).
//
// Delivery never affects the caller: Dispatcher runs each Notify call in its
// own goroutine with its own timeout and only logs failures.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Mail is the payload handed to a Notifier.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type Notifier interface {
	Notify(ctx context.Context, m Mail) error
}

// Dispatcher fires notifications without blocking the request path.
type Dispatcher struct {
	n       Notifier
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(n Notifier, log *slog.Logger, timeout time.Duration) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{n: n, log: log, timeout: timeout}
}

// Dispatch returns immediately. The request context is deliberately not
// used: the mail must still go out after the response is written.
func (d *Dispatcher) Dispatch(m Mail) {
	if d == nil || d.n == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				d.log.Error("notify panic", "to", m.To, "subject", m.Subject, "panic", p)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.n.Notify(ctx, m); err != nil {
			d.log.Warn("notify failed", "to", m.To, "subject", m.Subject, "err", err)
		}
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogNotifier only logs mails. Used when no broker is configured.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, m Mail) error {
	l := n.Log
	if l == nil {
		l = slog.Default()
	}
	l.Info("mail (not sent, no broker configured)", "to", m.To, "subject", m.Subject)
	return nil
}
