package mailer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	u "museshop/internal/utils"
)

// Stats is a snapshot of delivery counters.
type Stats struct {
	Sent     int64 `json:"sent"`
	Failed   int64 `json:"failed"`
	InFlight int64 `json:"in_flight"`
}

// Dispatcher sends messages through a Sender. Every message is attempted
// independently: one failing send never prevents the others. There are no
// retries.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration

	wg       sync.WaitGroup
	sent     atomic.Int64
	failed   atomic.Int64
	inFlight atomic.Int64
}

// NewDispatcher wraps sender. timeout bounds each individual send.
func NewDispatcher(sender Sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{sender: sender, timeout: timeout}
}

// Deliver sends msgs and waits for all of them. The returned error wraps
// ErrDeliveryFailed and joins the individual failures.
func (d *Dispatcher) Deliver(ctx context.Context, msgs ...Message) error {
	var errs []error
	for _, msg := range msgs {
		if err := d.send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", msg.To, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, errors.Join(errs...))
	}
	return nil
}

// DeliverAsync sends msgs on a detached goroutine and returns immediately.
// Failures are logged under label and never reported to the caller.
func (d *Dispatcher) DeliverAsync(label string, msgs ...Message) {
	d.wg.Add(1)
	d.inFlight.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.inFlight.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				u.Error("Background email panicked", "label", label, "panic", r)
			}
		}()

		if err := d.Deliver(context.Background(), msgs...); err != nil {
			u.Error("Background email error", "label", label, "error", err)
		}
	}()
}

// Wait blocks until all detached sends have finished or ctx is done.
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

// Stats returns the current delivery counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Sent:     d.sent.Load(),
		Failed:   d.failed.Load(),
		InFlight: d.inFlight.Load(),
	}
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.failed.Add(1)
		u.Warn("Email delivery failed", "to", recipients(msg), "subject", msg.Subject, "error", err)
		return err
	}
	d.sent.Add(1)
	u.Info("Email sent", "to", recipients(msg), "subject", msg.Subject)
	return nil
}
