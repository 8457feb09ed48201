package mailer

import (
	"context"
	"sync"
)

// Outcome classifies the settled state of a paired dispatch.
type Outcome int

const (
	BothFailed Outcome = iota
	PrimaryOnly
	SecondaryOnly
	BothOK
)

// DispatchResult holds both settled send results of a paired dispatch.
type DispatchResult struct {
	Primary   SendResult
	Secondary SendResult
}

// Outcome derives the combined outcome from the two settled results.
func (r DispatchResult) Outcome() Outcome {
	switch {
	case r.Primary.Success && r.Secondary.Success:
		return BothOK
	case r.Primary.Success:
		return PrimaryOnly
	case r.Secondary.Success:
		return SecondaryOnly
	default:
		return BothFailed
	}
}

// AnySucceeded is the contact-flow policy: the submission already happened,
// so reaching either the submitter or the admin counts as delivered.
func (r DispatchResult) AnySucceeded() bool {
	return r.Primary.Success || r.Secondary.Success
}

// PrimarySucceeded is the newsletter-flow policy: the welcome email is the
// deliverable, the admin alert is best-effort.
func (r DispatchResult) PrimarySucceeded() bool {
	return r.Primary.Success
}

// Sender is the part of Client the dispatcher needs.
type Sender interface {
	Send(ctx context.Context, msg Message) SendResult
}

// Dispatcher issues a primary and a secondary message concurrently and waits
// for both to settle. One slow or failing branch never blocks or aborts the
// other; there is no retry.
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// SendPair sends both messages and returns once both attempts have settled.
func (d *Dispatcher) SendPair(ctx context.Context, primary, secondary Message) DispatchResult {
	var result DispatchResult
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Primary = d.sender.Send(ctx, primary)
	}()
	go func() {
		defer wg.Done()
		result.Secondary = d.sender.Send(ctx, secondary)
	}()
	wg.Wait()

	return result
}
