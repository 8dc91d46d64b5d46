package contact

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Status of a form submission.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// DefaultResetDelay is how long a success status stays before the form
// returns to idle.
const DefaultResetDelay = 5 * time.Second

// User-facing status texts.
const (
	SuccessText = "Vielen Dank! Ihre Nachricht wurde erfolgreich gesendet."
	ErrorText   = "Ein Fehler ist aufgetreten. Bitte versuchen Sie es erneut."
)

// ErrBusy is returned by Submit while another submission is in flight.
var ErrBusy = errors.New("submission already in progress")

// Form holds the fields of the contact form and its submission status.
// It is safe for concurrent use.
type Form struct {
	sender     Sender
	resetDelay time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	fields  Message
	consent bool
	status  Status
	lastErr error
	timer   *time.Timer
	onReset func()
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithResetDelay overrides DefaultResetDelay.
func WithResetDelay(d time.Duration) FormOption {
	return func(f *Form) { f.resetDelay = d }
}

// WithFormLogger sets the logger.
func WithFormLogger(l *slog.Logger) FormOption {
	return func(f *Form) { f.logger = l }
}

// WithResetHook registers fn to run after a success status reverts to idle.
func WithResetHook(fn func()) FormOption {
	return func(f *Form) { f.onReset = fn }
}

// NewForm creates an idle Form delivering through sender.
func NewForm(sender Sender, opts ...FormOption) *Form {
	f := &Form{
		sender:     sender,
		resetDelay: DefaultResetDelay,
		status:     StatusIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fill sets the form fields and the consent flag.
func (f *Form) Fill(msg Message, consent bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = msg
	f.consent = consent
}

// Fields returns the current field values.
func (f *Form) Fields() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Status returns the submission status.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Err returns the error of the last failed submission.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// StatusText returns the message shown for the current status.
func (f *Form) StatusText() string {
	switch f.Status() {
	case StatusSuccess:
		return SuccessText
	case StatusError:
		return ErrorText
	}
	return ""
}

// Submit validates and sends the fields. On success the fields are cleared
// and the status reverts to idle after the reset delay. On failure the status
// is StatusError and the fields are kept for a retry. Validation failures
// leave the status untouched and send nothing.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return ErrBusy
	}
	msg := f.fields
	if !f.consent {
		f.mu.Unlock()
		return ErrNoConsent
	}
	if err := msg.Validate(); err != nil {
		f.mu.Unlock()
		return err
	}
	f.stopTimerLocked()
	f.status = StatusSubmitting
	f.lastErr = nil
	f.mu.Unlock()

	err := f.sender.Send(ctx, msg)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = StatusError
		f.lastErr = err
		if f.logger != nil {
			f.logger.Warn("contact submission failed", "error", err)
		}
		return err
	}

	f.status = StatusSuccess
	f.fields = Message{}
	f.consent = false
	f.timer = time.AfterFunc(f.resetDelay, f.reset)
	if f.logger != nil {
		f.logger.Info("contact message sent")
	}
	return nil
}

func (f *Form) reset() {
	f.mu.Lock()
	if f.status != StatusSuccess {
		f.mu.Unlock()
		return
	}
	f.status = StatusIdle
	f.timer = nil
	hook := f.onReset
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (f *Form) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// Close cancels a pending reset.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopTimerLocked()
}
