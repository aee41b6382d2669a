// Package otp implements phone verification: a per-phone flow state
// machine with resend cooldowns, a registry ticking those cooldowns,
// and the code service that issues and checks verification codes.
package otp

import (
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/example/bazario/internal/utils"
)

// Purpose of a verification flow. The purpose decides the resend
// cooldown window.
const (
	PurposeLogin  = "login"
	PurposeSignup = "signup"
)

// Resend cooldowns in seconds per purpose.
const (
	LoginCooldownSeconds  = 60
	SignupCooldownSeconds = 300
)

// State of a verification flow.
type State string

const (
	StateIdle      State = "idle"
	StateSent      State = "sent"
	StateVerifying State = "verifying"
	StateVerified  State = "verified"
)

// Errors returned by flow operations.
var (
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrInvalidCodeFormat = errors.New("code must be exactly 4 digits")
	ErrCooldownActive    = errors.New("resend cooldown is still active")
	ErrFlowFinished      = errors.New("verification flow already finished")
)

var codeRe = regexp.MustCompile(`^\d{4}$`)

// VerifyResult is what the code service hands back on a successful
// verification: the owner account the session belongs to.
type VerifyResult struct {
	OwnerID   string
	StoreName string
	OwnerName string
	Phone     string
	Created   bool // true when a signup created the account
}

// CodeService is the external collaborator that actually dispatches
// and checks codes. The flow never fabricates codes itself. The
// registration payload is nil for login flows.
type CodeService interface {
	Send(phone, purpose string) error
	Verify(phone, code, purpose string, payload *Registration) (*VerifyResult, error)
}

// Flow is one phone verification attempt. Methods are safe for
// concurrent use: request handlers and the registry's cooldown ticker
// share a flow, never in parallel for the same operation.
type Flow struct {
	Phone   string // canonical form
	Purpose string

	mu        sync.Mutex
	state     State
	cooldown  int
	lastError string
	touched   time.Time
}

// NewFlow validates the raw national number and returns an idle flow
// bound to its canonical form. The number is validated before
// normalization, per the national numbering plan.
func NewFlow(rawPhone, purpose string) (*Flow, error) {
	if !utils.ValidateNationalPhone(rawPhone) {
		return nil, ErrInvalidPhone
	}
	return &Flow{
		Phone:   utils.NormalizePhone(rawPhone),
		Purpose: purpose,
		state:   StateIdle,
		touched: time.Now(),
	}, nil
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CooldownRemaining returns the seconds left before a resend is
// allowed.
func (f *Flow) CooldownRemaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cooldown
}

// LastActivity reports when the flow was created or last progressed.
// The registry uses it to prune abandoned flows.
func (f *Flow) LastActivity() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched
}

// LastError returns the most recent collaborator error message, empty
// when the last operation succeeded.
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

func (f *Flow) cooldownWindow() int {
	if f.Purpose == PurposeSignup {
		return SignupCooldownSeconds
	}
	return LoginCooldownSeconds
}

// RequestCode dispatches a verification code through the collaborator.
// On success the flow moves to Sent and the cooldown resets; on
// collaborator failure the flow stays in its previous state with the
// error surfaced. A repeat request while the cooldown is running is
// rejected, so hitting the send endpoint again cannot reset the
// window.
func (f *Flow) RequestCode(svc CodeService) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requestCodeLocked(svc)
}

func (f *Flow) requestCodeLocked(svc CodeService) error {
	if f.state == StateVerified {
		return ErrFlowFinished
	}
	if f.state == StateSent && f.cooldown > 0 {
		return ErrCooldownActive
	}

	if err := svc.Send(f.Phone, f.Purpose); err != nil {
		f.lastError = err.Error()
		return err
	}

	f.state = StateSent
	f.cooldown = f.cooldownWindow()
	f.lastError = ""
	f.touched = time.Now()
	return nil
}

// Tick decrements the resend cooldown by one second. Invoked once per
// second by the registry while the cooldown is positive.
func (f *Flow) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cooldown > 0 {
		f.cooldown--
	}
}

// Resend re-dispatches the code once the cooldown has elapsed. The
// cooldown only rate-limits dispatch; code validity is owned by the
// verification record.
func (f *Flow) Resend(svc CodeService) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requestCodeLocked(svc)
}

// Verify checks the submitted code with the collaborator. A malformed
// code is rejected without any collaborator call, as is a flow whose
// code was never dispatched. On success the flow terminates in
// Verified and the collaborator's result is returned; on failure the
// flow drops back to Sent with the cooldown untouched.
func (f *Flow) Verify(svc CodeService, code string, payload *Registration) (*VerifyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateVerified {
		return nil, ErrFlowFinished
	}
	if f.state != StateSent {
		return nil, ErrCodeNotFound
	}
	if !codeRe.MatchString(code) {
		return nil, ErrInvalidCodeFormat
	}

	f.state = StateVerifying
	result, err := svc.Verify(f.Phone, code, f.Purpose, payload)
	f.touched = time.Now()
	if err != nil {
		f.state = StateSent
		f.lastError = err.Error()
		return nil, err
	}

	f.state = StateVerified
	f.lastError = ""
	return result, nil
}
