package otp

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeCodeService records calls and returns scripted results.
type fakeCodeService struct {
	sendErr   error
	verifyErr error
	result    *VerifyResult

	sendCalls   int
	verifyCalls int
	lastCode    string
	lastPayload *Registration
}

func (f *fakeCodeService) Send(phone, purpose string) error {
	f.sendCalls++
	return f.sendErr
}

func (f *fakeCodeService) Verify(phone, code, purpose string, payload *Registration) (*VerifyResult, error) {
	f.verifyCalls++
	f.lastCode = code
	f.lastPayload = payload
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.result, nil
}

func TestNewFlowValidatesNationalNumber(t *testing.T) {
	flow, err := NewFlow("9876543210", PurposeLogin)
	assert.NoError(t, err)
	assert.Equal(t, "919876543210", flow.Phone)
	assert.Equal(t, StateIdle, flow.State())

	_, err = NewFlow("1234567890", PurposeLogin)
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = NewFlow("919876543210", PurposeLogin)
	assert.ErrorIs(t, err, ErrInvalidPhone, "canonical form is not a national number")
}

func TestRequestCodeStartsCooldown(t *testing.T) {
	svc := &fakeCodeService{}
	flow, _ := NewFlow("9876543210", PurposeLogin)

	assert.NoError(t, flow.RequestCode(svc))
	assert.Equal(t, StateSent, flow.State())
	assert.Equal(t, LoginCooldownSeconds, flow.CooldownRemaining())
	assert.Equal(t, 1, svc.sendCalls)
}

func TestSignupCooldownIsLonger(t *testing.T) {
	svc := &fakeCodeService{}
	flow, _ := NewFlow("9876543210", PurposeSignup)

	assert.NoError(t, flow.RequestCode(svc))
	assert.Equal(t, SignupCooldownSeconds, flow.CooldownRemaining())
}

func TestRequestCodeSendFailureKeepsState(t *testing.T) {
	svc := &fakeCodeService{sendErr: errors.New("gateway down")}
	flow, _ := NewFlow("9876543210", PurposeLogin)

	err := flow.RequestCode(svc)
	assert.EqualError(t, err, "gateway down")
	assert.Equal(t, StateIdle, flow.State())
	assert.Equal(t, 0, flow.CooldownRemaining())
	assert.Equal(t, "gateway down", flow.LastError())
}

func TestTickCountsDownToZero(t *testing.T) {
	svc := &fakeCodeService{}
	flow, _ := NewFlow("9876543210", PurposeLogin)
	assert.NoError(t, flow.RequestCode(svc))

	for i := 0; i < LoginCooldownSeconds; i++ {
		flow.Tick()
	}
	assert.Equal(t, 0, flow.CooldownRemaining())

	// Ticking an expired cooldown must not go negative.
	flow.Tick()
	assert.Equal(t, 0, flow.CooldownRemaining())
}

func TestRequestCodeBlockedDuringCooldown(t *testing.T) {
	svc := &fakeCodeService{}
	flow, _ := NewFlow("9876543210", PurposeLogin)
	assert.NoError(t, flow.RequestCode(svc))

	// A repeat send request must not dispatch again or reset the
	// window.
	flow.Tick()
	assert.ErrorIs(t, flow.RequestCode(svc), ErrCooldownActive)
	assert.Equal(t, 1, svc.sendCalls)
	assert.Equal(t, LoginCooldownSeconds-1, flow.CooldownRemaining())

	for i := 0; i < LoginCooldownSeconds; i++ {
		flow.Tick()
	}
	assert.NoError(t, flow.RequestCode(svc))
	assert.Equal(t, 2, svc.sendCalls)
}

func TestResendBlockedDuringCooldown(t *testing.T) {
	svc := &fakeCodeService{}
	flow, _ := NewFlow("9876543210", PurposeLogin)
	assert.NoError(t, flow.RequestCode(svc))

	assert.ErrorIs(t, flow.Resend(svc), ErrCooldownActive)
	assert.Equal(t, 1, svc.sendCalls, "no collaborator call while blocked")

	for i := 0; i < LoginCooldownSeconds; i++ {
		flow.Tick()
	}
	assert.NoError(t, flow.Resend(svc))
	assert.Equal(t, 2, svc.sendCalls)
	assert.Equal(t, LoginCooldownSeconds, flow.CooldownRemaining(), "resend restarts the cooldown")
}

func TestVerifyFormatGate(t *testing.T) {
	svc := &fakeCodeService{}
	flow, _ := NewFlow("9876543210", PurposeLogin)
	assert.NoError(t, flow.RequestCode(svc))

	for _, code := range []string{"", "12", "12345", "12a4", "abcd"} {
		_, err := flow.Verify(svc, code, nil)
		assert.ErrorIs(t, err, ErrInvalidCodeFormat, "code %q", code)
	}
	assert.Equal(t, 0, svc.verifyCalls, "malformed codes never reach the collaborator")
	assert.Equal(t, StateSent, flow.State())
}

func TestVerifyRequiresDispatchedCode(t *testing.T) {
	svc := &fakeCodeService{sendErr: errors.New("gateway down")}
	flow, _ := NewFlow("9876543210", PurposeLogin)
	assert.Error(t, flow.RequestCode(svc))
	assert.Equal(t, StateIdle, flow.State())

	_, err := flow.Verify(svc, "1234", nil)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	assert.Equal(t, 0, svc.verifyCalls)
	assert.Equal(t, StateIdle, flow.State(), "a flow without a dispatched code never reaches Sent")
}

func TestVerifySuccessTerminatesFlow(t *testing.T) {
	svc := &fakeCodeService{result: &VerifyResult{OwnerID: "o-1", Phone: "919876543210"}}
	flow, _ := NewFlow("9876543210", PurposeLogin)
	assert.NoError(t, flow.RequestCode(svc))

	result, err := flow.Verify(svc, "1234", nil)
	assert.NoError(t, err)
	assert.Equal(t, "o-1", result.OwnerID)
	assert.Equal(t, StateVerified, flow.State())
	assert.Equal(t, "1234", svc.lastCode)

	// A finished flow rejects further operations.
	_, err = flow.Verify(svc, "1234", nil)
	assert.ErrorIs(t, err, ErrFlowFinished)
	assert.ErrorIs(t, flow.RequestCode(svc), ErrFlowFinished)
}

func TestVerifyFailureReturnsToSent(t *testing.T) {
	svc := &fakeCodeService{verifyErr: ErrCodeMismatch}
	flow, _ := NewFlow("9876543210", PurposeLogin)
	assert.NoError(t, flow.RequestCode(svc))
	before := flow.CooldownRemaining()

	_, err := flow.Verify(svc, "9999", nil)
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.Equal(t, StateSent, flow.State())
	assert.Equal(t, before, flow.CooldownRemaining(), "failed verify leaves the cooldown untouched")
	assert.Equal(t, ErrCodeMismatch.Error(), flow.LastError())
}

func TestVerifyPassesRegistrationPayload(t *testing.T) {
	svc := &fakeCodeService{result: &VerifyResult{OwnerID: "o-2", Created: true}}
	flow, _ := NewFlow("9876543210", PurposeSignup)
	assert.NoError(t, flow.RequestCode(svc))

	reg := &Registration{StoreName: "Sharma General Store", OwnerName: "Ramesh Sharma"}
	result, err := flow.Verify(svc, "4321", reg)
	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, reg, svc.lastPayload)
}

func TestRegistryReusesFlowPerPhone(t *testing.T) {
	reg := NewRegistry()

	first, err := reg.Begin("9876543210", PurposeLogin)
	assert.NoError(t, err)

	again, err := reg.Begin("9876543210", PurposeLogin)
	assert.NoError(t, err)
	assert.Same(t, first, again, "same phone and purpose shares one flow")

	_, err = reg.Begin("123", PurposeLogin)
	assert.ErrorIs(t, err, ErrInvalidPhone)

	replaced, err := reg.Begin("9876543210", PurposeSignup)
	assert.NoError(t, err)
	assert.NotSame(t, first, replaced, "purpose change starts a fresh flow")

	found, ok := reg.Lookup("919876543210")
	assert.True(t, ok)
	assert.Same(t, replaced, found)

	reg.Finish("919876543210")
	_, ok = reg.Lookup("919876543210")
	assert.False(t, ok)
}

func TestRegistryTickAllCountsDownEveryFlow(t *testing.T) {
	svc := &fakeCodeService{}
	reg := NewRegistry()

	a, _ := reg.Begin("9876543210", PurposeLogin)
	b, _ := reg.Begin("8876543210", PurposeLogin)
	assert.NoError(t, a.RequestCode(svc))
	assert.NoError(t, b.RequestCode(svc))

	reg.tickAll()
	assert.Equal(t, LoginCooldownSeconds-1, a.CooldownRemaining())
	assert.Equal(t, LoginCooldownSeconds-1, b.CooldownRemaining())
}

func TestRegistryPrunesStaleFlows(t *testing.T) {
	reg := NewRegistry()

	// Begin registers the flow before any code is dispatched, so a
	// failed send must not leave a permanent entry.
	_, err := reg.Begin("9876543210", PurposeLogin)
	assert.NoError(t, err)

	reg.prune(time.Now())
	_, ok := reg.Lookup("919876543210")
	assert.True(t, ok, "fresh flow survives pruning")

	reg.prune(time.Now().Add(flowTTL + time.Minute))
	_, ok = reg.Lookup("919876543210")
	assert.False(t, ok, "stale flow is pruned")
}

func TestRegistryPrunesVerifiedFlows(t *testing.T) {
	svc := &fakeCodeService{result: &VerifyResult{OwnerID: "o-1"}}
	reg := NewRegistry()

	flow, err := reg.Begin("9876543210", PurposeLogin)
	assert.NoError(t, err)
	assert.NoError(t, flow.RequestCode(svc))

	_, err = flow.Verify(svc, "1234", nil)
	assert.NoError(t, err)

	reg.prune(time.Now())
	_, ok := reg.Lookup("919876543210")
	assert.False(t, ok, "verified flow is pruned even without Finish")
}
