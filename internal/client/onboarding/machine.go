// Package onboarding implements the sign-up state machine:
//
//	EMAIL -> EMAIL_VERIFY -> PASSWORD -> USERNAME -> HOORAY
//
// The machine owns the session, validates input at each boundary and, when
// the identity name is submitted, generates the recovery phrase and hands
// the encrypt/store/dispatch pipeline to a background executor. It never
// waits on that pipeline: reaching HOORAY depends only on local validation
// and phrase generation.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atomist-global-seeds/blockstack-browser/internal/client/repositories/recovery"
	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
	"github.com/google/uuid"
)

// Generator produces a fresh recovery phrase.
type Generator interface {
	Generate() (string, error)
}

// Encryptor protects a phrase under a passphrase and returns hex.
type Encryptor interface {
	Encrypt(phrase, passphrase string) (string, error)
}

// Dispatcher submits notifications. Errors are logged by the implementation
// and ignored by the machine.
type Dispatcher interface {
	DispatchEmailVerification(ctx context.Context, email string) error
	DispatchRecovery(ctx context.Context, identityName, email, encrypted string) error
	DispatchRestore(ctx context.Context, identityName, email, encrypted string) error
}

// Executor runs fire-and-forget tasks.
type Executor interface {
	Go(name string, fn func(ctx context.Context))
}

// TokenVerifier checks that a verification token was issued for an email.
type TokenVerifier interface {
	Verify(email, token string) error
}

// Deps are the collaborators of a Machine. Verifier is optional; when nil,
// Resume trusts the email it is given.
type Deps struct {
	Generator  Generator
	Encryptor  Encryptor
	Store      recovery.Store
	Dispatcher Dispatcher
	Executor   Executor
	Router     Router
	Verifier   TokenVerifier
	Logger     logging.Logger
}

// Machine drives one onboarding session. Transitions are serialized.
type Machine struct {
	mu      sync.Mutex
	session Session
	deps    Deps
	logger  logging.Logger
}

func NewMachine(deps Deps) *Machine {
	id := uuid.New()
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Machine{
		session: Session{ID: id, Step: StepEmail},
		deps:    deps,
		logger:  logger.With("session", id.String()),
	}
}

// Step returns the current step.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Step
}

// Session returns a copy of the session, secrets included.
func (m *Machine) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// RecoveryPhrase returns the generated phrase once HOORAY has been reached.
func (m *Machine) RecoveryPhrase() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.RecoveryPhrase, m.session.RecoveryPhrase != ""
}

// Resume starts a fresh session at PASSWORD for an email verified out of
// band, typically by following the verification link.
func (m *Machine) Resume(ctx context.Context, verifiedEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.expect(StepEmail, "resume"); err != nil {
		return err
	}

	email := strings.TrimSpace(verifiedEmail)
	if !validEmail(email) {
		return fmt.Errorf("%w: email %q is not a valid address", common.ErrValidation, verifiedEmail)
	}
	if m.deps.Verifier != nil {
		if err := m.deps.Verifier.Verify(email, token); err != nil {
			m.logger.Warn(ctx, "verification token rejected", "email", email, "error", err)
			return fmt.Errorf("resume %s: %w", email, err)
		}
	}

	m.session.Email = email
	m.logger.Info(ctx, "session resumed from verification link", "email", email)
	m.advance(StepPassword)
	return nil
}

// SubmitEmail records the contact email, requests a verification
// notification and moves to EMAIL_VERIFY.
func (m *Machine) SubmitEmail(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.expect(StepEmail, "submit email"); err != nil {
		return err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if !validEmail(email) {
		return fmt.Errorf("%w: email %q is not a valid address", common.ErrValidation, email)
	}

	m.session.Email = email
	m.sendVerification(email)
	m.advance(StepEmailVerify)
	return nil
}

// ResendVerification requests another verification notification for the
// stored email.
func (m *Machine) ResendVerification(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.expect(StepEmailVerify, "resend verification"); err != nil {
		return err
	}
	m.logger.Info(ctx, "verification resend requested", "email", m.session.Email)
	m.sendVerification(m.session.Email)
	return nil
}

// ConfirmEmailVerified moves from EMAIL_VERIFY to PASSWORD.
func (m *Machine) ConfirmEmailVerified(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.expect(StepEmailVerify, "confirm email"); err != nil {
		return err
	}
	m.advance(StepPassword)
	return nil
}

// SubmitPassword stores the passphrase and moves to USERNAME. The default
// identity name is derived from the email unless one was already chosen.
func (m *Machine) SubmitPassword(ctx context.Context, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.expect(StepPassword, "submit password"); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	m.session.Passphrase = password
	if m.session.IdentityName == "" {
		m.session.IdentityName = DeriveIdentityName(m.session.Email)
	}
	m.advance(StepUsername)
	return nil
}

// SubmitIdentityName finalizes the identity name, generates the recovery
// phrase and moves to HOORAY. A blank name keeps the current one. At HOORAY
// the call is a no-op, so the phrase is generated at most once.
func (m *Machine) SubmitIdentityName(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Step == StepHooray {
		return nil
	}
	if err := m.expect(StepUsername, "submit identity name"); err != nil {
		return err
	}

	if name = strings.TrimSpace(name); name != "" {
		m.session.IdentityName = name
	}
	if m.session.IdentityName == "" {
		return fmt.Errorf("%w: identity name is required", common.ErrValidation)
	}

	if m.session.RecoveryPhrase == "" {
		phrase, err := m.deps.Generator.Generate()
		if err != nil {
			m.logger.Error(ctx, "recovery phrase generation failed", "error", err)
			if !errors.Is(err, common.ErrEntropySource) {
				err = fmt.Errorf("%w: %w", common.ErrEntropySource, err)
			}
			return fmt.Errorf("generate recovery phrase: %w", err)
		}
		m.session.RecoveryPhrase = phrase
		m.startPipeline(m.session.IdentityName, m.session.Email, m.session.Passphrase, phrase)
	}

	m.advance(StepHooray)
	return nil
}

// Previous goes back from USERNAME to PASSWORD, keeping every value entered
// so far.
func (m *Machine) Previous(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.expect(StepUsername, "go back"); err != nil {
		return err
	}
	m.advance(StepPassword)
	return nil
}

func (m *Machine) expect(step Step, op string) error {
	if m.session.Step != step {
		return fmt.Errorf("%w: cannot %s at %s", common.ErrInvalidTransition, op, m.session.Step)
	}
	return nil
}

// advance sets the step and navigates unless the router is already there.
func (m *Machine) advance(step Step) {
	from := m.session.Step
	m.session.Step = step
	m.logger.Debug(context.Background(), "step changed", "from", from.String(), "to", step.String())

	if m.deps.Router == nil {
		return
	}
	if path := step.Path(); m.deps.Router.Location() != path {
		m.deps.Router.Push(path)
	}
}

func (m *Machine) sendVerification(email string) {
	d := m.deps.Dispatcher
	m.deps.Executor.Go("dispatch-verification", func(ctx context.Context) {
		_ = d.DispatchEmailVerification(ctx, email)
	})
}

// startPipeline encrypts the phrase and, once the ciphertext exists, stores
// it and sends the recovery and restore notifications. The three follow-ups
// are independent of each other.
func (m *Machine) startPipeline(identityName, email, passphrase, phrase string) {
	deps := m.deps
	logger := m.logger

	deps.Executor.Go("encrypt", func(ctx context.Context) {
		encrypted, err := deps.Encryptor.Encrypt(phrase, passphrase)
		if err != nil {
			if !errors.Is(err, common.ErrEncryption) {
				err = fmt.Errorf("%w: %w", common.ErrEncryption, err)
			}
			logger.Error(ctx, "recovery phrase encryption failed", "identity", identityName, "error", err)
			return
		}
		logger.Debug(ctx, "recovery phrase encrypted", "identity", identityName, "bytes", len(encrypted)/2)

		deps.Executor.Go("store-recovery", func(ctx context.Context) {
			if err := deps.Store.Append(ctx, identityName, encrypted); err != nil {
				logger.Error(ctx, "recovery record not cached", "identity", identityName, "error", err)
			}
		})
		deps.Executor.Go("dispatch-recovery", func(ctx context.Context) {
			_ = deps.Dispatcher.DispatchRecovery(ctx, identityName, email, encrypted)
		})
		deps.Executor.Go("dispatch-restore", func(ctx context.Context) {
			_ = deps.Dispatcher.DispatchRestore(ctx, identityName, email, encrypted)
		})
	})
}
