// Package services holds the client-side services the onboarding machine
// drives. The recovery dispatcher turns verification and recovery events into
// links and submits them to the notification gateway.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/auth"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/client"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/models"
	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
)

var errUnknownKind = errors.New("unknown dispatch kind")

// DispatcherConfig tunes link building and delivery.
type DispatcherConfig struct {
	Origin Origin
	// Verifier signs verification links when non-nil.
	Verifier *auth.Verifier
	// Attempts is the number of submissions per dispatch; values below 1
	// mean a single attempt.
	Attempts int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
}

// RecoveryDispatcher submits verification, recovery and restore
// notifications. Every failure is logged and returned wrapped in
// common.ErrDelivery; callers on the onboarding path are expected to drop it.
type RecoveryDispatcher struct {
	gateway client.Gateway
	cfg     DispatcherConfig
	logger  logging.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewRecoveryDispatcher(gateway client.Gateway, cfg DispatcherConfig, logger logging.Logger) *RecoveryDispatcher {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &RecoveryDispatcher{
		gateway: gateway,
		cfg:     cfg,
		logger:  logger.With("component", "dispatcher"),
		sleep:   sleepCtx,
	}
}

// DispatchEmailVerification sends the verification link for email.
func (d *RecoveryDispatcher) DispatchEmailVerification(ctx context.Context, email string) error {
	var token string
	if d.cfg.Verifier != nil {
		t, err := d.cfg.Verifier.Issue(email)
		if err != nil {
			d.logger.Error(ctx, "cannot sign verification link", "email", email, "error", err)
			return fmt.Errorf("%w: sign verification link: %w", common.ErrDelivery, err)
		}
		token = t
	}

	return d.deliver(ctx, models.Dispatch{
		Kind:        models.DispatchEmailVerification,
		TargetEmail: email,
		Link:        VerificationLink(d.cfg.Origin, email, token),
	})
}

// DispatchRecovery sends the link that lets the user recover the phrase
// from its ciphertext.
func (d *RecoveryDispatcher) DispatchRecovery(ctx context.Context, identityName, email, encrypted string) error {
	return d.deliver(ctx, models.Dispatch{
		Kind:         models.DispatchRecovery,
		TargetEmail:  email,
		Link:         RecoveryLink(d.cfg.Origin, encrypted),
		IdentityName: identityName,
	})
}

// DispatchRestore sends the sign-in link that restores the identity on a
// new device.
func (d *RecoveryDispatcher) DispatchRestore(ctx context.Context, identityName, email, encrypted string) error {
	return d.deliver(ctx, models.Dispatch{
		Kind:         models.DispatchRestore,
		TargetEmail:  email,
		Link:         RestoreLink(d.cfg.Origin, encrypted),
		IdentityName: identityName,
	})
}

func (d *RecoveryDispatcher) deliver(ctx context.Context, dispatch models.Dispatch) error {
	var err error
	for attempt := 1; attempt <= d.cfg.Attempts; attempt++ {
		if err = d.send(ctx, dispatch); err == nil {
			d.logger.Info(ctx, "dispatch sent",
				"kind", dispatch.Kind, "email", dispatch.TargetEmail, "attempt", attempt)
			return nil
		}

		if errors.Is(err, errUnknownKind) {
			break
		}
		d.logger.Warn(ctx, "dispatch attempt failed",
			"kind", dispatch.Kind, "email", dispatch.TargetEmail, "attempt", attempt, "error", err)

		if attempt < d.cfg.Attempts {
			if serr := d.sleep(ctx, d.cfg.Backoff*time.Duration(attempt)); serr != nil {
				err = serr
				break
			}
		}
	}

	d.logger.Error(ctx, "dispatch failed", "kind", dispatch.Kind, "email", dispatch.TargetEmail, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrDelivery, dispatch.Kind, err)
}

func (d *RecoveryDispatcher) send(ctx context.Context, dispatch models.Dispatch) error {
	switch p := dispatch.Payload().(type) {
	case models.RecoveryRequest:
		return d.gateway.SendRecovery(ctx, p)
	case models.RestoreRequest:
		return d.gateway.SendRestore(ctx, p)
	case models.VerificationRequest:
		return d.gateway.SendVerification(ctx, p)
	default:
		return fmt.Errorf("%w %q", errUnknownKind, dispatch.Kind)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
