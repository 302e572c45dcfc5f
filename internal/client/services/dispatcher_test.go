package services

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/auth"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/models"
	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu           sync.Mutex
	verification []models.VerificationRequest
	recovery     []models.RecoveryRequest
	restore      []models.RestoreRequest
	failures     int
	err          error
}

func (g *fakeGateway) fail() error {
	if g.failures != 0 {
		if g.failures > 0 {
			g.failures--
		}
		return g.err
	}
	return nil
}

func (g *fakeGateway) SendVerification(_ context.Context, req models.VerificationRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verification = append(g.verification, req)
	return g.fail()
}

func (g *fakeGateway) SendRecovery(_ context.Context, req models.RecoveryRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recovery = append(g.recovery, req)
	return g.fail()
}

func (g *fakeGateway) SendRestore(_ context.Context, req models.RestoreRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.restore = append(g.restore, req)
	return g.fail()
}

var devOrigin = Origin{Protocol: "http:", Host: "localhost", Port: "8888"}

func TestDispatchEmailVerification(t *testing.T) {
	gw := &fakeGateway{}
	d := NewRecoveryDispatcher(gw, DispatcherConfig{Origin: devOrigin}, logging.NewNop())

	require.NoError(t, d.DispatchEmailVerification(context.Background(), "a@b.co"))

	require.Len(t, gw.verification, 1)
	assert.Equal(t, models.VerificationRequest{
		Email:                 "a@b.co",
		EmailVerificationLink: "http://localhost:8888/sign-up?verified=a@b.co",
	}, gw.verification[0])
}

func TestDispatchEmailVerification_Signed(t *testing.T) {
	gw := &fakeGateway{}
	v := auth.NewVerifier("s3cret", time.Hour)
	d := NewRecoveryDispatcher(gw, DispatcherConfig{Origin: devOrigin, Verifier: v}, logging.NewNop())

	require.NoError(t, d.DispatchEmailVerification(context.Background(), "a@b.co"))
	require.Len(t, gw.verification, 1)

	u, err := url.Parse(gw.verification[0].EmailVerificationLink)
	require.NoError(t, err)
	assert.Equal(t, "/sign-up", u.Path)
	assert.Equal(t, "a@b.co", u.Query().Get("verified"))
	require.NoError(t, v.Verify("a@b.co", u.Query().Get("token")))
}

func TestDispatchRecoveryAndRestore(t *testing.T) {
	gw := &fakeGateway{}
	d := NewRecoveryDispatcher(gw, DispatcherConfig{Origin: devOrigin}, logging.NewNop())
	ctx := context.Background()

	require.NoError(t, d.DispatchRecovery(ctx, "alice", "alice@example.com", "abcd"))
	require.NoError(t, d.DispatchRestore(ctx, "alice", "alice@example.com", "abcd"))

	assert.Equal(t, []models.RecoveryRequest{{
		Email:        "alice@example.com",
		SeedRecovery: "http://localhost:8888/seed?encrypted=abcd",
		BlockstackID: "alice",
	}}, gw.recovery)
	assert.Equal(t, []models.RestoreRequest{{
		Email:        "alice@example.com",
		RestoreLink:  "http://localhost:8888/sign-in?seed=abcd",
		BlockstackID: "alice",
	}}, gw.restore)
}

func TestDispatch_FailureIsDeliveryError(t *testing.T) {
	gw := &fakeGateway{failures: -1, err: errors.New("502 Bad Gateway")}
	d := NewRecoveryDispatcher(gw, DispatcherConfig{Origin: devOrigin}, logging.NewNop())

	err := d.DispatchRecovery(context.Background(), "alice", "alice@example.com", "abcd")
	require.ErrorIs(t, err, common.ErrDelivery)
	assert.Len(t, gw.recovery, 1, "default is a single attempt")
}

func TestDispatch_RetriesWithLinearBackoff(t *testing.T) {
	gw := &fakeGateway{failures: 2, err: errors.New("unavailable")}
	d := NewRecoveryDispatcher(gw, DispatcherConfig{Origin: devOrigin, Attempts: 3, Backoff: time.Second}, logging.NewNop())

	var slept []time.Duration
	d.sleep = func(_ context.Context, dur time.Duration) error {
		slept = append(slept, dur)
		return nil
	}

	require.NoError(t, d.DispatchRestore(context.Background(), "bob", "bob@example.com", "ff"))
	assert.Len(t, gw.restore, 3)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}

func TestDispatch_RetryStopsOnCancel(t *testing.T) {
	gw := &fakeGateway{failures: -1, err: errors.New("unavailable")}
	d := NewRecoveryDispatcher(gw, DispatcherConfig{Origin: devOrigin, Attempts: 5, Backoff: time.Hour}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.DispatchEmailVerification(ctx, "a@b.co")
	require.ErrorIs(t, err, common.ErrDelivery)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, gw.verification, 1)
}

func TestDispatch_UnknownKindIsNotSent(t *testing.T) {
	gw := &fakeGateway{}
	d := NewRecoveryDispatcher(gw, DispatcherConfig{Origin: devOrigin, Attempts: 3, Backoff: time.Second}, logging.NewNop())
	d.sleep = func(context.Context, time.Duration) error {
		t.Fatal("unknown kind must not be retried")
		return nil
	}

	err := d.deliver(context.Background(), models.Dispatch{Kind: "sms", TargetEmail: "a@b.co", Link: "http://x"})
	require.ErrorIs(t, err, common.ErrDelivery)
	require.ErrorIs(t, err, errUnknownKind)
	assert.Empty(t, gw.verification)
	assert.Empty(t, gw.recovery)
	assert.Empty(t, gw.restore)
}
