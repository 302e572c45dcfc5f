package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/auth"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/client"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/config"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/onboarding"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/repositories/kv"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/repositories/recovery"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/services"
	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/atomist-global-seeds/blockstack-browser/internal/cryptox"
	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
	"github.com/atomist-global-seeds/blockstack-browser/internal/workqueue"
)

// encryptAllowance covers the argon2 derivation that precedes any
// recovery notification.
const encryptAllowance = 10 * time.Second

type App struct {
	config  *config.Config
	machine *onboarding.Machine
	queue   *workqueue.Queue
	store   recovery.Store
	sealer  *cryptox.Sealer
	reader  *bufio.Reader
	out     io.Writer
	logger  logging.Logger
	closers []func() error

	drainTimeout time.Duration
}

// NewApp opens the recovery cache named by c and assembles the onboarding
// machine around it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, "text", c.LogLevel)

	repo, closer, err := openRepository(ctx, c)
	if err != nil {
		logger.Error(ctx, "cannot open recovery cache", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	store := recovery.NewKVStore(repo, logger)
	queue := workqueue.New(logger)
	sealer := cryptox.NewSealer()

	dcfg := services.DispatcherConfig{
		Origin:   services.Origin{Protocol: c.AppProtocol, Host: c.AppHost, Port: c.AppPort},
		Attempts: c.DeliveryAttempts,
		Backoff:  c.DeliveryBackoff,
	}
	deps := onboarding.Deps{
		Generator: cryptox.NewPhraseGenerator(),
		Encryptor: sealer,
		Store:     store,
		Executor:  queue,
		Router:    onboarding.NewHistoryRouter(common.SignUpPath),
		Logger:    logger,
	}
	if c.VerificationSecret != "" {
		v := auth.NewVerifier(c.VerificationSecret, c.VerificationTTL)
		dcfg.Verifier = v
		deps.Verifier = v
	}
	gateway := client.NewHTTPGateway(c.GatewayURL, c.DeliveryTimeout)
	deps.Dispatcher = services.NewRecoveryDispatcher(gateway, dcfg, logger)

	return &App{
		config:       c,
		machine:      onboarding.NewMachine(deps),
		queue:        queue,
		store:        store,
		sealer:       sealer,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
		logger:       logger,
		closers:      []func() error{closer},
		drainTimeout: drainTimeout(c),
	}, nil
}

func openRepository(ctx context.Context, c *config.Config) (kv.Repository, func() error, error) {
	switch c.StoreBackend {
	case config.StoreS3:
		repo, err := kv.NewS3Repository(ctx, kv.S3Config{
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return nil }, nil
	default:
		db, err := client.InitDatabase(ctx, c.StoreDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", c.StoreDSN, err)
		}
		return kv.NewSQLiteRepository(db), db.Close, nil
	}
}

// drainTimeout bounds the wait for background work: one encryption plus
// every delivery attempt and the backoff between them.
func drainTimeout(c *config.Config) time.Duration {
	n := time.Duration(c.DeliveryAttempts)
	return encryptAllowance + n*c.DeliveryTimeout + n*(n-1)/2*c.DeliveryBackoff
}

// Run dispatches to a one-shot command when args ask for one and to the
// wizard otherwise.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd, err := parseCommand(args)
	if err != nil {
		return err
	}

	switch {
	case cmd.records:
		return a.ListRecords(ctx)
	case cmd.reveal != "":
		return a.Reveal(ctx, cmd.reveal)
	default:
		return a.Root(ctx)
	}
}

// Close releases the recovery cache.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
