package config

import (
	"fmt"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
)

const (
	StoreSQLite = "sqlite"
	StoreS3     = "s3"
)

// Config holds runtime settings for the onboarding wizard.
//
// Fields:
//   - GatewayURL: base URL of the notification gateway.
//   - AppProtocol / AppHost / AppPort: origin embedded in emailed links.
//   - StoreBackend: "sqlite" (StoreDSN is the database file) or "s3".
//   - S3*: bucket settings for the s3 backend.
//   - VerificationSecret: HS256 key for signed verification links; empty
//     disables signing.
//   - DeliveryAttempts / DeliveryBackoff / DeliveryTimeout: gateway retry.
//   - ResumeEmail / ResumeToken: start at PASSWORD for an email verified
//     through a link.
type Config struct {
	GatewayURL string `env:"ONBOARD_GATEWAY_URL"`

	AppProtocol string `env:"ONBOARD_APP_PROTOCOL"`
	AppHost     string `env:"ONBOARD_APP_HOST"`
	AppPort     string `env:"ONBOARD_APP_PORT"`

	StoreBackend string `env:"ONBOARD_STORE"`
	StoreDSN     string `env:"ONBOARD_STORE_DSN"`

	S3Bucket       string `env:"ONBOARD_S3_BUCKET"`
	S3Prefix       string `env:"ONBOARD_S3_PREFIX"`
	S3Region       string `env:"ONBOARD_S3_REGION"`
	S3BaseEndpoint string `env:"ONBOARD_S3_BASE_ENDPOINT"`
	S3AccessKey    string `env:"ONBOARD_S3_ACCESS_KEY"`
	S3SecretKey    string `env:"ONBOARD_S3_SECRET_KEY"`

	VerificationSecret string        `env:"ONBOARD_VERIFICATION_SECRET"`
	VerificationTTL    time.Duration `env:"ONBOARD_VERIFICATION_TTL"`

	DeliveryAttempts int           `env:"ONBOARD_DELIVERY_ATTEMPTS"`
	DeliveryBackoff  time.Duration `env:"ONBOARD_DELIVERY_BACKOFF"`
	DeliveryTimeout  time.Duration `env:"ONBOARD_DELIVERY_TIMEOUT"`

	ResumeEmail string `env:"ONBOARD_RESUME_EMAIL"`
	ResumeToken string `env:"ONBOARD_RESUME_TOKEN"`

	LogLevel string `env:"ONBOARD_LOG_LEVEL"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.GatewayURL = "https://obscure-retreat-87934.herokuapp.com"
	c.AppProtocol = "http:"
	c.AppHost = "localhost"
	c.AppPort = "8888"
	c.StoreBackend = StoreSQLite
	c.StoreDSN = "onboarding.db"
	c.S3Prefix = "onboarding/"
	c.S3Region = "us-east-1"
	c.VerificationTTL = 24 * time.Hour
	c.DeliveryAttempts = 1
	c.DeliveryBackoff = 2 * time.Second
	c.DeliveryTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSQLite:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: sqlite store needs a DSN", common.ErrValidation)
		}
	case StoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("%w: s3 store needs a bucket", common.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", common.ErrValidation, c.StoreBackend)
	}
	if c.GatewayURL == "" {
		return fmt.Errorf("%w: gateway URL is required", common.ErrValidation)
	}
	if c.DeliveryAttempts < 1 {
		return fmt.Errorf("%w: delivery attempts must be at least 1", common.ErrValidation)
	}
	return nil
}

// LoadConfig applies defaults, then the JSON file, then the environment and
// finally command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
