package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/flagx"
	"github.com/atomist-global-seeds/blockstack-browser/internal/timex"
)

// configEnvKey names the variable consulted when no -c/-config flag is given.
const configEnvKey = "ONBOARD_CONFIG"

// JsonConfig is the on-disk shape. Zero values keep the current setting, so
// a file only needs the keys it changes.
type JsonConfig struct {
	GatewayURL         string         `json:"gateway_url"`
	AppProtocol        string         `json:"app_protocol"`
	AppHost            string         `json:"app_host"`
	AppPort            string         `json:"app_port"`
	StoreBackend       string         `json:"store_backend"`
	StoreDSN           string         `json:"store_dsn"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Prefix           string         `json:"s3_prefix"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	VerificationSecret string         `json:"verification_secret"`
	VerificationTTL    timex.Duration `json:"verification_ttl"`
	DeliveryAttempts   int            `json:"delivery_attempts"`
	DeliveryBackoff    timex.Duration `json:"delivery_backoff"`
	DeliveryTimeout    timex.Duration `json:"delivery_timeout"`
	LogLevel           string         `json:"log_level"`
}

func parseJson(cfg *Config) {
	path := flagx.JsonConfigPath(configEnvKey)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.GatewayURL, jc.GatewayURL)
	setString(&cfg.AppProtocol, jc.AppProtocol)
	setString(&cfg.AppHost, jc.AppHost)
	setString(&cfg.AppPort, jc.AppPort)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.StoreDSN, jc.StoreDSN)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Prefix, jc.S3Prefix)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.VerificationSecret, jc.VerificationSecret)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.VerificationTTL, jc.VerificationTTL)
	setDuration(&cfg.DeliveryBackoff, jc.DeliveryBackoff)
	setDuration(&cfg.DeliveryTimeout, jc.DeliveryTimeout)
	if jc.DeliveryAttempts != 0 {
		cfg.DeliveryAttempts = jc.DeliveryAttempts
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
