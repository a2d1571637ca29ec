package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/techelevate/platform/internal/flagx"
	"github.com/techelevate/platform/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept "15m" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	EndpointAddrGRPC string `json:"endpoint_addr_grpc"`
	DatabaseDSN      string `json:"database_dsn"`
	LogFormat        string `json:"log_format"`

	SecretKey      string         `json:"secret_key"`
	TokenIssuer    string         `json:"token_issuer"`
	AccessTokenTTL timex.Duration `json:"access_token_ttl"`
	BcryptCost     int            `json:"bcrypt_cost"`

	RevocationStore string `json:"revocation_store"`
	RedisAddr       string `json:"redis_addr"`
	RedisPassword   string `json:"redis_password"`
	RedisDB         int    `json:"redis_db"`

	MailProvider   string `json:"mail_provider"`
	MailFrom       string `json:"mail_from"`
	MailgunDomain  string `json:"mailgun_domain"`
	MailgunAPIKey  string `json:"mailgun_api_key"`
	SendGridAPIKey string `json:"sendgrid_api_key"`
	MailBreaker    *bool  `json:"mail_breaker"`

	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3PresignExpiry timex.Duration `json:"s3_presign_expiry"`
}

// parseJson overlays the file named by -c/-config onto config. A missing or
// invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}
	if err := loadJSONFile(config, jsonConfigFile); err != nil {
		panic(err)
	}
}

// loadJSONFile overlays path onto config. Keys absent from the file keep
// their current value.
func loadJSONFile(config *Config, path string) error {
	c := &JsonConfig{}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenIssuer, c.TokenIssuer)
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(&config.RevocationStore, c.RevocationStore)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != 0 {
		config.RedisDB = c.RedisDB
	}
	setString(&config.MailProvider, c.MailProvider)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.MailgunDomain, c.MailgunDomain)
	setString(&config.MailgunAPIKey, c.MailgunAPIKey)
	setString(&config.SendGridAPIKey, c.SendGridAPIKey)
	if c.MailBreaker != nil {
		config.MailBreaker = *c.MailBreaker
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3PresignExpiry.Duration != 0 {
		config.S3PresignExpiry = c.S3PresignExpiry.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
