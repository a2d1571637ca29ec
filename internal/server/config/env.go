package config

import (
	"github.com/spf13/viper"
)

const envPrefix = "TECHELEVATE"

// parseEnv overlays TECHELEVATE_* variables, e.g. TECHELEVATE_DATABASE_DSN.
// Only variables that are set override the current value.
func parseEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	strs := map[string]*string{
		"http_addr":        &config.EndpointAddrHTTP,
		"grpc_addr":        &config.EndpointAddrGRPC,
		"database_dsn":     &config.DatabaseDSN,
		"log_format":       &config.LogFormat,
		"secret_key":       &config.SecretKey,
		"token_issuer":     &config.TokenIssuer,
		"revocation_store": &config.RevocationStore,
		"redis_addr":       &config.RedisAddr,
		"redis_password":   &config.RedisPassword,
		"mail_provider":    &config.MailProvider,
		"mail_from":        &config.MailFrom,
		"mailgun_domain":   &config.MailgunDomain,
		"mailgun_api_key":  &config.MailgunAPIKey,
		"sendgrid_api_key": &config.SendGridAPIKey,
		"s3_access_key":    &config.S3AccessKey,
		"s3_secret_key":    &config.S3SecretKey,
		"s3_bucket":        &config.S3Bucket,
		"s3_region":        &config.S3Region,
		"s3_base_endpoint": &config.S3BaseEndpoint,
	}
	for key, dst := range strs {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	if v.IsSet("access_token_ttl") {
		config.AccessTokenTTL = v.GetDuration("access_token_ttl")
	}
	if v.IsSet("s3_presign_expiry") {
		config.S3PresignExpiry = v.GetDuration("s3_presign_expiry")
	}
	if v.IsSet("bcrypt_cost") {
		config.BcryptCost = v.GetInt("bcrypt_cost")
	}
	if v.IsSet("redis_db") {
		config.RedisDB = v.GetInt("redis_db")
	}
	if v.IsSet("mail_breaker") {
		config.MailBreaker = v.GetBool("mail_breaker")
	}
}
