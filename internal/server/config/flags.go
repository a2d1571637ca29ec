package config

import (
	"flag"
	"os"
	"time"

	"github.com/techelevate/platform/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-s", "-t", "-l", "-r", "-m", "-b", "-e"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-g string   gRPC ops bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      access token TTL, minutes
//	-l string   log format: json, text or logrus
//	-r string   revocation store: postgres, redis or memory
//	-m string   mail provider: log, mailgun or sendgrid
//	-b string   S3 bucket for profile pictures
//	-e string   S3 base endpoint
//
// os.Args is filtered first so flags owned by other components do not
// cause a parse error.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC ops address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")

	ttl := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token TTL (in minutes)")

	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format")
	fs.StringVar(&config.RevocationStore, "r", config.RevocationStore, "revocation store")
	fs.StringVar(&config.MailProvider, "m", config.MailProvider, "mail provider")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
}
