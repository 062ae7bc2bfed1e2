package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/guestwifi/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-s string   record store backend: memory, dynamodb or postgres
//	-d string   PostgreSQL DSN
//	-g string   AWS region
//	-e string   AWS endpoint override (e.g., DynamoDB Local)
//	-m string   Meraki API base URL
//	-o string   Meraki organization id
//	-n string   Meraki network id
//	-w string   Webex API base URL
//	-t string   public URL Webex posts card actions to
//	-x string   segments, e.g. "0:Guest,1:802.1X"
//	-l int      default grant duration, minutes
//	-r int      upstream attempts per call (429 only)
//	-k string   JWT secret for the device endpoints
//	-q string   NATS URL for lifecycle events
//
// Durations are taken as whole minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-g", "-e", "-m", "-o", "-n", "-w", "-t", "-x", "-l", "-r", "-k", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AWSRegion, "g", config.AWSRegion, "AWS region")
	fs.StringVar(&config.AWSEndpoint, "e", config.AWSEndpoint, "AWS endpoint")
	fs.StringVar(&config.MerakiBaseURL, "m", config.MerakiBaseURL, "Meraki API base URL")
	fs.StringVar(&config.MerakiOrganizationID, "o", config.MerakiOrganizationID, "Meraki organization id")
	fs.StringVar(&config.MerakiNetworkID, "n", config.MerakiNetworkID, "Meraki network id")
	fs.StringVar(&config.WebexBaseURL, "w", config.WebexBaseURL, "Webex API base URL")
	fs.StringVar(&config.WebhookTargetURL, "t", config.WebhookTargetURL, "webhook target URL")

	segments := fs.String("x", FormatSegments(config.Segments), "network segments")
	grantDuration := fs.Int("l", int(config.GrantDuration.Minutes()), "grant duration (in minutes)")

	fs.IntVar(&config.MaxAttempts, "r", config.MaxAttempts, "upstream attempts")
	fs.StringVar(&config.JWTSecret, "k", config.JWTSecret, "JWT secret")
	fs.StringVar(&config.NATSURL, "q", config.NATSURL, "NATS URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	parsed, err := ParseSegments(*segments)
	if err != nil {
		panic(err)
	}
	config.Segments = parsed
	config.GrantDuration = time.Duration(*grantDuration) * time.Minute
}
