package config

import (
	"os"
	"strconv"
	"time"
)

const envPrefix = "GUESTWIFI_"

// parseEnv overlays GUESTWIFI_* environment variables. Unparsable numeric,
// boolean or duration values panic, like a malformed config file.
func parseEnv(config *Config) {
	applyEnv(config, os.LookupEnv)
}

func applyEnv(config *Config, lookup func(string) (string, bool)) {
	stringVars := map[string]*string{
		"HTTP_ADDR":              &config.HTTPAddr,
		"LOG_LEVEL":              &config.LogLevel,
		"STORE_BACKEND":          &config.StoreBackend,
		"DATABASE_DSN":           &config.DatabaseDSN,
		"AWS_REGION":             &config.AWSRegion,
		"AWS_ENDPOINT":           &config.AWSEndpoint,
		"AWS_ACCESS_KEY_ID":      &config.AWSAccessKeyID,
		"AWS_SECRET_ACCESS_KEY":  &config.AWSSecretAccessKey,
		"DEVICES_TABLE":          &config.DevicesTable,
		"USERS_TABLE":            &config.UsersTable,
		"ACCESS_REQUESTS_TABLE":  &config.AccessRequestsTable,
		"MERAKI_BASE_URL":        &config.MerakiBaseURL,
		"MERAKI_ORGANIZATION_ID": &config.MerakiOrganizationID,
		"MERAKI_NETWORK_ID":      &config.MerakiNetworkID,
		"WEBEX_BASE_URL":         &config.WebexBaseURL,
		"WEBHOOK_TARGET_URL":     &config.WebhookTargetURL,
		"SECRETS_BACKEND":        &config.SecretsBackend,
		"MERAKI_API_KEY_PARAM":   &config.MerakiAPIKeyParam,
		"WEBEX_TOKEN_PARAM":      &config.WebexTokenParam,
		"MERAKI_API_KEY":         &config.MerakiAPIKey,
		"WEBEX_TOKEN":            &config.WebexToken,
		"JWT_SECRET":             &config.JWTSecret,
		"NATS_URL":               &config.NATSURL,
		"NATS_SUBJECT_PREFIX":    &config.NATSSubjectPrefix,
	}
	for name, dst := range stringVars {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "MAX_ATTEMPTS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.MaxAttempts = n
	}
	if v, ok := lookup(envPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		config.RequestTimeout = mustDuration(v)
	}
	if v, ok := lookup(envPrefix + "GRANT_DURATION"); ok && v != "" {
		config.GrantDuration = mustDuration(v)
	}
	if v, ok := lookup(envPrefix + "SEGMENTS"); ok && v != "" {
		segments, err := ParseSegments(v)
		if err != nil {
			panic(err)
		}
		config.Segments = segments
	}
	if v, ok := lookup(envPrefix + "VERIFY_WEBHOOK_SIGNATURE"); ok && v != "" {
		config.VerifyWebhookSignature = mustBool(v)
	}
	if v, ok := lookup(envPrefix + "METRICS_ENABLED"); ok && v != "" {
		config.MetricsEnabled = mustBool(v)
	}
}

func mustDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}

func mustBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	return b
}
