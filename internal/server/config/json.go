package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/guestwifi/internal/flagx"
	"github.com/dmitrijs2005/guestwifi/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent or empty
// fields leave the current value untouched.
type JsonConfig struct {
	HTTPAddr string `json:"http_addr"`
	LogLevel string `json:"log_level"`

	StoreBackend        string `json:"store_backend"`
	DatabaseDSN         string `json:"database_dsn"`
	AWSRegion           string `json:"aws_region"`
	AWSEndpoint         string `json:"aws_endpoint"`
	AWSAccessKeyID      string `json:"aws_access_key_id"`
	AWSSecretAccessKey  string `json:"aws_secret_access_key"`
	DevicesTable        string `json:"devices_table"`
	UsersTable          string `json:"users_table"`
	AccessRequestsTable string `json:"access_requests_table"`

	MerakiBaseURL        string         `json:"meraki_base_url"`
	MerakiOrganizationID string         `json:"meraki_organization_id"`
	MerakiNetworkID      string         `json:"meraki_network_id"`
	WebexBaseURL         string         `json:"webex_base_url"`
	WebhookTargetURL     string         `json:"webhook_target_url"`
	MaxAttempts          int            `json:"max_attempts"`
	RequestTimeout       timex.Duration `json:"request_timeout"`

	Segments      string         `json:"segments"`
	GrantDuration timex.Duration `json:"grant_duration"`

	SecretsBackend    string `json:"secrets_backend"`
	MerakiAPIKeyParam string `json:"meraki_api_key_param"`
	WebexTokenParam   string `json:"webex_token_param"`
	MerakiAPIKey      string `json:"meraki_api_key"`
	WebexToken        string `json:"webex_token"`

	JWTSecret              string `json:"jwt_secret"`
	VerifyWebhookSignature *bool  `json:"verify_webhook_signature"`

	NATSURL           string `json:"nats_url"`
	NATSSubjectPrefix string `json:"nats_subject_prefix"`
	MetricsEnabled    *bool  `json:"metrics_enabled"`
}

// parseJson overlays values from the file named by -c / -config. Without
// the flag nothing is loaded. An unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AWSRegion, c.AWSRegion)
	setString(&config.AWSEndpoint, c.AWSEndpoint)
	setString(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	setString(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	setString(&config.DevicesTable, c.DevicesTable)
	setString(&config.UsersTable, c.UsersTable)
	setString(&config.AccessRequestsTable, c.AccessRequestsTable)
	setString(&config.MerakiBaseURL, c.MerakiBaseURL)
	setString(&config.MerakiOrganizationID, c.MerakiOrganizationID)
	setString(&config.MerakiNetworkID, c.MerakiNetworkID)
	setString(&config.WebexBaseURL, c.WebexBaseURL)
	setString(&config.WebhookTargetURL, c.WebhookTargetURL)
	setString(&config.SecretsBackend, c.SecretsBackend)
	setString(&config.MerakiAPIKeyParam, c.MerakiAPIKeyParam)
	setString(&config.WebexTokenParam, c.WebexTokenParam)
	setString(&config.MerakiAPIKey, c.MerakiAPIKey)
	setString(&config.WebexToken, c.WebexToken)
	setString(&config.JWTSecret, c.JWTSecret)
	setString(&config.NATSURL, c.NATSURL)
	setString(&config.NATSSubjectPrefix, c.NATSSubjectPrefix)

	if c.MaxAttempts > 0 {
		config.MaxAttempts = c.MaxAttempts
	}
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.GrantDuration.Duration > 0 {
		config.GrantDuration = c.GrantDuration.Duration
	}
	if c.Segments != "" {
		segments, err := ParseSegments(c.Segments)
		if err != nil {
			panic(err)
		}
		config.Segments = segments
	}
	if c.VerifyWebhookSignature != nil {
		config.VerifyWebhookSignature = *c.VerifyWebhookSignature
	}
	if c.MetricsEnabled != nil {
		config.MetricsEnabled = *c.MetricsEnabled
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
