package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where reviewpulse stores its own data
	DSN string
	// Driver is the datastore backend: "sqlite", "postgres" or "webhook"
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the public url of this reviewpulse instance
	InstanceURL string
	// Secret signs access tokens. Required in prod mode.
	Secret string

	// Webhook backend configuration. WebhookURL is required when Driver is
	// "webhook"; the auth header is optional.
	WebhookURL        string
	WebhookAuthHeader string
	WebhookAuthToken  string

	// Payment processor configuration.
	PaymentsAPIBaseURL    string
	PaymentsAPIKey        string
	PaymentsSigningSecret string

	// MetricsRefreshInterval is how often cached dashboard snapshots are
	// recomputed in the background.
	MetricsRefreshInterval time.Duration
}

// IsDev returns true unless the profile runs in prod mode.
func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Validate checks the profile and normalizes derived fields. Construction
// fails here, not lazily on first use, when required configuration is absent.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}

	switch p.Driver {
	case "sqlite":
		if p.DSN == "" {
			absDir, err := filepath.Abs(p.Data)
			if err != nil {
				return errors.Wrapf(err, "failed to resolve data directory %q", p.Data)
			}
			if err := os.MkdirAll(absDir, 0o755); err != nil {
				return errors.Wrapf(err, "failed to create data directory %q", absDir)
			}
			p.DSN = filepath.Join(absDir, fmt.Sprintf("reviewpulse_%s.db", p.Mode))
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn is required for the postgres driver")
		}
	case "webhook":
		if p.WebhookURL == "" {
			return errors.New("webhook-url is required for the webhook driver")
		}
	default:
		return errors.Errorf("unknown driver %q: only 'sqlite', 'postgres' and 'webhook' are supported", p.Driver)
	}

	if p.Mode == "prod" && p.Secret == "" {
		return errors.New("secret is required in prod mode")
	}
	if p.Secret == "" {
		p.Secret = "reviewpulse-dev"
	}
	if p.MetricsRefreshInterval <= 0 {
		p.MetricsRefreshInterval = 30 * time.Second
	}
	return nil
}

// FromViper builds a profile from the given viper instance. Flags, config
// file and REVIEWPULSE_* environment variables all land here.
func FromViper(v *viper.Viper, version string) (*Profile, error) {
	v.SetEnvPrefix("reviewpulse")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	profile := &Profile{
		Mode:                   v.GetString("mode"),
		Addr:                   v.GetString("addr"),
		Port:                   v.GetInt("port"),
		Data:                   v.GetString("data"),
		DSN:                    v.GetString("dsn"),
		Driver:                 v.GetString("driver"),
		InstanceURL:            v.GetString("instance-url"),
		Secret:                 v.GetString("secret"),
		WebhookURL:             v.GetString("webhook-url"),
		WebhookAuthHeader:      v.GetString("webhook-auth-header"),
		WebhookAuthToken:       v.GetString("webhook-auth-token"),
		PaymentsAPIBaseURL:     v.GetString("payments-api-base-url"),
		PaymentsAPIKey:         v.GetString("payments-api-key"),
		PaymentsSigningSecret:  v.GetString("payments-signing-secret"),
		MetricsRefreshInterval: v.GetDuration("metrics-refresh-interval"),
		Version:                version,
	}

	if err := profile.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}
	return profile, nil
}
