// Package webhook implements the store driver against an automation-platform
// webhook instead of a relational database. Every operation is forwarded as
// an action request; the platform's workflows own the actual storage. This
// is the compatibility path for deployments that route all data access
// through their automation tooling.
package webhook

import (
	"context"
	"database/sql"

	"github.com/reviewpulse/reviewpulse/internal/profile"
	"github.com/reviewpulse/reviewpulse/store"
)

// Driver forwards store operations to the webhook client.
type Driver struct {
	client *Client
}

// NewDriver creates the webhook-backed store driver. Construction fails when
// the webhook URL is absent from the profile.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	client, err := NewClient(profile.WebhookURL, profile.WebhookAuthHeader, profile.WebhookAuthToken)
	if err != nil {
		return nil, err
	}
	return &Driver{client: client}, nil
}

// GetDB returns nil; there is no local database behind this driver.
func (*Driver) GetDB() *sql.DB {
	return nil
}

func (*Driver) Close() error {
	return nil
}

// IsInitialized always reports true; the automation platform owns its own
// schema and the local migrator has nothing to do.
func (*Driver) IsInitialized(context.Context) (bool, error) {
	return true, nil
}
