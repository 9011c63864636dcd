// Package db selects the datastore backend from configuration.
package db

import (
	"github.com/pkg/errors"

	"github.com/reviewpulse/reviewpulse/internal/profile"
	"github.com/reviewpulse/reviewpulse/store"
	"github.com/reviewpulse/reviewpulse/store/db/postgres"
	"github.com/reviewpulse/reviewpulse/store/db/sqlite"
	"github.com/reviewpulse/reviewpulse/store/webhook"
)

// NewDriver creates a new store driver based on the profile.
//
// sqlite and postgres talk to a local/hosted relational database directly;
// webhook forwards every operation to the configured automation-platform
// webhook and keeps no local state.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	case "webhook":
		driver, err = webhook.NewDriver(profile)
	default:
		return nil, errors.Errorf("unknown driver %q", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create store driver")
	}
	return driver, nil
}
