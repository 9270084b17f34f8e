package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate performs struct-tag and business-rule validation on the loaded
// configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if err := c.Notify.Timing().Validate(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	if c.Storage.Driver == DriverPostgres && c.Storage.Postgres.DSN == "" {
		return errors.New("storage.postgres.dsn is required when storage.driver is postgres")
	}
	if c.Storage.Driver == DriverBadger && c.Storage.Path == "" {
		return errors.New("storage.path is required when storage.driver is badger")
	}

	if c.Race.LeaderboardPollInterval < time.Second {
		return fmt.Errorf("race.leaderboard_poll_interval must be at least 1s (got %v)", c.Race.LeaderboardPollInterval)
	}

	if c.Progression.Timezone != "" {
		if _, err := time.LoadLocation(c.Progression.Timezone); err != nil {
			return fmt.Errorf("progression.timezone: %w", err)
		}
	}

	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
