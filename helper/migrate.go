package helper

//nolint:revive
import (
	"dogwalking/config"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
	ActionForce   = "force"
)

var ErrUnknownAction = errors.New("unknown migration action")

func databaseURL(cfg *config.Config) string {
	pg := cfg.DB.Postgres
	name := pg.Prefix + pg.Write.Name

	query := url.Values{}
	query.Set("sslmode", pg.Write.SSLMode)

	if pg.MigrationTable != "" {
		query.Set("x-migrations-table", pg.MigrationTable)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(pg.Write.Username, pg.Write.Password),
		Host:     net.JoinHostPort(pg.Write.Host, pg.Write.Port),
		Path:     name,
		RawQuery: query.Encode(),
	}

	return u.String()
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(cfg.DB.Postgres.MigrationPath, databaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	return err
}

// Run applies action to the booking engine schema. args carries the target
// version for force.
func Run(cfg *config.Config, action string, args ...string) (err error) {
	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrator")
		}
	}()

	switch action {
	case ActionUp:
		err = ignoreNoChange(mig.Up())
	case ActionDown:
		err = ignoreNoChange(mig.Steps(-1))
	case ActionStepUp:
		err = ignoreNoChange(mig.Steps(1))
	case ActionDrop:
		err = ignoreNoChange(mig.Down())
	case ActionVersion:
		version, dirty, verErr := mig.Version()
		if verErr != nil && !errors.Is(verErr, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading schema version: %w", verErr)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	case ActionForce:
		if len(args) == 0 {
			return errors.New("force needs a target version")
		}

		version, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], convErr)
		}

		err = mig.Force(version)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Run(cfg, ActionUp)
}
