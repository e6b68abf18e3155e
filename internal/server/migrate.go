package server

import (
	"errors"

	"github.com/compass-ai/compass/internal/util"
	"github.com/compass-ai/compass/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// runMigrations applies pending schema migrations when RUN_MIGRATIONS is set.
// Deployments that run migrations out of band leave it unset.
func runMigrations() {
	if !util.GetEnvBool("RUN_MIGRATIONS", false) {
		return
	}

	m, err := migrate.New("file://migrations", util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to init migrations", "err", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Migrations up to date")
			return
		}
		logger.Fatal("Failed to run migrations", "err", err)
	}
	logger.Info("Migrations applied")
}
