package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"card-classifier-api/internal/database"
	"card-classifier-api/internal/repositories/sqlite"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("Migration tool failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "migrate",
		Usage: "Manage the institution database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Database file path",
				Value:   "./data/institutions.db",
				EnvVars: []string{"DB_CONNECTION_STRING"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: withConnection(runMigrationsUp),
			},
			{
				Name:   "down",
				Usage:  "Roll back the last migration",
				Action: withConnection(runMigrationsDown),
			},
			{
				Name:   "status",
				Usage:  "Show the current migration version",
				Action: withConnection(showMigrationStatus),
			},
			{
				Name:   "validate",
				Usage:  "Check that every expected table exists",
				Action: withConnection(validateSchema),
			},
			{
				Name:  "seed",
				Usage: "Load sites and institutions from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Seed file with \"sites\" and \"institutions\" arrays",
						Required: true,
					},
				},
				Action: withConnection(seedInstitutions),
			},
		},
	}
}

type action func(c *cli.Context, cm *database.ConnectionManager, logger *logrus.Logger) error

// withConnection opens the database as it is and hands it to fn. Only the
// up and seed commands change the schema.
func withConnection(fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger := logrus.New()
		if c.Bool("verbose") {
			logger.SetLevel(logrus.DebugLevel)
		}

		dbPath, err := filepath.Abs(c.String("db"))
		if err != nil {
			return fmt.Errorf("failed to get absolute database path: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"db_path": dbPath,
			"command": c.Command.Name,
		}).Info("Starting migration tool")

		cm := database.NewConnectionManager(database.ConnectionConfig{
			DatabasePath: dbPath,
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			Logger:       logger,
		})
		if err := cm.Connect(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer cm.Close()

		return fn(c, cm, logger)
	}
}

func runMigrationsUp(c *cli.Context, cm *database.ConnectionManager, logger *logrus.Logger) error {
	return cm.GetMigrationManager().RunMigrations()
}

func runMigrationsDown(c *cli.Context, cm *database.ConnectionManager, logger *logrus.Logger) error {
	return cm.GetMigrationManager().RollbackMigration()
}

func showMigrationStatus(c *cli.Context, cm *database.ConnectionManager, logger *logrus.Logger) error {
	info, err := cm.GetMigrationManager().GetMigrationStatus()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Version: %d\nDirty: %t\nApplied: %t\n", info.Version, info.Dirty, info.Applied)
	return nil
}

func validateSchema(c *cli.Context, cm *database.ConnectionManager, logger *logrus.Logger) error {
	return cm.GetMigrationManager().ValidateSchema()
}

func seedInstitutions(c *cli.Context, cm *database.ConnectionManager, logger *logrus.Logger) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed sqlite.SeedData
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := cm.GetMigrationManager().RunMigrations(); err != nil {
		return err
	}

	repo := sqlite.NewInstitutionRepository(cm.GetDB(), logger)
	return repo.Seed(context.Background(), &seed)
}
