package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/fiszki/pkg/config"
	"github.com/rubiojr/fiszki/pkg/storage"
	"github.com/urfave/cli/v3"
)

type maintenanceStep struct {
	name string
	run  func(*storage.Store) error
}

var (
	stepCheck      = maintenanceStep{"integrity check", (*storage.Store).IntegrityCheck}
	stepAnalyze    = maintenanceStep{"ANALYZE", (*storage.Store).Analyze}
	stepOptimize   = maintenanceStep{"PRAGMA optimize", (*storage.Store).Optimize}
	stepVacuum     = maintenanceStep{"VACUUM", (*storage.Store).Vacuum}
	stepCheckpoint = maintenanceStep{"WAL checkpoint", (*storage.Store).WALCheckpoint}
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Database optimization and maintenance commands",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runMaintenance(c, stepCheck, stepAnalyze, stepOptimize, stepCheckpoint)
		},
		Commands: []*cli.Command{
			maintenanceCommand("check", "Run an integrity check on the database", stepCheck),
			maintenanceCommand("analyze", "Run ANALYZE to update query planner statistics", stepAnalyze),
			maintenanceCommand("vacuum", "Run VACUUM to defragment the database", stepVacuum),
			maintenanceCommand("checkpoint", "Run WAL checkpoint to flush changes", stepCheckpoint),
		},
	}
}

func maintenanceCommand(name, usage string, step maintenanceStep) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(ctx context.Context, c *cli.Command) error {
			return runMaintenance(c, step)
		},
	}
}

func runMaintenance(c *cli.Command, steps ...maintenanceStep) error {
	return withStore(c, func(_ *config.Config, store *storage.Store) error {
		fmt.Printf("Database: %s\n", store.Path())
		for _, step := range steps {
			fmt.Printf("Running %s... ", step.name)
			if err := step.run(store); err != nil {
				fmt.Println("✗ FAILED")
				return fmt.Errorf("%s: %w", step.name, err)
			}
			fmt.Println("✓")
		}
		return nil
	})
}
