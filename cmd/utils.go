package cmd

import (
	"fmt"

	"github.com/rubiojr/fiszki/pkg/config"
	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/dataset"
	"github.com/rubiojr/fiszki/pkg/log"
	"github.com/rubiojr/fiszki/pkg/storage"
	"github.com/urfave/cli/v3"
)

var logger = log.ForService("cmd")

// loadConfig reads the file named by --config and applies the debug
// settings from the command line and the config file.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log.Configure(c.Bool("debug"), cfg.DebugServices)
	return cfg, nil
}

func datasetOptions(cfg *config.Config) dataset.Options {
	return dataset.Options{
		DecodeEscapes: cfg.DecodeEscapes,
		DatesCount:    cfg.DatesCount,
		DatesSeed:     cfg.DatesSeed,
	}
}

func loadCorpus(cfg *config.Config) (*core.Corpus, error) {
	corpus, err := dataset.Load(cfg.DataDir, datasetOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("loading datasets from %s: %w", cfg.DataDir, err)
	}
	return corpus, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return store, nil
}

func closeStore(store *storage.Store) {
	if err := store.Close(); err != nil {
		fmt.Printf("Warning: failed to close storage: %v\n", err)
	}
}

// withStore opens the database for the duration of fn.
func withStore(c *cli.Command, fn func(cfg *config.Config, store *storage.Store) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)
	return fn(cfg, store)
}
