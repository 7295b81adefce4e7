package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rubiojr/fiszki/pkg/config"
	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/csvimport"
	"github.com/rubiojr/fiszki/pkg/storage"
	"github.com/urfave/cli/v3"
)

// WordsCommand creates the words command
func WordsCommand() *cli.Command {
	return &cli.Command{
		Name:  "words",
		Usage: "Manage imported words",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import a Google Translate CSV export, replacing your words",
				ArgsUsage: "<file.csv>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("expected one CSV file")
					}
					return withStore(c, func(_ *config.Config, store *storage.Store) error {
						return importWords(ctx, store, c.Args().First())
					})
				},
			},
			{
				Name:  "list",
				Usage: "List imported words",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the words as JSON",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c, func(_ *config.Config, store *storage.Store) error {
						return listWords(ctx, store, c.Bool("json"))
					})
				},
			},
			{
				Name:  "clear",
				Usage: "Delete every imported word",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c, func(_ *config.Config, store *storage.Store) error {
						if err := store.ClearCustomWords(ctx); err != nil {
							return fmt.Errorf("clearing words: %w", err)
						}
						fmt.Println("Imported words cleared")
						return nil
					})
				},
			},
			{
				Name:      "export",
				Usage:     "Write a compressed backup of your words and favorites",
				ArgsUsage: "<file>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("expected one backup file")
					}
					return withStore(c, func(_ *config.Config, store *storage.Store) error {
						return exportBackup(ctx, store, c.Args().First())
					})
				},
			},
			{
				Name:      "restore",
				Usage:     "Replace your words and favorites with a backup",
				ArgsUsage: "<file>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("expected one backup file")
					}
					return withStore(c, func(_ *config.Config, store *storage.Store) error {
						return restoreBackup(ctx, store, c.Args().First())
					})
				},
			},
		},
	}
}

func importWords(ctx context.Context, store *storage.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening CSV file: %w", err)
	}
	defer f.Close()

	result, err := csvimport.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, msg := range result.Errors {
		fmt.Println(metaStyle.Render(msg))
	}
	if len(result.Words) == 0 {
		return fmt.Errorf("no words found in %s (%d rows)", path, result.TotalRows)
	}

	if err := store.SaveCustomWords(ctx, result.Words); err != nil {
		return fmt.Errorf("saving words: %w", err)
	}
	fmt.Printf("Imported %d of %d rows\n", result.SuccessfulRows, result.TotalRows)
	return nil
}

func listWords(ctx context.Context, store *storage.Store, asJSON bool) error {
	words, err := store.LoadCustomWords(ctx)
	if err != nil {
		return fmt.Errorf("loading words: %w", err)
	}
	if words == nil {
		words = []core.CustomWord{}
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(words)
	}
	fmt.Print(formatCustomWords(words))
	return nil
}

func exportBackup(ctx context.Context, store *storage.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	if err := store.Export(ctx, f); err != nil {
		f.Close()
		return fmt.Errorf("exporting: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing backup file: %w", err)
	}
	fmt.Printf("Backup written to %s\n", path)
	return nil
}

func restoreBackup(ctx context.Context, store *storage.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening backup file: %w", err)
	}
	defer f.Close()

	n, err := store.Restore(ctx, f)
	if err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	fmt.Printf("Restored %d entries from %s\n", n, path)
	return nil
}
