package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rubiojr/fiszki/pkg/search"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search every dataset and your imported words",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the results as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-pager",
				Usage: "Disable pager and output directly to terminal",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("a search query is required")
			}
			return searchData(ctx, c, query, c.Bool("json"), c.Bool("no-pager"))
		},
	}
}

func searchData(ctx context.Context, c *cli.Command, query string, asJSON, noPager bool) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}

	// Search still works without the database; custom words are skipped.
	var words search.CustomWordSource
	store, err := openStore(cfg)
	if err != nil {
		logger.Warnf("searching without custom words: %v", err)
	} else {
		defer closeStore(store)
		words = store
	}

	results := search.NewService(words).Search(ctx, query, corpus)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return display(formatSearchOutput(query, results), noPager)
}
