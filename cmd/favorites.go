package cmd

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/rubiojr/fiszki/pkg/config"
	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/storage"
	"github.com/urfave/cli/v3"
)

// FavoritesCommand creates the favorites command
func FavoritesCommand() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "Manage favorite vocabulary",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorite words",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c, func(cfg *config.Config, store *storage.Store) error {
						return listFavorites(ctx, cfg, store)
					})
				},
			},
			{
				Name:      "add",
				Usage:     "Add a vocabulary entry to your favorites",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := favoriteArg(c)
					if err != nil {
						return err
					}
					return withStore(c, func(cfg *config.Config, store *storage.Store) error {
						return addFavorite(ctx, cfg, store, id)
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a vocabulary entry from your favorites",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := favoriteArg(c)
					if err != nil {
						return err
					}
					return withStore(c, func(_ *config.Config, store *storage.Store) error {
						ids, err := store.RemoveFavorite(ctx, id)
						if err != nil {
							return fmt.Errorf("removing favorite: %w", err)
						}
						fmt.Printf("Removed %d, %d favorites left\n", id, len(ids))
						return nil
					})
				},
			},
		},
	}
}

func favoriteArg(c *cli.Command) (int, error) {
	if c.Args().Len() != 1 {
		return 0, fmt.Errorf("expected one vocabulary id")
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid vocabulary id %q: %w", c.Args().First(), err)
	}
	return id, nil
}

func listFavorites(ctx context.Context, cfg *config.Config, store *storage.Store) error {
	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	ids, err := store.Favorites(ctx)
	if err != nil {
		return fmt.Errorf("loading favorites: %w", err)
	}
	words := core.FavoriteWords(corpus.Vocabulary, ids)
	fmt.Print(formatVocabulary(fmt.Sprintf("Favorites (%d)", len(words)), words))
	return nil
}

func addFavorite(ctx context.Context, cfg *config.Config, store *storage.Store, id int) error {
	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(corpus.Vocabulary, func(e core.VocabularyEntry) bool { return e.ID == id }) {
		return fmt.Errorf("no vocabulary entry with id %d", id)
	}
	ids, err := store.AddFavorite(ctx, id)
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	fmt.Printf("Added %d, %d favorites\n", id, len(ids))
	return nil
}
