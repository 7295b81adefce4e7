package cmd

import "github.com/urfave/cli/v3"

// Commands returns every subcommand of the fiszki root command.
func Commands() []*cli.Command {
	return []*cli.Command{
		InitCommand(),
		SearchCommand(),
		WordsCommand(),
		FavoritesCommand(),
		ConvertCommand(),
		ServeCommand(),
		OptimizeCommand(),
		MigrateCommand(),
		VersionCommand(),
	}
}
