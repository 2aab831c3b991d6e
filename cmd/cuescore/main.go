package main

import (
	"os"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Score a session in the interactive terminal UI"`
	Status  StatusCmd        `cmd:"" help:"Show the roster, selection and round order"`
	Catalog CatalogCmd       `cmd:"" help:"List the scoring balls"`
	Player  PlayerCmd        `cmd:"" help:"Manage players"`
	Pot     PotCmd           `cmd:"" help:"Award a ball to the selected player"`
	Foul    FoulCmd          `cmd:"" help:"Apply a foul penalty to the selected player"`
	Order   OrderCmd         `cmd:"" help:"Randomise the turn order"`
	End     EndCmd           `cmd:"" help:"End the round and record it in history"`
	Reset   ResetCmd         `cmd:"" help:"Reset the current round"`
	Filter  FilterCmd        `cmd:"" help:"Set the history filter"`
	History HistoryCmd       `cmd:"" help:"Browse and edit round history"`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("cuescore"),
		kong.Description("Score snooker-style rounds between friends"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":       version,
			"defaultConfig": defaultConfigPath(),
		},
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(userError(err))
}
