package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	New      NewCmd           `cmd:"" help:"Create a game against the computer"`
	Show     ShowCmd          `cmd:"" help:"Show a stored game"`
	List     ListCmd          `cmd:"" help:"List stored games"`
	Hand     HandCmd          `cmd:"" help:"Deal the hands for the next turn"`
	Turn     TurnCmd          `cmd:"" help:"Play the current turn"`
	Delete   DeleteCmd        `cmd:"" help:"Delete a game"`
	Play     PlayCmd          `cmd:"" help:"Play interactively in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run computer-vs-computer games and report statistics"`
	Classic  ClassicCmd       `cmd:"" help:"Play the one-card classic variant to the end"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cardsgame"),
		kong.Description("Two-player target card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
