package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mlaurent/officeday/pkg/config"
	"github.com/mlaurent/officeday/pkg/version"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging."`

	Check struct {
		Configs []string `arg:"" optional:"" name:"configs" help:"Configuration files for the content pipeline." type:"file"`
	} `cmd:"" help:"Validate the manifest, building and task data and report missing assets."`

	Stats struct {
		Configs []string `arg:"" optional:"" name:"configs" help:"Configuration files for the content pipeline." type:"file"`
	} `cmd:"" help:"Print a summary of the game's declared content."`

	Pack struct {
		Dir string `arg:"" name:"dir" help:"Asset directory to pack." type:"existingdir"`
		Out string `arg:"" name:"out" help:"Bundle file to write."`
	} `cmd:"" help:"Pack an asset directory into a single bundle file."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("officeday"),
		kong.Description("content pipeline for A Day at the Office"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if CLI.Version {
		fmt.Printf(
			"officeday %s (commit %s)\n",
			version.Version,
			version.GitCommit,
		)
		fmt.Printf(
			"built %s\n",
			version.BuildTime,
		)
		os.Exit(0)
	}

	switch ctx.Command() {
	case "check":
		fallthrough
	case "check <configs>":
		err := checkCommand(CLI.Check.Configs)
		if err != nil {
			writeError(err)
		}
	case "stats":
		fallthrough
	case "stats <configs>":
		err := statsCommand(CLI.Stats.Configs)
		if err != nil {
			writeError(err)
		}
	case "pack <dir> <out>":
		err := packCommand(CLI.Pack.Dir, CLI.Pack.Out)
		if err != nil {
			writeError(err)
		}
	case "config":
		os.Stdout.Write(config.DEFAULT)
	}
}
