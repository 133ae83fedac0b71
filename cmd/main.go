package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/finbridge/zenapi/internal/commands"
	"github.com/finbridge/zenapi/internal/config"
)

func main() {
	zerolog.SetGlobalLevel(config.LogLevel())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
