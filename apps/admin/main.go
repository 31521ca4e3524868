package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/edumentor/edumentor/core"
	logsvc "github.com/edumentor/edumentor/services/logger"
	"github.com/edumentor/edumentor/storage/database"
)

var logger zerolog.Logger

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("loading config")
	}
	logger = logsvc.NewStdLogger(conf, os.Stderr).With().Str("component", "admin").Logger()

	// set up DB
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.ConnectTimeout)
	repos, err := database.Open(ctx, conf)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("opening database")
	}
	if conf.Database.Engine != database.EngineMongo {
		logger.Warn().Str("engine", conf.Database.Engine).Msg("changes are lost when this command exits")
	}

	// start CLI
	cli := commandLine{repos: repos}
	err = cli.run(os.Args)
	_ = repos.Close(context.Background())
	if err != nil {
		if err != errHelp {
			logger.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}
