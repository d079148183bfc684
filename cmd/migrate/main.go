package main

import (
	"dogwalking/config"
	"dogwalking/helper"
	"dogwalking/shared/logger"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
)

const usage = "usage: migrate up|down|step-up|drop|version|force <version>"

var errUsage = errors.New(usage)

func main() {
	if err := run(config.Get(), os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg(usage)
	}
}

func run(cfg *config.Config, args []string) error {
	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if len(args) == 0 {
		return errUsage
	}

	return helper.Run(cfg, args[0], args[1:]...) //nolint:wrapcheck
}
