package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"dogwalking/config"
)

func TestRun_InitializesLoggingBeforeArguments(t *testing.T) {
	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()

	defer func() {
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
	}()

	cfg := &config.Config{}
	cfg.Server.LogLevel = "warn"

	err := run(cfg, nil)
	assert.ErrorIs(t, err, errUsage)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
