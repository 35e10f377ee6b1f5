package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"

	"github.com/vysogota0399/transactions_api/internal/config"
)

func TestCreateApp(t *testing.T) {
	cfg := &config.Config{
		Env:            config.EnvTest,
		DatabaseClient: config.DatabaseClientSQLite,
		DatabaseURL:    ":memory:",
		KafkaBrokers:   []string{"127.0.0.1:9092"},
	}

	assert.NoError(t, fx.ValidateApp(CreateApp(cfg)))
}
