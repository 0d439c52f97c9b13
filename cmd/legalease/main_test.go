package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teilomillet/legalease/config"
	"github.com/teilomillet/legalease/server/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildModelWithoutKeyDegradesToNil(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = ""

	model, closeFn := buildModel(context.Background(), cfg, metrics.NewMetrics(), zap.New(core))
	assert.Nil(t, model)
	assert.NotPanics(t, closeFn)
	assert.Equal(t, 1, logs.FilterMessage("AI model not configured").Len())
}
