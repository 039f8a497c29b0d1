package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartServerLogsThroughProvidedLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	StartServer(ctx, &wg, &ServerOpts{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Logger:          zap.New(core),
	})

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("starting metrics server").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	wg.Wait()
}

func TestStartServerNilLoggerDoesNotPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	StartServer(ctx, &wg, &ServerOpts{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})

	cancel()
	wg.Wait()
}
