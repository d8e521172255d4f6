package cmd

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/bakery/entities"
	"github.com/ridoystarlord/bakery/validator"
)

func TestServeStopsOnCancel(t *testing.T) {
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeReportsListenError(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1"}
	err := serve(context.Background(), srv)
	assert.Error(t, err)
}

func TestBuiltInTablesAreValid(t *testing.T) {
	result := validator.ValidateModels(entities.Tables())
	assert.True(t, result.Valid, "%v", result.Errors)
	assert.NoError(t, outputText(result))
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger(true))
	assert.NotNil(t, newLogger(false))
}
