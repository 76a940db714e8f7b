package jobs

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"unibase/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestRegistryKnowsBuiltins(t *testing.T) {
	r := NewRegistry()

	require.True(t, r.Has("send_email"))
	require.False(t, r.Has("mine_bitcoin"))
}

func TestRegisterCustomHandler(t *testing.T) {
	r := NewRegistry()

	var gotArgs map[string]any
	r.Register("resize_image", func(ctx context.Context, args map[string]any) error {
		gotArgs = args
		return nil
	})

	require.True(t, r.Has("resize_image"))

	h, ok := r.handler("resize_image")
	require.True(t, ok)
	require.NoError(t, h(context.Background(), map[string]any{"width": 128}))
	require.Equal(t, 128, gotArgs["width"])
}

func TestSendEmailHandlerSucceeds(t *testing.T) {
	r := NewRegistry()

	h, ok := r.handler("send_email")
	require.True(t, ok)
	require.NoError(t, h(context.Background(), map[string]any{
		"to":      "someone@example.com",
		"subject": "hello",
		"body":    "world",
	}))
}

func TestUnknownHandlerLookupFails(t *testing.T) {
	r := NewRegistry()

	_, ok := r.handler("nope")
	require.False(t, ok)
}
