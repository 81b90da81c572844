package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/findoc/internal/config"
	"github.com/dgallion1/findoc/internal/pipeline"
	"github.com/dgallion1/findoc/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_WithoutProvider(t *testing.T) {
	a, err := New(context.Background(), config.Config{}, config.DefaultTuning(), discardLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Generator)
	assert.Nil(t, a.Stats)
	assert.Empty(t, a.Model())
	assert.NotNil(t, a.Classifier)
	assert.NotNil(t, a.Extractor)
	assert.NotNil(t, a.Responder)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.Config{LLMProvider: "mystery"}, config.DefaultTuning(), discardLogger())
	assert.Error(t, err)
}

func TestNew_ProviderEnablesStats(t *testing.T) {
	cfg := config.Config{LLMProvider: "anthropic", LLMAPIKey: "k", LLMModel: "m"}
	a, err := New(context.Background(), cfg, config.DefaultTuning(), discardLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Stats)
	assert.Equal(t, "m", a.Model())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	a := &App{Config: config.Config{StoreBackend: config.StoreMemory}, Log: discardLogger()}
	st, err := a.OpenStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, st)

	a.Config.StoreBackend = "s3"
	_, err = a.OpenStore(ctx)
	assert.Error(t, err)
}

func TestOpenArchive_Disabled(t *testing.T) {
	a := &App{Log: discardLogger()}
	arch, err := a.OpenArchive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, arch)
}

func TestWorker_BuildsBundle(t *testing.T) {
	a, err := New(context.Background(), config.Config{}, config.DefaultTuning(), discardLogger())
	require.NoError(t, err)

	job := pipeline.NewJob("notes.md", "", []byte("# Notes\n\n| Asset Class | Weight |\n|---|---|\n| Equity | 60% |\n| Bonds | 40% |\n"))
	b, err := a.Worker(nil, nil).Build(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, b.Tables, 1)
	assert.Equal(t, "notes", b.Metadata.Title)
}
