package repository

import (
	"context"
	"errors"
	"testing"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/database/fluentd/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	tags    []string
	records []map[string]any
	err     error
}

func (c *recordingClient) Post(ctx context.Context, tag string, rec map[string]any) error {
	c.tags = append(c.tags, tag)
	c.records = append(c.records, rec)
	return c.err
}

func (c *recordingClient) Close() error { return nil }

func TestLogRepository_LogUsage(t *testing.T) {
	recorder := &recordingClient{}
	repo := NewLogRepository(&config.Configuration{App: config.App{Version: "2.1.0"}}, recorder)

	err := repo.LogUsage(context.Background(), model.CostUsageLog{EventID: "e1", Provider: "openai", RequestCount: 3, Cost: 0.03})
	require.NoError(t, err)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, string(core.FluentdUsage), recorder.tags[0])
	assert.Equal(t, "openai", recorder.records[0]["provider"])
	assert.Equal(t, "2.1.0", recorder.records[0]["version"])
	assert.NotEmpty(t, recorder.records[0]["logged_at"])
	assert.InDelta(t, 0.03, recorder.records[0]["cost"], 1e-9)
}

func TestLogRepository_LogAlertPropagatesError(t *testing.T) {
	recorder := &recordingClient{err: errors.New("fluentd down")}
	repo := NewLogRepository(&config.Configuration{}, recorder)

	err := repo.LogAlert(context.Background(), model.AlertLog{AlertID: "a1", Type: "spike"})
	assert.EqualError(t, err, "fluentd down")
	assert.Equal(t, string(core.FluentdAlert), recorder.tags[0])
	assert.Equal(t, "1.0.0", recorder.records[0]["version"])
}
