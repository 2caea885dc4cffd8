package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnalyticsDefaults(t *testing.T) {
	var a Analytics
	assert.Equal(t, 5*time.Minute, a.AlertCheckInterval())
	assert.Equal(t, 3.0, a.SpikeThresholdOrDefault())
	assert.Equal(t, 7, a.SuggestionDaysOrDefault())

	a = Analytics{AlertCheckIntervalMs: 1500, SpikeThreshold: 4, SuggestionDays: 30}
	assert.Equal(t, 1500*time.Millisecond, a.AlertCheckInterval())
	assert.Equal(t, 4.0, a.SpikeThresholdOrDefault())
	assert.Equal(t, 30, a.SuggestionDaysOrDefault())
}

func TestIngestWindowDefault(t *testing.T) {
	assert.Equal(t, int64(60), Ingest{}.WindowOrDefault())
	assert.Equal(t, int64(15), Ingest{WindowSeconds: 15}.WindowOrDefault())
	assert.Equal(t, int64(10<<20), Ingest{}.MaxBodyBytesOrDefault())
	assert.Equal(t, int64(512), Ingest{MaxBodyBytes: 512}.MaxBodyBytesOrDefault())
}
