package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record := domain.PlanetRecord{
		ID:         "exo-1a2b3c4d5e6f7a8b",
		Name:       "Kepler-452 b",
		Query:      "kepler-452 b",
		SearchType: "name",
		Habitability: &domain.HabitabilityScore{
			TotalScore: 78.5,
			Category:   domain.CategoryPromising,
		},
		Timestamp: ts,
	}

	msg, err := serializeToMessage(record)
	require.NoError(t, err)

	assert.Equal(t, []byte("exo-1a2b3c4d5e6f7a8b"), msg.Key)
	assert.Contains(t, string(msg.Value), `"name":"Kepler-452 b"`)
	assert.Contains(t, string(msg.Value), `"total_score":78.5`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, []byte("Promising"), msg.Headers[0].Value)
	assert.Equal(t, "computed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(ts.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_NoScore(t *testing.T) {
	record := domain.PlanetRecord{
		ID:        "exo-ffffffffffffffff",
		Name:      "Unscored b",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(record)
	require.NoError(t, err)

	assert.Equal(t, []byte(""), msg.Headers[0].Value)
}
