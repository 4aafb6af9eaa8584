package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/ranking"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 15, 6, 30, 0, 0, time.UTC)
	resp := &ranking.Response{
		Timestamp:  now,
		Species:    "walleye",
		TotalSpots: 12,
		Returned:   1,
		Spots: []ranking.SpotResult{
			{ID: "1", Name: "Rocky Shoal", BiteScore: 95, Status: domain.StatusGreat},
		},
	}

	msg, err := serializeToMessage(resp)
	require.NoError(t, err)

	assert.Equal(t, []byte("walleye"), msg.Key)
	assert.Contains(t, string(msg.Value), `"species":"walleye"`)
	assert.Contains(t, string(msg.Value), `"bite_score":95`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "species", msg.Headers[0].Key)
	assert.Equal(t, []byte("walleye"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
