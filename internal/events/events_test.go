package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_EmptyURL(t *testing.T) {
	p, err := NewPublisher("", "truckrecruit.events")
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), ContactUnlocked, map[string]string{"driver_id": "d"}))
	assert.NoError(t, p.Close())
}

func TestEncode(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	body, err := Encode(ContactUnlocked, map[string]int{"contacts_used": 46}, at)
	require.NoError(t, err)

	var got struct {
		ID         string         `json:"id"`
		Type       string         `json:"type"`
		OccurredAt time.Time      `json:"occurred_at"`
		Payload    map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, ContactUnlocked, got.Type)
	assert.True(t, at.Equal(got.OccurredAt))
	assert.Equal(t, 46, got.Payload["contacts_used"])
}

func TestEncode_Unencodable(t *testing.T) {
	_, err := Encode(ContactUnlocked, make(chan int), time.Now())
	assert.Error(t, err)
}
