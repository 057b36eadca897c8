package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

type entry struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestClient_JSONRoundTrip(t *testing.T) {
	client, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "plans", []entry{{Name: "basic", Items: []string{"A"}}}, time.Minute))

	var got []entry
	require.NoError(t, client.GetJSON(ctx, "plans", &got))
	assert.Equal(t, []entry{{Name: "basic", Items: []string{"A"}}}, got)
}

func TestClient_MissAndExpiry(t *testing.T) {
	client, mr := setupTestCache(t)
	ctx := context.Background()

	var got []entry
	assert.ErrorIs(t, client.GetJSON(ctx, "absent", &got), ErrMiss)

	require.NoError(t, client.SetJSON(ctx, "plans", []entry{{Name: "pro"}}, time.Minute))
	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, client.GetJSON(ctx, "plans", &got), ErrMiss)
}

func TestClient_Delete(t *testing.T) {
	client, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "plans", []entry{}, time.Minute))
	require.NoError(t, client.Delete(ctx, "plans"))

	var got []entry
	assert.ErrorIs(t, client.GetJSON(ctx, "plans", &got), ErrMiss)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("://bad")
	assert.Error(t, err)
}
