package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyURLDisablesRedis(t *testing.T) {
	client, err := Connect(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-redis")
	assert.Error(t, err)
}
