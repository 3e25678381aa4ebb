package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTKey(t *testing.T) {
	assert.Equal(t, "pipespec.jwt.abc", jwtKey("abc"))
}

func TestWriteExpiredTokenIsNoop(t *testing.T) {
	// клиент без соединения: для истёкшего токена Redis не трогается
	c := &Client{}
	require.NoError(t, c.WriteJWTToBlacklist(context.Background(), "abc", 0))
}
