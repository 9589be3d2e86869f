package server

import (
	"context"
	"testing"

	"github.com/microblog/apiserver/config"
	"github.com/stretchr/testify/require"
)

func TestNew_MissingJWTSecretIsFatal(t *testing.T) {
	cfg := config.Config{ServerPort: 8080}

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNew_BlankJWTSecretIsFatal(t *testing.T) {
	cfg := config.Config{ServerPort: 8080, JWTSecret: "   "}

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}
