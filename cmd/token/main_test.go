package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookgraph/pkg/jwt"
)

func TestMint(t *testing.T) {
	m := jwt.NewManager("secret")

	token, err := mint(m, "ops", jwt.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.True(t, claims.IsAdmin())

	_, err = mint(m, "", jwt.RoleAdmin, time.Hour)
	assert.Error(t, err)
}
