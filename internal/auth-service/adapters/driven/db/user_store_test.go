package db

import (
	"testing"

	"taxi-booking/internal/auth-service/core/myerrors"
	"taxi-booking/internal/auth-service/core/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDummyHash_MatchesServiceCost(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash())
	require.NoError(t, err)
	assert.Equal(t, service.HashFactor, cost)
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, checkPassword(hash, "secret1"))
	assert.ErrorIs(t, checkPassword(hash, "secret2"), myerrors.ErrNotFound)
	assert.ErrorIs(t, checkPassword(nil, "secret1"), myerrors.ErrNotFound)
	assert.ErrorIs(t, checkPassword([]byte{}, ""), myerrors.ErrNotFound)
	assert.Error(t, checkPassword([]byte("not-a-bcrypt-hash"), "secret1"))
}
