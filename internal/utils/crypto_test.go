package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	raw, hashed, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 40)
	assert.Len(t, hashed, 64)
	assert.Equal(t, HashToken(raw), hashed)
	assert.NotEqual(t, raw, hashed)

	other, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, other)
}

func TestHashToken(t *testing.T) {
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashToken("abc"))
}
