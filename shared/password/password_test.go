package password_test

import (
	"testing"

	"hall/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := password.Hash("s3cret-key")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)

	assert.True(t, password.Verify(hashed, "s3cret-key"))
	assert.False(t, password.Verify(hashed, "wrong-key"))
	assert.False(t, password.Verify("not-a-hash", "s3cret-key"))
}
