package idl_test

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainparser/pkg/idl"
)

func TestAccountDiscriminator(t *testing.T) {
	t.Run("matches a known account", func(t *testing.T) {
		require.Equal(t, []byte{133, 250, 161, 78, 246, 27, 55, 187}, idl.AccountDiscriminator("VaultInfo"))
	})

	t.Run("is the truncated account namespace hash", func(t *testing.T) {
		tmp := sha256.Sum256([]byte("account:Foo"))
		require.Equal(t, tmp[:idl.DiscriminatorLength], idl.AccountDiscriminator("Foo"))
	})

	t.Run("is case sensitive", func(t *testing.T) {
		require.NotEqual(t, idl.AccountDiscriminator("foo"), idl.AccountDiscriminator("Foo"))
	})
}
