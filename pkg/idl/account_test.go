package idl_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainparser/pkg/idl"
	"github.com/smartcontractkit/chainparser/internal/testutils"
)

func TestIDLAccount(t *testing.T) {
	authority := solana.MustPublicKeyFromBase58("DpBwktkJsEPTtsRpD8kCFGwEUjwTkXARSGSTQ7MJr4kE")

	t.Run("round trips through zlib", func(t *testing.T) {
		data, err := idl.EncodeIDLAccount(authority, []byte(testutils.StakeIDL))
		require.NoError(t, err)
		require.Greater(t, len(data), idl.IDLAccountHeaderSize)

		acc, err := idl.DecodeIDLAccount(data)
		require.NoError(t, err)
		assert.Equal(t, authority, acc.Authority)
		assert.Equal(t, uint32(len(data)-idl.IDLAccountHeaderSize), acc.DataLen)
		assert.JSONEq(t, testutils.StakeIDL, string(acc.JSON))
	})

	t.Run("trailing account space is ignored", func(t *testing.T) {
		data, err := idl.EncodeIDLAccount(authority, []byte(testutils.CandyMachineIDL))
		require.NoError(t, err)
		data = append(data, make([]byte, 128)...)

		acc, err := idl.DecodeIDLAccount(data)
		require.NoError(t, err)
		assert.Equal(t, testutils.CandyMachineIDL, string(acc.JSON))
	})

	t.Run("rejects short data", func(t *testing.T) {
		_, err := idl.DecodeIDLAccount(make([]byte, idl.IDLAccountHeaderSize-1))
		require.ErrorIs(t, err, idl.ErrInvalidIDL)
	})

	t.Run("rejects foreign discriminator", func(t *testing.T) {
		data, err := idl.EncodeIDLAccount(authority, []byte(`{}`))
		require.NoError(t, err)
		data[0] ^= 0xff
		_, err = idl.DecodeIDLAccount(data)
		require.ErrorIs(t, err, idl.ErrInvalidIDL)
	})

	t.Run("rejects payload that is not zlib", func(t *testing.T) {
		data, err := idl.EncodeIDLAccount(authority, []byte(`{}`))
		require.NoError(t, err)
		data = append(data[:idl.IDLAccountHeaderSize], 1, 2, 3, 4)
		_, err = idl.DecodeIDLAccount(data)
		require.ErrorIs(t, err, idl.ErrInvalidIDL)
	})

	t.Run("decoded JSON parses", func(t *testing.T) {
		data, err := idl.EncodeIDLAccount(authority, []byte(testutils.StakeIDL))
		require.NoError(t, err)
		acc, err := idl.DecodeIDLAccount(data)
		require.NoError(t, err)
		doc, err := idl.Parse(testutils.StakeProgramID, acc.JSON, idl.ProviderAnchor)
		require.NoError(t, err)
		assert.Len(t, doc.Accounts, 1)
	})
}
