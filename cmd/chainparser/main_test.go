package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainparser/internal/testutils"
)

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		configPath, idlPath, programID, accountPath, address, rpcURL, accountName, typeName = "", "", "", "", "", "", "", ""
		provider, encoding = "anchor", encodingRaw
		fetchIDL, printPlan, dumpValue, prettyJSON = false, false, false, false
	})
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func collectionPDA() []byte {
	return testutils.NewAccountBuilder().
		Raw(testutils.CollectionPDADiscriminator...).
		PublicKey(solana.MustPublicKeyFromBase58("BrqNo3sQFTaq9JevoWYhgagJEjE3MmTgYonfaHV5Mf3E")).
		PublicKey(solana.MustPublicKeyFromBase58("DpBwktkJsEPTtsRpD8kCFGwEUjwTkXARSGSTQ7MJr4kE")).
		Build()
}

func TestRun(t *testing.T) {
	idlFile := writeFile(t, "idl.json", []byte(testutils.CandyMachineIDL))

	t.Run("decode base64 account from stdin", func(t *testing.T) {
		resetFlags(t)
		idlPath, programID = idlFile, testutils.CandyMachineProgramID
		accountPath, encoding = "-", encodingBase64

		var out bytes.Buffer
		stdin := strings.NewReader(base64.StdEncoding.EncodeToString(collectionPDA()))
		require.NoError(t, run(stdin, &out))
		assert.Equal(t, `{"mint":"BrqNo3sQFTaq9JevoWYhgagJEjE3MmTgYonfaHV5Mf3E","candyMachine":"DpBwktkJsEPTtsRpD8kCFGwEUjwTkXARSGSTQ7MJr4kE"}`+"\n", out.String())
	})

	t.Run("config registers IDLs", func(t *testing.T) {
		resetFlags(t)
		configPath = writeFile(t, "config.toml", []byte(`
[Serialization]
PubkeyAsBase58 = false

[[IDL]]
ProgramID = "`+testutils.CandyMachineProgramID+`"
Path = "`+idlFile+`"
`))
		programID = testutils.CandyMachineProgramID
		accountPath = writeFile(t, "account.bin", collectionPDA())
		prettyJSON = true

		var out bytes.Buffer
		require.NoError(t, run(nil, &out))
		assert.Contains(t, out.String(), `"mint": [`)
	})

	t.Run("by name with dump", func(t *testing.T) {
		resetFlags(t)
		idlPath, programID = idlFile, testutils.CandyMachineProgramID
		accountPath = writeFile(t, "account.bin", collectionPDA()[8:])
		accountName, dumpValue = "CollectionPDA", true

		var out bytes.Buffer
		require.NoError(t, run(nil, &out))
		assert.Contains(t, out.String(), "value.Struct")
	})

	t.Run("plan", func(t *testing.T) {
		resetFlags(t)
		idlPath, programID = idlFile, testutils.CandyMachineProgramID
		printPlan = true

		var out bytes.Buffer
		require.NoError(t, run(nil, &out))
		assert.Contains(t, out.String(), "CollectionPDA")
	})

	t.Run("plan of a single type", func(t *testing.T) {
		resetFlags(t)
		idlPath, programID = idlFile, testutils.CandyMachineProgramID
		printPlan, typeName = true, "Creator"

		var out bytes.Buffer
		require.NoError(t, run(nil, &out))
		assert.Contains(t, out.String(), "type Creator")
		assert.NotContains(t, out.String(), "CollectionPDA")

		typeName = "Missing"
		require.Error(t, run(nil, &bytes.Buffer{}))
	})

	t.Run("unknown program", func(t *testing.T) {
		resetFlags(t)
		programID = testutils.StakeProgramID
		accountPath = writeFile(t, "account.bin", collectionPDA())

		require.Error(t, run(nil, &bytes.Buffer{}))
	})

	t.Run("idl without program", func(t *testing.T) {
		resetFlags(t)
		idlPath = idlFile
		require.Error(t, run(nil, &bytes.Buffer{}))
	})
}
