package genesis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"launchpad/crypto"
)

func testBech32(t *testing.T, b byte) string {
	t.Helper()
	var raw [20]byte
	raw[19] = b
	return crypto.MustNewAddress(crypto.LaunchpadPrefix, raw[:]).String()
}

func writeGenesis(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestLoadValidDocument(t *testing.T) {
	owner := testBech32(t, 0x01)
	investor := testBech32(t, 0x02)
	doc := `chainName: launchpad-local
owner: ` + owner + `
maxBatchSize: 8
accounts:
  - address: ` + investor + `
    balance: "1000"
tokenMints:
  - token: "0x00000000000000000000000000000000000000aa"
    holder: ` + investor + `
    amount: "500"
`
	gen, err := Load(writeGenesis(t, doc))
	require.NoError(t, err)
	require.Equal(t, "launchpad-local", gen.ChainName)
	require.Equal(t, uint64(8), gen.MaxBatchSize)

	decoded, err := gen.OwnerAddress()
	require.NoError(t, err)
	require.Equal(t, byte(0x01), decoded[19])

	require.Len(t, gen.Accounts, 1)
	require.Len(t, gen.TokenMints, 1)
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	owner := testBech32(t, 0x01)

	cases := map[string]string{
		"missing owner": `chainName: x
accounts: []
`,
		"bad owner": `owner: not-an-address
`,
		"bad account address": `owner: ` + owner + `
accounts:
  - address: nope
    balance: "1"
`,
		"negative balance": `owner: ` + owner + `
accounts:
  - address: ` + owner + `
    balance: "-5"
`,
		"duplicate account": `owner: ` + owner + `
accounts:
  - address: ` + owner + `
    balance: "1"
  - address: ` + owner + `
    balance: "2"
`,
		"short token id": `owner: ` + owner + `
tokenMints:
  - token: "0xabcd"
    holder: ` + owner + `
    amount: "1"
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeGenesis(t, doc))
			require.Error(t, err)
		})
	}
}

func TestSortedAllocationsAreDeterministic(t *testing.T) {
	a, b := testBech32(t, 0x01), testBech32(t, 0x02)
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	gen := &Genesis{
		Owner: a,
		Accounts: []AccountAlloc{
			{Address: second, Balance: "2"},
			{Address: first, Balance: "1"},
		},
		TokenMints: []TokenMintAlloc{
			{Token: "0x00000000000000000000000000000000000000bb", Holder: a, Amount: "1"},
			{Token: "0x00000000000000000000000000000000000000aa", Holder: b, Amount: "1"},
			{Token: "0x00000000000000000000000000000000000000aa", Holder: a, Amount: "1"},
		},
	}

	sorted := gen.SortedAccounts()
	require.Equal(t, first, sorted[0].Address)
	require.Equal(t, second, sorted[1].Address)

	mints := gen.SortedTokenMints()
	require.Equal(t, "0x00000000000000000000000000000000000000aa", mints[0].Token)
	require.Equal(t, "0x00000000000000000000000000000000000000aa", mints[1].Token)
	require.Equal(t, "0x00000000000000000000000000000000000000bb", mints[2].Token)
}

func TestParseHelpers(t *testing.T) {
	amount, err := ParseAmount(" 1000000000000000000 ")
	require.NoError(t, err)
	require.Equal(t, "1000000000000000000", amount.String())

	_, err = ParseAmount("1.5")
	require.Error(t, err)

	token, err := ParseToken("00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	require.Equal(t, byte(0xaa), token[19])

	withPrefix, err := ParseToken("0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	require.Equal(t, token, withPrefix)
}
