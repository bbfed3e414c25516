package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

type memState struct {
	balances map[[40]byte]*big.Int
}

func newMemState() *memState {
	return &memState{balances: make(map[[40]byte]*big.Int)}
}

func balanceKey(token, holder [20]byte) [40]byte {
	var key [40]byte
	copy(key[:20], token[:])
	copy(key[20:], holder[:])
	return key
}

func (m *memState) TokenBalanceGet(token [20]byte, holder [20]byte) (*big.Int, error) {
	balance, ok := m.balances[balanceKey(token, holder)]
	if !ok {
		return nil, nil
	}
	return new(big.Int).Set(balance), nil
}

func (m *memState) TokenBalancePut(token [20]byte, holder [20]byte, balance *big.Int) error {
	m.balances[balanceKey(token, holder)] = new(big.Int).Set(balance)
	return nil
}

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}

func TestMintAndBalance(t *testing.T) {
	ledger := NewLedger(newMemState())
	token, alice := addr(0xaa), addr(0x01)

	balance, err := ledger.BalanceOf(token, alice)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())

	require.NoError(t, ledger.Mint(token, alice, big.NewInt(100)))
	require.NoError(t, ledger.Mint(token, alice, big.NewInt(50)))

	balance, err = ledger.BalanceOf(token, alice)
	require.NoError(t, err)
	require.Equal(t, int64(150), balance.Int64())

	require.ErrorIs(t, ledger.Mint(token, alice, big.NewInt(-1)), ErrInvalidAmount)
	require.ErrorIs(t, ledger.Mint(token, alice, nil), ErrInvalidAmount)
}

func TestTransfer(t *testing.T) {
	ledger := NewLedger(newMemState())
	token, alice, bob := addr(0xaa), addr(0x01), addr(0x02)
	require.NoError(t, ledger.Mint(token, alice, big.NewInt(100)))

	require.NoError(t, ledger.Transfer(token, alice, bob, big.NewInt(40)))

	aliceBal, err := ledger.BalanceOf(token, alice)
	require.NoError(t, err)
	require.Equal(t, int64(60), aliceBal.Int64())
	bobBal, err := ledger.BalanceOf(token, bob)
	require.NoError(t, err)
	require.Equal(t, int64(40), bobBal.Int64())

	require.ErrorIs(t, ledger.Transfer(token, alice, bob, big.NewInt(61)), ErrInsufficientBalance)
	require.ErrorIs(t, ledger.Transfer(token, alice, bob, big.NewInt(-1)), ErrInvalidAmount)

	// Zero amounts and self-transfers are no-ops, not errors.
	require.NoError(t, ledger.Transfer(token, alice, bob, big.NewInt(0)))
	require.NoError(t, ledger.Transfer(token, alice, alice, big.NewInt(60)))
	aliceBal, err = ledger.BalanceOf(token, alice)
	require.NoError(t, err)
	require.Equal(t, int64(60), aliceBal.Int64())
}

func TestBalancesIsolatedPerToken(t *testing.T) {
	ledger := NewLedger(newMemState())
	alice := addr(0x01)
	require.NoError(t, ledger.Mint(addr(0xaa), alice, big.NewInt(10)))

	balance, err := ledger.BalanceOf(addr(0xbb), alice)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())
}
