package types

import "math/big"

// Account holds the native-coin position for an address. Token balances live
// under the token keyspace of the state manager, keyed by token contract, so
// the account record stays small and RLP-friendly.
type Account struct {
	Nonce   uint64   `json:"nonce"`
	Balance *big.Int `json:"balance"`
}

// NewAccount returns an account with a zeroed balance.
func NewAccount() *Account {
	return &Account{Balance: big.NewInt(0)}
}
