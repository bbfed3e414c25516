package token

import (
	"errors"
	"math/big"
)

var (
	errNilState = errors.New("token ledger: state not configured")

	// ErrInvalidAmount rejects nil or negative transfer amounts.
	ErrInvalidAmount = errors.New("token: amount must not be negative")
	// ErrInsufficientBalance rejects transfers beyond the holder's balance.
	ErrInsufficientBalance = errors.New("token: insufficient balance")
)

type ledgerState interface {
	TokenBalanceGet(token [20]byte, holder [20]byte) (*big.Int, error)
	TokenBalancePut(token [20]byte, holder [20]byte, balance *big.Int) error
}

// Ledger is a standard balance ledger for external fungible tokens, keyed by
// token contract address. The launchpad engine consumes it through the
// TokenLedger capability; nothing here knows about campaigns.
type Ledger struct {
	state ledgerState
}

// NewLedger constructs a token ledger over the supplied state backend.
func NewLedger(state ledgerState) *Ledger {
	return &Ledger{state: state}
}

// BalanceOf returns the holder's balance for the given token.
func (l *Ledger) BalanceOf(token [20]byte, holder [20]byte) (*big.Int, error) {
	if l == nil || l.state == nil {
		return nil, errNilState
	}
	balance, err := l.state.TokenBalanceGet(token, holder)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return big.NewInt(0), nil
	}
	return balance, nil
}

// Transfer moves tokens between holders. A zero amount is a no-op.
func (l *Ledger) Transfer(token [20]byte, from [20]byte, to [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBalance, err := l.BalanceOf(token, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBalance, err := l.BalanceOf(token, to)
	if err != nil {
		return err
	}
	if err := l.state.TokenBalancePut(token, from, new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	return l.state.TokenBalancePut(token, to, new(big.Int).Add(toBalance, amount))
}

// Mint credits freshly issued tokens to a holder. Used at genesis and by
// operational tooling that seeds payout tokens.
func (l *Ledger) Mint(token [20]byte, to [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := l.BalanceOf(token, to)
	if err != nil {
		return err
	}
	return l.state.TokenBalancePut(token, to, new(big.Int).Add(balance, amount))
}
