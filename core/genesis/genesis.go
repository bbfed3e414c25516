package genesis

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"launchpad/crypto"
)

// Genesis describes the initial ledger contents applied exactly once when a
// node starts on an empty database.
type Genesis struct {
	ChainName    string           `yaml:"chainName"`
	Owner        string           `yaml:"owner"`
	MaxBatchSize uint64           `yaml:"maxBatchSize"`
	Accounts     []AccountAlloc   `yaml:"accounts"`
	TokenMints   []TokenMintAlloc `yaml:"tokenMints"`
}

// AccountAlloc seeds a coin balance for an address.
type AccountAlloc struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

// TokenMintAlloc seeds a token balance, keyed by the token's 20-byte hex id.
type TokenMintAlloc struct {
	Token  string `yaml:"token"`
	Holder string `yaml:"holder"`
	Amount string `yaml:"amount"`
}

// Load reads and validates a genesis document from disk.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}
	gen := &Genesis{}
	if err := yaml.Unmarshal(data, gen); err != nil {
		return nil, fmt.Errorf("parse genesis file: %w", err)
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return gen, nil
}

// Validate checks every allocation before any of it is applied.
func (g *Genesis) Validate() error {
	if g == nil {
		return fmt.Errorf("genesis document is nil")
	}
	if strings.TrimSpace(g.Owner) == "" {
		return fmt.Errorf("genesis owner address required")
	}
	if _, err := crypto.DecodeAddress(g.Owner); err != nil {
		return fmt.Errorf("genesis owner: %w", err)
	}
	seen := make(map[string]struct{}, len(g.Accounts))
	for i, alloc := range g.Accounts {
		if _, err := crypto.DecodeAddress(alloc.Address); err != nil {
			return fmt.Errorf("genesis account %d: %w", i, err)
		}
		if _, ok := seen[alloc.Address]; ok {
			return fmt.Errorf("genesis account %d: duplicate address %s", i, alloc.Address)
		}
		seen[alloc.Address] = struct{}{}
		if _, err := parseAmount(alloc.Balance); err != nil {
			return fmt.Errorf("genesis account %d: %w", i, err)
		}
	}
	for i, mint := range g.TokenMints {
		if _, err := parseToken(mint.Token); err != nil {
			return fmt.Errorf("genesis token mint %d: %w", i, err)
		}
		if _, err := crypto.DecodeAddress(mint.Holder); err != nil {
			return fmt.Errorf("genesis token mint %d: %w", i, err)
		}
		if _, err := parseAmount(mint.Amount); err != nil {
			return fmt.Errorf("genesis token mint %d: %w", i, err)
		}
	}
	return nil
}

// OwnerAddress returns the decoded genesis owner.
func (g *Genesis) OwnerAddress() ([20]byte, error) {
	addr, err := crypto.DecodeAddress(g.Owner)
	if err != nil {
		return [20]byte{}, err
	}
	return addr.Array(), nil
}

// SortedAccounts returns account allocations in a deterministic order so the
// applied state is identical across nodes regardless of document ordering.
func (g *Genesis) SortedAccounts() []AccountAlloc {
	out := make([]AccountAlloc, len(g.Accounts))
	copy(out, g.Accounts)
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// SortedTokenMints returns token mints ordered by (token, holder).
func (g *Genesis) SortedTokenMints() []TokenMintAlloc {
	out := make([]TokenMintAlloc, len(g.TokenMints))
	copy(out, g.TokenMints)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Token != out[j].Token {
			return out[i].Token < out[j].Token
		}
		return out[i].Holder < out[j].Holder
	})
	return out
}

// ParseAmount decodes a decimal balance string into a non-negative big.Int.
func ParseAmount(raw string) (*big.Int, error) {
	return parseAmount(raw)
}

// ParseToken decodes a 20-byte hex token id, with or without a 0x prefix.
func ParseToken(raw string) ([20]byte, error) {
	return parseToken(raw)
}

func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a decimal integer", raw)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("amount %q is negative", raw)
	}
	return value, nil
}

func parseToken(raw string) ([20]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil || len(decoded) != 20 {
		return [20]byte{}, fmt.Errorf("token id %q must be 20 bytes of hex", raw)
	}
	var out [20]byte
	copy(out[:], decoded)
	return out, nil
}
