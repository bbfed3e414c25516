package state

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"launchpad/core/types"
	"launchpad/native/launchpad"
	"launchpad/storage"
)

// Manager reads and writes ledger state on a key-value database. Keys are
// hashed with keccak over a human-readable prefix so the raw keyspace never
// leaks symbol or address contents, and values are RLP encoded.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	projectPrefix      = []byte("launchpad/project/")
	symbolListKey      = ethcrypto.Keccak256([]byte("launchpad/symbols"))
	ownerKey           = ethcrypto.Keccak256([]byte("launchpad/owner"))
	batchSizeKey       = ethcrypto.Keccak256([]byte("launchpad/batch-size"))
	accountPrefix      = []byte("account/")
	tokenBalancePrefix = []byte("token/balance/")
)

func projectKey(symbol string) []byte {
	buf := make([]byte, len(projectPrefix)+len(symbol))
	copy(buf, projectPrefix)
	copy(buf[len(projectPrefix):], symbol)
	return ethcrypto.Keccak256(buf)
}

func accountKey(addr []byte) []byte {
	buf := make([]byte, len(accountPrefix)+len(addr))
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], addr)
	return ethcrypto.Keccak256(buf)
}

func tokenBalanceKey(token [20]byte, holder [20]byte) []byte {
	buf := make([]byte, len(tokenBalancePrefix)+len(token)+1+len(holder))
	copy(buf, tokenBalancePrefix)
	copy(buf[len(tokenBalancePrefix):], token[:])
	buf[len(tokenBalancePrefix)+len(token)] = ':'
	copy(buf[len(tokenBalancePrefix)+len(token)+1:], holder[:])
	return ethcrypto.Keccak256(buf)
}

func (m *Manager) get(key []byte) ([]byte, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return data, err
}

// --- Accounts ---

// GetAccount loads the native-coin account for an address. Unknown addresses
// yield a zeroed account rather than an error.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	data, err := m.get(accountKey(addr))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return types.NewAccount(), nil
	}
	account := new(types.Account)
	if err := rlp.DecodeBytes(data, account); err != nil {
		return nil, fmt.Errorf("state: decode account: %w", err)
	}
	if account.Balance == nil {
		account.Balance = big.NewInt(0)
	}
	return account, nil
}

// PutAccount persists the native-coin account for an address.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	if account == nil {
		return fmt.Errorf("state: nil account")
	}
	encoded, err := rlp.EncodeToBytes(account)
	if err != nil {
		return fmt.Errorf("state: encode account: %w", err)
	}
	return m.db.Put(accountKey(addr), encoded)
}

// --- Token balances ---

// TokenBalanceGet returns the holder balance for a token contract. A balance
// that was never touched reads as zero.
func (m *Manager) TokenBalanceGet(token [20]byte, holder [20]byte) (*big.Int, error) {
	data, err := m.get(tokenBalanceKey(token, holder))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return big.NewInt(0), nil
	}
	balance := new(big.Int)
	if err := rlp.DecodeBytes(data, balance); err != nil {
		return nil, fmt.Errorf("state: decode token balance: %w", err)
	}
	return balance, nil
}

// TokenBalancePut persists the holder balance for a token contract.
func (m *Manager) TokenBalancePut(token [20]byte, holder [20]byte, balance *big.Int) error {
	if balance == nil || balance.Sign() < 0 {
		return fmt.Errorf("state: token balance must not be negative")
	}
	encoded, err := rlp.EncodeToBytes(balance)
	if err != nil {
		return fmt.Errorf("state: encode token balance: %w", err)
	}
	return m.db.Put(tokenBalanceKey(token, holder), encoded)
}

// --- Launchpad projects ---

// LaunchpadProjectGet loads the full per-symbol campaign record.
func (m *Manager) LaunchpadProjectGet(symbol string) (*launchpad.Project, bool, error) {
	data, err := m.get(projectKey(symbol))
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	project := new(launchpad.Project)
	if err := rlp.DecodeBytes(data, project); err != nil {
		return nil, false, fmt.Errorf("state: decode project %q: %w", symbol, err)
	}
	return project, true, nil
}

// LaunchpadProjectPut persists the campaign record and indexes its symbol.
func (m *Manager) LaunchpadProjectPut(project *launchpad.Project) error {
	if project == nil || project.Symbol == "" {
		return fmt.Errorf("state: project symbol required")
	}
	encoded, err := rlp.EncodeToBytes(project)
	if err != nil {
		return fmt.Errorf("state: encode project %q: %w", project.Symbol, err)
	}
	if err := m.db.Put(projectKey(project.Symbol), encoded); err != nil {
		return err
	}
	return m.indexSymbol(project.Symbol, true)
}

// LaunchpadProjectDelete clears all state for the symbol so it can host a new
// campaign.
func (m *Manager) LaunchpadProjectDelete(symbol string) error {
	if err := m.db.Delete(projectKey(symbol)); err != nil {
		return err
	}
	return m.indexSymbol(symbol, false)
}

// LaunchpadSymbols returns every symbol with a stored campaign, sorted.
func (m *Manager) LaunchpadSymbols() ([]string, error) {
	data, err := m.get(symbolListKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	var list []string
	if err := rlp.DecodeBytes(data, &list); err != nil {
		return nil, fmt.Errorf("state: decode symbol list: %w", err)
	}
	return list, nil
}

func (m *Manager) indexSymbol(symbol string, present bool) error {
	list, err := m.LaunchpadSymbols()
	if err != nil {
		return err
	}
	idx := sort.SearchStrings(list, symbol)
	found := idx < len(list) && list[idx] == symbol
	switch {
	case present && !found:
		list = append(list, "")
		copy(list[idx+1:], list[idx:])
		list[idx] = symbol
	case !present && found:
		list = append(list[:idx], list[idx+1:]...)
	default:
		return nil
	}
	encoded, err := rlp.EncodeToBytes(list)
	if err != nil {
		return fmt.Errorf("state: encode symbol list: %w", err)
	}
	return m.db.Put(symbolListKey, encoded)
}

// --- Launchpad globals ---

// LaunchpadOwnerGet returns the recorded administrator, ok=false when the
// ledger has never been initialised.
func (m *Manager) LaunchpadOwnerGet() ([20]byte, bool, error) {
	var owner [20]byte
	data, err := m.get(ownerKey)
	if err != nil {
		return owner, false, err
	}
	if len(data) != len(owner) {
		return owner, false, nil
	}
	copy(owner[:], data)
	return owner, true, nil
}

// LaunchpadOwnerPut records the administrator address.
func (m *Manager) LaunchpadOwnerPut(owner [20]byte) error {
	return m.db.Put(ownerKey, owner[:])
}

// LaunchpadBatchSizeGet returns the configured global batch size, ok=false
// when the default applies.
func (m *Manager) LaunchpadBatchSizeGet() (uint64, bool, error) {
	data, err := m.get(batchSizeKey)
	if err != nil {
		return 0, false, err
	}
	if len(data) == 0 {
		return 0, false, nil
	}
	var size uint64
	if err := rlp.DecodeBytes(data, &size); err != nil {
		return 0, false, fmt.Errorf("state: decode batch size: %w", err)
	}
	return size, true, nil
}

// LaunchpadBatchSizePut records the global batch size.
func (m *Manager) LaunchpadBatchSizePut(size uint64) error {
	encoded, err := rlp.EncodeToBytes(size)
	if err != nil {
		return fmt.Errorf("state: encode batch size: %w", err)
	}
	return m.db.Put(batchSizeKey, encoded)
}
