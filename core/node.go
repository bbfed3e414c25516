package core

import (
	"fmt"
	"math/big"
	"sync"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"launchpad/core/events"
	"launchpad/core/genesis"
	lpstate "launchpad/core/state"
	"launchpad/core/types"
	"launchpad/crypto"
	"launchpad/native/launchpad"
	"launchpad/native/token"
	"launchpad/observability/metrics"
	"launchpad/storage"
)

var genesisAppliedKey = []byte("core/genesis-applied")

// Node is the central controller, wiring storage, state and the native
// engines together. Every public method takes the state mutex so callers
// observe a serialized ledger.
type Node struct {
	db      storage.Database
	manager *lpstate.Manager
	bus     *events.Bus
	metrics *metrics.LaunchpadMetrics
	vault   [20]byte
	stateMu sync.Mutex
}

func NewNode(db storage.Database) (*Node, error) {
	if db == nil {
		return nil, fmt.Errorf("node requires a database")
	}
	return &Node{
		db:      db,
		manager: lpstate.NewManager(db),
		bus:     events.NewBus(),
		metrics: metrics.Launchpad(),
		vault:   VaultAddress(),
	}, nil
}

// VaultAddress derives the escrow vault account. The address has no known
// private key, so funds held there can only move through engine operations.
func VaultAddress() [20]byte {
	var vault [20]byte
	digest := gethcrypto.Keccak256([]byte("launchpad/vault"))
	copy(vault[:], digest[12:])
	return vault
}

// Bus exposes the event bus so services can subscribe before operations run.
func (n *Node) Bus() *events.Bus {
	return n.bus
}

// Vault returns the escrow vault account address.
func (n *Node) Vault() [20]byte {
	return n.vault
}

// ApplyGenesis seeds the ledger from the genesis document. It is a no-op on a
// database where genesis has already been applied.
func (n *Node) ApplyGenesis(gen *genesis.Genesis) error {
	if gen == nil {
		return fmt.Errorf("genesis document required")
	}
	if err := gen.Validate(); err != nil {
		return err
	}

	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	if _, err := n.db.Get(genesisAppliedKey); err == nil {
		return nil
	} else if err != storage.ErrNotFound {
		return err
	}

	owner, err := gen.OwnerAddress()
	if err != nil {
		return err
	}
	engine := n.newLaunchpadEngine()
	if err := engine.InitOwner(owner); err != nil {
		return err
	}
	if gen.MaxBatchSize > 0 {
		if err := engine.SetMaxBatchSize(owner, gen.MaxBatchSize); err != nil {
			return err
		}
	}

	for _, alloc := range gen.SortedAccounts() {
		addr, err := decodeGenesisAddress(alloc.Address)
		if err != nil {
			return err
		}
		balance, err := genesis.ParseAmount(alloc.Balance)
		if err != nil {
			return err
		}
		account := types.NewAccount()
		account.Balance = balance
		if err := n.manager.PutAccount(addr[:], account); err != nil {
			return err
		}
	}

	ledger := token.NewLedger(n.manager)
	for _, mint := range gen.SortedTokenMints() {
		tok, err := genesis.ParseToken(mint.Token)
		if err != nil {
			return err
		}
		holder, err := decodeGenesisAddress(mint.Holder)
		if err != nil {
			return err
		}
		amount, err := genesis.ParseAmount(mint.Amount)
		if err != nil {
			return err
		}
		if err := ledger.Mint(tok, holder, amount); err != nil {
			return err
		}
	}

	return n.db.Put(genesisAppliedKey, []byte{1})
}

func (n *Node) newLaunchpadEngine() *launchpad.Engine {
	engine := launchpad.NewEngine()
	engine.SetState(n.manager)
	engine.SetTokenLedger(token.NewLedger(n.manager))
	engine.SetVault(n.vault)
	engine.SetEmitter(launchpadEventEmitter{node: n})
	return engine
}

// launchpadEventEmitter forwards engine events onto the node bus.
type launchpadEventEmitter struct {
	node *Node
}

func (e launchpadEventEmitter) Emit(evt events.Event) {
	if e.node == nil || e.node.bus == nil {
		return
	}
	e.node.bus.Emit(evt)
}

// --- ownership ---

// LaunchpadInitOwner bootstraps the administrator on a node that started
// without a genesis document. It is a no-op once an owner is recorded.
func (n *Node) LaunchpadInitOwner(owner [20]byte) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().InitOwner(owner)
}

func (n *Node) LaunchpadOwner() ([20]byte, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().Owner()
}

func (n *Node) LaunchpadTransferOwnership(caller, next [20]byte) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().TransferOwnership(caller, next)
}

// --- settings ---

func (n *Node) LaunchpadMaxBatchSize() (uint64, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().MaxBatchSize()
}

func (n *Node) LaunchpadSetMaxBatchSize(caller [20]byte, size uint64) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().SetMaxBatchSize(caller, size)
}

func (n *Node) LaunchpadProjectMaxBatchSize(symbol string) (uint64, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().ProjectMaxBatchSize(symbol)
}

// --- project lifecycle ---

func (n *Node) LaunchpadSetProjectMeta(caller [20]byte, symbol, name string, startBlock uint64, minInvest, maxInvest *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().SetProjectMeta(caller, symbol, name, startBlock, minInvest, maxInvest)
}

func (n *Node) LaunchpadSetTokenMetaData(caller [20]byte, symbol string, tok [20]byte, totalSupply, multiplier *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().SetTokenMetaData(caller, symbol, tok, totalSupply, multiplier)
}

func (n *Node) LaunchpadOpenProject(caller [20]byte, symbol string, recipient [20]byte) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	err := n.newLaunchpadEngine().OpenProject(caller, symbol, recipient)
	if err == nil {
		n.metrics.RecordOpen()
	}
	return err
}

func (n *Node) LaunchpadInvest(investor [20]byte, symbol string, amount *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	err := n.newLaunchpadEngine().Invest(investor, symbol, amount)
	if err != nil {
		n.metrics.RecordRejection("investment")
		return err
	}
	n.metrics.RecordInvestment(symbol)
	return nil
}

func (n *Node) LaunchpadCloseProjectSuccess(caller [20]byte, symbol string) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	err := n.newLaunchpadEngine().CloseProjectSuccess(caller, symbol)
	if err == nil {
		n.metrics.RecordClose("success")
	}
	return err
}

func (n *Node) LaunchpadCloseProjectFail(caller [20]byte, symbol string) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	err := n.newLaunchpadEngine().CloseProjectFail(caller, symbol)
	if err == nil {
		n.metrics.RecordClose("fail")
	}
	return err
}

// --- settlement ---

func (n *Node) LaunchpadExecuteBatchAirDropToken(symbol string, batchIndex uint64) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	err := n.newLaunchpadEngine().ExecuteBatchAirDropToken(symbol, batchIndex)
	if err == nil {
		n.metrics.RecordBatch(launchpad.BatchKindToken)
	}
	return err
}

func (n *Node) LaunchpadExecuteBatchAirDropCoin(symbol string, batchIndex uint64) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	err := n.newLaunchpadEngine().ExecuteBatchAirDropCoin(symbol, batchIndex)
	if err == nil {
		n.metrics.RecordBatch(launchpad.BatchKindCoin)
	}
	return err
}

func (n *Node) LaunchpadRemainedTokenClaim(caller [20]byte, symbol string, to [20]byte) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().RemainedTokenClaim(caller, symbol, to)
}

func (n *Node) LaunchpadRefreshFailedProjectSymbol(caller [20]byte, symbol string) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().RefreshFailedProjectSymbol(caller, symbol)
}

// --- read accessors ---

func (n *Node) LaunchpadProjectMetaData(symbol string) (launchpad.ProjectMeta, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().ProjectMetaData(symbol)
}

func (n *Node) LaunchpadTokenMetaData(symbol string) (launchpad.TokenMeta, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().TokenMetaData(symbol)
}

func (n *Node) LaunchpadProcessInfo(symbol string) (launchpad.ProcessInfo, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().ProcessInfoOf(symbol)
}

func (n *Node) LaunchpadRemainingQuantity(symbol string) (*big.Int, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().RemainingQuantity(symbol)
}

func (n *Node) LaunchpadTotalInvested(symbol string) (*big.Int, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().TotalInvested(symbol)
}

func (n *Node) LaunchpadRecipient(symbol string) ([20]byte, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().Recipient(symbol)
}

func (n *Node) LaunchpadIsOpen(symbol string) (bool, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().IsOpen(symbol)
}

func (n *Node) LaunchpadUserInvestment(symbol string, investor [20]byte) (*big.Int, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().UserInvestment(symbol, investor)
}

func (n *Node) LaunchpadUserListLength(symbol string) (uint64, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().UserListLength(symbol)
}

func (n *Node) LaunchpadBatchLength(symbol string) (uint64, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().BatchLength(symbol)
}

func (n *Node) LaunchpadBatchExecuted(symbol string, batchIndex uint64) (bool, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().BatchExecuted(symbol, batchIndex)
}

func (n *Node) LaunchpadCalcBatchAirDropToken(symbol string, batchIndex uint64) (*big.Int, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.newLaunchpadEngine().CalcBatchAirDropToken(symbol, batchIndex)
}

func (n *Node) LaunchpadSymbols() ([]string, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.manager.LaunchpadSymbols()
}

// --- account and token views ---

func (n *Node) GetAccount(addr [20]byte) (*types.Account, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.manager.GetAccount(addr[:])
}

func (n *Node) TokenBalance(tok [20]byte, holder [20]byte) (*big.Int, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return token.NewLedger(n.manager).BalanceOf(tok, holder)
}

func decodeGenesisAddress(raw string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(raw)
	if err != nil {
		return [20]byte{}, err
	}
	return addr.Array(), nil
}
