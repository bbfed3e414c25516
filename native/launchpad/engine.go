package launchpad

import (
	"errors"
	"math/big"
	"strings"

	"launchpad/core/events"
	"launchpad/core/types"
)

// defaultBatchSize bounds how many investors one settlement call pays out when
// no explicit size has been configured.
const defaultBatchSize = 5

var (
	errNilState     = errors.New("launchpad engine: state not configured")
	errNilTokens    = errors.New("launchpad engine: token ledger not configured")
	errNilVault     = errors.New("launchpad engine: escrow vault not configured")
	errVaultDrained = errors.New("launchpad engine: escrow vault underfunded")

	// ErrUnauthorized rejects administrator calls from a non-owner address.
	ErrUnauthorized = errors.New("launchpad: caller is not the owner")
	// ErrOwnerNotSet indicates the administrator was never initialised.
	ErrOwnerNotSet = errors.New("launchpad: owner not set")

	// ErrProjectNotFound rejects reads and settlement against unknown symbols.
	ErrProjectNotFound = errors.New("launchpad: project not found")
	// ErrMetaAlreadySet rejects a second setProjectMeta for a symbol.
	ErrMetaAlreadySet = errors.New("launchpad: project meta already set")
	// ErrMetaNotSet gates calls that require project metadata first.
	ErrMetaNotSet = errors.New("launchpad: project meta not set yet")
	// ErrTokenMetaAlreadySet rejects a second setTokenMetaData for a symbol.
	ErrTokenMetaAlreadySet = errors.New("launchpad: token meta already set")
	// ErrTokenMetaNotSet gates openProject until the payout token is configured.
	ErrTokenMetaNotSet = errors.New("launchpad: token meta not set yet")
	// ErrAlreadyOpen rejects reopening an open project.
	ErrAlreadyOpen = errors.New("launchpad: project already opened")
	// ErrAlreadyResolved rejects opening a project that has closed.
	ErrAlreadyResolved = errors.New("launchpad: project already resolved")
	// ErrNotOpen gates investment and close calls on the open flag.
	ErrNotOpen = errors.New("launchpad: proposal not opened")

	// ErrInvalidSymbol rejects empty project symbols.
	ErrInvalidSymbol = errors.New("launchpad: symbol required")
	// ErrInvalidLimits rejects per-user limits with min above max.
	ErrInvalidLimits = errors.New("launchpad: min invest exceeds max invest")
	// ErrInvalidAmount rejects nil or non-positive amounts.
	ErrInvalidAmount = errors.New("launchpad: amount must be positive")
	// ErrInvalidRecipient rejects the zero address as a funds recipient.
	ErrInvalidRecipient = errors.New("launchpad: recipient required")
	// ErrInvalidBatchSize rejects a zero batch size.
	ErrInvalidBatchSize = errors.New("launchpad: batch size must be positive")

	// ErrBelowMinimum rejects investments under the per-user minimum.
	ErrBelowMinimum = errors.New("launchpad: lack minInvestPerUser")
	// ErrAboveMaximum rejects investments over the per-user maximum.
	ErrAboveMaximum = errors.New("launchpad: over maxInvestPerUser")
	// ErrDuplicateInvestor rejects a second investment from the same address.
	ErrDuplicateInvestor = errors.New("launchpad: user already invest this project")
	// ErrCapacityExceeded rejects investments beyond the remaining capacity.
	ErrCapacityExceeded = errors.New("launchpad: over remainingQuantity")
	// ErrInsufficientFunds rejects investors without the coin they pledge.
	ErrInsufficientFunds = errors.New("launchpad: insufficient coin balance")

	// ErrInsufficientTokenBalance gates success close on pre-funded tokens.
	ErrInsufficientTokenBalance = errors.New("launchpad: lack of token balance")
	// ErrProjectNotSucceeded gates token airdrops and the remainder claim.
	ErrProjectNotSucceeded = errors.New("launchpad: project not succeed")
	// ErrProjectNotFailed gates coin refunds and symbol archival.
	ErrProjectNotFailed = errors.New("launchpad: project not failed")
	// ErrInvalidBatchIndex rejects batch indexes at or beyond the batch length.
	ErrInvalidBatchIndex = errors.New("launchpad: invalid batch index")
	// ErrBatchAlreadyExecuted rejects replaying a settled batch.
	ErrBatchAlreadyExecuted = errors.New("launchpad: batch already executed")
	// ErrBatchesIncomplete gates reclamation and archival on full settlement.
	ErrBatchesIncomplete = errors.New("launchpad: batches not complete")
	// ErrAlreadyClaimed rejects a second remained-token claim.
	ErrAlreadyClaimed = errors.New("launchpad: remained token already claimed")
)

type engineState interface {
	LaunchpadProjectGet(symbol string) (*Project, bool, error)
	LaunchpadProjectPut(project *Project) error
	LaunchpadProjectDelete(symbol string) error
	LaunchpadOwnerGet() ([20]byte, bool, error)
	LaunchpadOwnerPut(owner [20]byte) error
	LaunchpadBatchSizeGet() (uint64, bool, error)
	LaunchpadBatchSizePut(size uint64) error
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

// TokenLedger is the fungible-asset capability the engine consumes. It is
// deliberately minimal: balance inspection before success close and transfers
// out of the escrow vault during settlement.
type TokenLedger interface {
	BalanceOf(token [20]byte, holder [20]byte) (*big.Int, error)
	Transfer(token [20]byte, from [20]byte, to [20]byte, amount *big.Int) error
}

// Engine wires the launchpad ledger logic with persistence, token transfers
// and event emission. It performs no locking of its own; the hosting node
// serialises every entry point.
type Engine struct {
	state   engineState
	tokens  TokenLedger
	emitter events.Emitter
	vault   [20]byte
}

// NewEngine constructs a launchpad engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetTokenLedger configures the fungible-asset collaborator.
func (e *Engine) SetTokenLedger(ledger TokenLedger) { e.tokens = ledger }

// SetVault configures the module account that escrows invested coin and holds
// pre-funded payout tokens.
func (e *Engine) SetVault(addr [20]byte) { e.vault = addr }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// Vault returns the configured escrow vault address.
func (e *Engine) Vault() [20]byte { return e.vault }

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	return nil
}

func (e *Engine) readyForSettlement() error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.tokens == nil {
		return errNilTokens
	}
	if e.vault == ([20]byte{}) {
		return errNilVault
	}
	return nil
}

func sanitizeSymbol(symbol string) (string, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return "", ErrInvalidSymbol
	}
	return trimmed, nil
}

// --- Access control ---

// Owner returns the current administrator address.
func (e *Engine) Owner() ([20]byte, error) {
	if err := e.ready(); err != nil {
		return [20]byte{}, err
	}
	owner, ok, err := e.state.LaunchpadOwnerGet()
	if err != nil {
		return [20]byte{}, err
	}
	if !ok {
		return [20]byte{}, ErrOwnerNotSet
	}
	return owner, nil
}

// InitOwner bootstraps the administrator on first start. It is a no-op when
// an owner is already recorded so restarts never overwrite a transfer.
func (e *Engine) InitOwner(owner [20]byte) error {
	if err := e.ready(); err != nil {
		return err
	}
	if _, ok, err := e.state.LaunchpadOwnerGet(); err != nil {
		return err
	} else if ok {
		return nil
	}
	return e.state.LaunchpadOwnerPut(owner)
}

// TransferOwnership atomically replaces the administrator. In-flight project
// state is untouched.
func (e *Engine) TransferOwnership(caller, newOwner [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if newOwner == ([20]byte{}) {
		return ErrInvalidRecipient
	}
	if err := e.state.LaunchpadOwnerPut(newOwner); err != nil {
		return err
	}
	e.emit(OwnershipTransferredEvent(caller, newOwner))
	return nil
}

func (e *Engine) requireOwner(caller [20]byte) error {
	owner, err := e.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	return nil
}

// --- Batch size configuration ---

// MaxBatchSize returns the global batch size applied to future settlements.
func (e *Engine) MaxBatchSize() (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	size, ok, err := e.state.LaunchpadBatchSizeGet()
	if err != nil {
		return 0, err
	}
	if !ok || size == 0 {
		return defaultBatchSize, nil
	}
	return size, nil
}

// SetMaxBatchSize adjusts the global batch size. Projects that already closed
// keep the size snapshotted at close time.
func (e *Engine) SetMaxBatchSize(caller [20]byte, size uint64) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if size == 0 {
		return ErrInvalidBatchSize
	}
	return e.state.LaunchpadBatchSizePut(size)
}

// ProjectMaxBatchSize returns the batch size effective for the symbol: the
// close-time snapshot, or the current global value while unresolved.
func (e *Engine) ProjectMaxBatchSize(symbol string) (uint64, error) {
	project, global, err := e.loadProjectWithBatchSize(symbol)
	if err != nil {
		return 0, err
	}
	return project.EffectiveBatchSize(global), nil
}

// --- Project registry ---

// SetProjectMeta records the write-once campaign configuration for a symbol.
func (e *Engine) SetProjectMeta(caller [20]byte, symbol, name string, startBlock uint64, minInvest, maxInvest *big.Int) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	symbol, err := sanitizeSymbol(symbol)
	if err != nil {
		return err
	}
	if minInvest == nil || minInvest.Sign() <= 0 || maxInvest == nil || maxInvest.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if minInvest.Cmp(maxInvest) > 0 {
		return ErrInvalidLimits
	}
	project, ok, err := e.state.LaunchpadProjectGet(symbol)
	if err != nil {
		return err
	}
	if !ok || project == nil {
		project = newProject(symbol)
	}
	if project.Meta.Set {
		return ErrMetaAlreadySet
	}
	project.Meta = ProjectMeta{
		Name:       strings.TrimSpace(name),
		StartBlock: startBlock,
		MinInvest:  cloneBigInt(minInvest),
		MaxInvest:  cloneBigInt(maxInvest),
		Set:        true,
	}
	return e.state.LaunchpadProjectPut(project)
}

// SetTokenMetaData records the write-once payout-token configuration and
// initialises the remaining capacity to the full supply.
func (e *Engine) SetTokenMetaData(caller [20]byte, symbol string, token [20]byte, totalSupply, multiplier *big.Int) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	symbol, err := sanitizeSymbol(symbol)
	if err != nil {
		return err
	}
	if token == ([20]byte{}) {
		return ErrInvalidRecipient
	}
	if totalSupply == nil || totalSupply.Sign() <= 0 || multiplier == nil || multiplier.Sign() <= 0 {
		return ErrInvalidAmount
	}
	project, ok, err := e.state.LaunchpadProjectGet(symbol)
	if err != nil {
		return err
	}
	if !ok || project == nil || !project.Meta.Set {
		return ErrMetaNotSet
	}
	if project.Token.Set {
		return ErrTokenMetaAlreadySet
	}
	project.Token = TokenMeta{
		Token:       token,
		TotalSupply: cloneBigInt(totalSupply),
		Multiplier:  cloneBigInt(multiplier),
		Set:         true,
	}
	project.Process.TotalInvested = big.NewInt(0)
	project.Process.RemainingQuantity = cloneBigInt(totalSupply)
	return e.state.LaunchpadProjectPut(project)
}

func newProject(symbol string) *Project {
	return &Project{
		Symbol: symbol,
		Meta:   ProjectMeta{MinInvest: big.NewInt(0), MaxInvest: big.NewInt(0)},
		Token:  TokenMeta{TotalSupply: big.NewInt(0), Multiplier: big.NewInt(0)},
		Process: ProcessInfo{
			TotalInvested:     big.NewInt(0),
			RemainingQuantity: big.NewInt(0),
		},
	}
}

func (e *Engine) loadProject(symbol string) (*Project, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	symbol, err := sanitizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	project, ok, err := e.state.LaunchpadProjectGet(symbol)
	if err != nil {
		return nil, err
	}
	if !ok || project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (e *Engine) loadProjectWithBatchSize(symbol string) (*Project, uint64, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return nil, 0, err
	}
	global, err := e.MaxBatchSize()
	if err != nil {
		return nil, 0, err
	}
	return project, global, nil
}

// --- Admission ---

// OpenProject starts accepting investments for a fully configured symbol.
func (e *Engine) OpenProject(caller [20]byte, symbol string, recipient [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	symbol, err := sanitizeSymbol(symbol)
	if err != nil {
		return err
	}
	// The escrow vault can never be a payout destination: a vault-to-vault
	// transfer would break coin conservation at close.
	if recipient == ([20]byte{}) || recipient == e.vault {
		return ErrInvalidRecipient
	}
	project, ok, err := e.state.LaunchpadProjectGet(symbol)
	if err != nil {
		return err
	}
	if !ok || project == nil || !project.Meta.Set {
		return ErrMetaNotSet
	}
	if !project.Token.Set {
		return ErrTokenMetaNotSet
	}
	if project.Process.Succeed || project.Process.Failed {
		return ErrAlreadyResolved
	}
	if project.Process.Open {
		return ErrAlreadyOpen
	}
	project.Process.Recipient = recipient
	project.Process.Open = true
	if err := e.state.LaunchpadProjectPut(project); err != nil {
		return err
	}
	e.emit(ProjectOpenedEvent(symbol, recipient))
	return nil
}

// Invest admits one contribution from an investor. The pledged coin moves
// from the investor's account into the escrow vault, where it stays until the
// project resolves.
func (e *Engine) Invest(investor [20]byte, symbol string, amount *big.Int) error {
	if err := e.readyForSettlement(); err != nil {
		return err
	}
	symbol, err := sanitizeSymbol(symbol)
	if err != nil {
		return err
	}
	project, ok, err := e.state.LaunchpadProjectGet(symbol)
	if err != nil {
		return err
	}
	if !ok || project == nil || !project.Process.Open {
		return ErrNotOpen
	}
	// The vault cannot invest in itself; its balance is escrow, not capital.
	if investor == e.vault {
		return ErrInvalidRecipient
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.Cmp(project.Meta.MinInvest) < 0 {
		return ErrBelowMinimum
	}
	if amount.Cmp(project.Meta.MaxInvest) > 0 {
		return ErrAboveMaximum
	}
	if _, exists := project.InvestorAmount(investor); exists {
		return ErrDuplicateInvestor
	}
	if amount.Cmp(project.Process.RemainingQuantity) > 0 {
		return ErrCapacityExceeded
	}
	investorAcc, err := e.state.GetAccount(investor[:])
	if err != nil {
		return err
	}
	investorAcc = ensureAccount(investorAcc)
	if investorAcc.Balance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	project.Investors = append(project.Investors, Investment{Investor: investor, Amount: cloneBigInt(amount)})
	project.Process.InvestUserNum++
	project.Process.TotalInvested = new(big.Int).Add(project.Process.TotalInvested, amount)
	project.Process.RemainingQuantity = new(big.Int).Sub(project.Process.RemainingQuantity, amount)
	if err := e.state.LaunchpadProjectPut(project); err != nil {
		return err
	}
	if err := e.transferCoin(investor, e.vault, amount); err != nil {
		return err
	}
	e.emit(InvestedEvent(symbol, investor, amount.String(), project.Process.InvestUserNum))
	return nil
}

// --- Settlement ---

// CloseProjectSuccess resolves an open project as successful. The owner must
// have pre-funded the vault with the full token amount owed for the raised
// total; the escrowed coin is paid out to the recipient in the same call.
// Token distribution itself runs separately in batches.
func (e *Engine) CloseProjectSuccess(caller [20]byte, symbol string) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if err := e.readyForSettlement(); err != nil {
		return err
	}
	project, global, err := e.loadProjectWithBatchSize(symbol)
	if err != nil {
		return err
	}
	if !project.Process.Open {
		return ErrNotOpen
	}
	owed := TokensFor(project.Process.TotalInvested, project.Token.Multiplier)
	balance, err := e.tokens.BalanceOf(project.Token.Token, e.vault)
	if err != nil {
		return err
	}
	if balance.Cmp(owed) < 0 {
		return ErrInsufficientTokenBalance
	}

	project.Process.Open = false
	project.Process.Succeed = true
	project.Process.BatchSize = project.EffectiveBatchSize(global)
	project.Batches = make([]bool, project.BatchLength(global))
	if err := e.state.LaunchpadProjectPut(project); err != nil {
		return err
	}
	if err := e.transferCoin(e.vault, project.Process.Recipient, project.Process.TotalInvested); err != nil {
		return err
	}
	e.emit(ProjectClosedEvent(project.Symbol, "success"))
	return nil
}

// CloseProjectFail resolves an open project as failed. No funds move here;
// refunds run separately in batches.
func (e *Engine) CloseProjectFail(caller [20]byte, symbol string) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	project, global, err := e.loadProjectWithBatchSize(symbol)
	if err != nil {
		return err
	}
	if !project.Process.Open {
		return ErrNotOpen
	}
	project.Process.Open = false
	project.Process.Failed = true
	project.Process.BatchSize = project.EffectiveBatchSize(global)
	project.Batches = make([]bool, project.BatchLength(global))
	if err := e.state.LaunchpadProjectPut(project); err != nil {
		return err
	}
	e.emit(ProjectClosedEvent(project.Symbol, "failed"))
	return nil
}

// ExecuteBatchAirDropToken pays the token allocation for one batch of a
// successful project. Callable by anyone; a batch settles at most once and a
// replay is rejected rather than ignored so the caller observes it.
func (e *Engine) ExecuteBatchAirDropToken(symbol string, index uint64) error {
	if err := e.readyForSettlement(); err != nil {
		return err
	}
	project, err := e.loadProject(symbol)
	if err != nil {
		return err
	}
	if !project.Process.Succeed {
		return ErrProjectNotSucceeded
	}
	if index >= uint64(len(project.Batches)) {
		return ErrInvalidBatchIndex
	}
	if project.Batches[index] {
		return ErrBatchAlreadyExecuted
	}
	slice := project.BatchSlice(index, project.Process.BatchSize)
	total := big.NewInt(0)
	for _, inv := range slice {
		total.Add(total, TokensFor(inv.Amount, project.Token.Multiplier))
	}
	balance, err := e.tokens.BalanceOf(project.Token.Token, e.vault)
	if err != nil {
		return err
	}
	if balance.Cmp(total) < 0 {
		return ErrInsufficientTokenBalance
	}

	project.Batches[index] = true
	if err := e.state.LaunchpadProjectPut(project); err != nil {
		return err
	}
	for _, inv := range slice {
		amount := TokensFor(inv.Amount, project.Token.Multiplier)
		if amount.Sign() == 0 {
			continue
		}
		if err := e.tokens.Transfer(project.Token.Token, e.vault, inv.Investor, amount); err != nil {
			return err
		}
	}
	e.emit(BatchExecutedEvent(project.Symbol, index, BatchKindToken))
	return nil
}

// ExecuteBatchAirDropCoin refunds one batch of a failed project from escrow.
// Each investor receives exactly their recorded investment.
func (e *Engine) ExecuteBatchAirDropCoin(symbol string, index uint64) error {
	if err := e.readyForSettlement(); err != nil {
		return err
	}
	project, err := e.loadProject(symbol)
	if err != nil {
		return err
	}
	if !project.Process.Failed {
		return ErrProjectNotFailed
	}
	if index >= uint64(len(project.Batches)) {
		return ErrInvalidBatchIndex
	}
	if project.Batches[index] {
		return ErrBatchAlreadyExecuted
	}
	slice := project.BatchSlice(index, project.Process.BatchSize)
	total := big.NewInt(0)
	for _, inv := range slice {
		total.Add(total, inv.Amount)
	}
	vaultAcc, err := e.state.GetAccount(e.vault[:])
	if err != nil {
		return err
	}
	if ensureAccount(vaultAcc).Balance.Cmp(total) < 0 {
		// Conservation guarantees escrow coverage; reaching this means the
		// vault was tampered with outside the ledger.
		return errVaultDrained
	}

	project.Batches[index] = true
	if err := e.state.LaunchpadProjectPut(project); err != nil {
		return err
	}
	for _, inv := range slice {
		if err := e.transferCoin(e.vault, inv.Investor, inv.Amount); err != nil {
			return err
		}
	}
	e.emit(BatchExecutedEvent(project.Symbol, index, BatchKindCoin))
	return nil
}

// RemainedTokenClaim transfers the unsold token allocation to the supplied
// address once every airdrop batch has settled. Single-shot.
func (e *Engine) RemainedTokenClaim(caller [20]byte, symbol string, to [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if err := e.readyForSettlement(); err != nil {
		return err
	}
	if to == ([20]byte{}) || to == e.vault {
		return ErrInvalidRecipient
	}
	project, err := e.loadProject(symbol)
	if err != nil {
		return err
	}
	if !project.Process.Succeed {
		return ErrProjectNotSucceeded
	}
	if !project.AllBatchesExecuted() {
		return ErrBatchesIncomplete
	}
	if project.Process.RemainClaimed {
		return ErrAlreadyClaimed
	}
	amount := TokensFor(project.Process.RemainingQuantity, project.Token.Multiplier)
	balance, err := e.tokens.BalanceOf(project.Token.Token, e.vault)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientTokenBalance
	}
	project.Process.RemainClaimed = true
	if err := e.state.LaunchpadProjectPut(project); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		if err := e.tokens.Transfer(project.Token.Token, e.vault, to, amount); err != nil {
			return err
		}
	}
	e.emit(RemainClaimedEvent(project.Symbol, to, amount.String()))
	return nil
}

// RefreshFailedProjectSymbol clears all per-symbol state once a failed
// project has refunded every batch, freeing the symbol for a new campaign.
func (e *Engine) RefreshFailedProjectSymbol(caller [20]byte, symbol string) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	project, err := e.loadProject(symbol)
	if err != nil {
		return err
	}
	if !project.Process.Failed {
		return ErrProjectNotFailed
	}
	if !project.AllBatchesExecuted() {
		return ErrBatchesIncomplete
	}
	if err := e.state.LaunchpadProjectDelete(project.Symbol); err != nil {
		return err
	}
	e.emit(ProjectRefreshedEvent(project.Symbol))
	return nil
}

// --- Read accessors ---

// ProjectMetaData returns a copy of the campaign configuration.
func (e *Engine) ProjectMetaData(symbol string) (ProjectMeta, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return ProjectMeta{}, err
	}
	return project.Clone().Meta, nil
}

// TokenMetaData returns a copy of the payout-token configuration.
func (e *Engine) TokenMetaData(symbol string) (TokenMeta, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return TokenMeta{}, err
	}
	return project.Clone().Token, nil
}

// ProcessInfoOf returns a copy of the mutable campaign state.
func (e *Engine) ProcessInfoOf(symbol string) (ProcessInfo, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return ProcessInfo{}, err
	}
	return project.Clone().Process, nil
}

// RemainingQuantity returns the capacity still open to investment.
func (e *Engine) RemainingQuantity(symbol string) (*big.Int, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return nil, err
	}
	return cloneBigInt(project.Process.RemainingQuantity), nil
}

// TotalInvested returns the sum of all admitted investments.
func (e *Engine) TotalInvested(symbol string) (*big.Int, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return nil, err
	}
	return cloneBigInt(project.Process.TotalInvested), nil
}

// Recipient returns the address credited with raised funds on success.
func (e *Engine) Recipient(symbol string) ([20]byte, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return [20]byte{}, err
	}
	return project.Process.Recipient, nil
}

// IsOpen reports whether the project currently accepts investments.
func (e *Engine) IsOpen(symbol string) (bool, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return false, err
	}
	return project.Process.Open, nil
}

// UserInvestment returns the recorded investment for an address, zero if the
// address never invested.
func (e *Engine) UserInvestment(symbol string, investor [20]byte) (*big.Int, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return nil, err
	}
	amount, _ := project.InvestorAmount(investor)
	return amount, nil
}

// UserListLength returns the number of admitted investors.
func (e *Engine) UserListLength(symbol string) (uint64, error) {
	project, err := e.loadProject(symbol)
	if err != nil {
		return 0, err
	}
	return uint64(len(project.Investors)), nil
}

// BatchLength returns how many settlement batches the project spans.
func (e *Engine) BatchLength(symbol string) (uint64, error) {
	project, global, err := e.loadProjectWithBatchSize(symbol)
	if err != nil {
		return 0, err
	}
	return project.BatchLength(global), nil
}

// BatchExecuted reports whether the batch at the given index has settled.
func (e *Engine) BatchExecuted(symbol string, index uint64) (bool, error) {
	project, global, err := e.loadProjectWithBatchSize(symbol)
	if err != nil {
		return false, err
	}
	if index >= project.BatchLength(global) {
		return false, ErrInvalidBatchIndex
	}
	if index >= uint64(len(project.Batches)) {
		return false, nil
	}
	return project.Batches[index], nil
}

// CalcBatchAirDropToken returns the total token amount the batch would
// receive if airdropped now.
func (e *Engine) CalcBatchAirDropToken(symbol string, index uint64) (*big.Int, error) {
	project, global, err := e.loadProjectWithBatchSize(symbol)
	if err != nil {
		return nil, err
	}
	if index >= project.BatchLength(global) {
		return nil, ErrInvalidBatchIndex
	}
	slice := project.BatchSlice(index, project.EffectiveBatchSize(global))
	total := big.NewInt(0)
	for _, inv := range slice {
		total.Add(total, TokensFor(inv.Amount, project.Token.Multiplier))
	}
	return total, nil
}

// --- Coin movement ---

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return types.NewAccount()
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}

func (e *Engine) transferCoin(from, to [20]byte, amount *big.Int) error {
	amt := cloneBigInt(amount)
	if amt.Sign() == 0 || from == to {
		return nil
	}
	fromAcc, err := e.state.GetAccount(from[:])
	if err != nil {
		return err
	}
	fromAcc = ensureAccount(fromAcc)
	if fromAcc.Balance.Cmp(amt) < 0 {
		return ErrInsufficientFunds
	}
	toAcc, err := e.state.GetAccount(to[:])
	if err != nil {
		return err
	}
	toAcc = ensureAccount(toAcc)
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amt)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amt)
	if err := e.state.PutAccount(from[:], fromAcc); err != nil {
		return err
	}
	return e.state.PutAccount(to[:], toAcc)
}
