package launchpad

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"launchpad/core/events"
	"launchpad/core/types"
)

type mockState struct {
	projects  map[string]*Project
	owner     *[20]byte
	batchSize uint64
	accounts  map[[20]byte]*types.Account
}

func newMockState() *mockState {
	return &mockState{
		projects: make(map[string]*Project),
		accounts: make(map[[20]byte]*types.Account),
	}
}

func (m *mockState) LaunchpadProjectGet(symbol string) (*Project, bool, error) {
	project, ok := m.projects[symbol]
	if !ok {
		return nil, false, nil
	}
	return project.Clone(), true, nil
}

func (m *mockState) LaunchpadProjectPut(project *Project) error {
	m.projects[project.Symbol] = project.Clone()
	return nil
}

func (m *mockState) LaunchpadProjectDelete(symbol string) error {
	delete(m.projects, symbol)
	return nil
}

func (m *mockState) LaunchpadOwnerGet() ([20]byte, bool, error) {
	if m.owner == nil {
		return [20]byte{}, false, nil
	}
	return *m.owner, true, nil
}

func (m *mockState) LaunchpadOwnerPut(owner [20]byte) error {
	m.owner = &owner
	return nil
}

func (m *mockState) LaunchpadBatchSizeGet() (uint64, bool, error) {
	if m.batchSize == 0 {
		return 0, false, nil
	}
	return m.batchSize, true, nil
}

func (m *mockState) LaunchpadBatchSizePut(size uint64) error {
	m.batchSize = size
	return nil
}

func (m *mockState) GetAccount(addr []byte) (*types.Account, error) {
	var key [20]byte
	copy(key[:], addr)
	acc, ok := m.accounts[key]
	if !ok {
		return types.NewAccount(), nil
	}
	return &types.Account{Nonce: acc.Nonce, Balance: new(big.Int).Set(acc.Balance)}, nil
}

func (m *mockState) PutAccount(addr []byte, account *types.Account) error {
	var key [20]byte
	copy(key[:], addr)
	m.accounts[key] = &types.Account{Nonce: account.Nonce, Balance: new(big.Int).Set(account.Balance)}
	return nil
}

func (m *mockState) fund(addr [20]byte, amount int64) {
	m.accounts[addr] = &types.Account{Balance: big.NewInt(amount)}
}

func (m *mockState) balance(addr [20]byte) *big.Int {
	acc, ok := m.accounts[addr]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(acc.Balance)
}

type mockLedger struct {
	balances map[[20]byte]map[[20]byte]*big.Int
}

func newMockLedger() *mockLedger {
	return &mockLedger{balances: make(map[[20]byte]map[[20]byte]*big.Int)}
}

func (m *mockLedger) BalanceOf(token [20]byte, holder [20]byte) (*big.Int, error) {
	holders, ok := m.balances[token]
	if !ok {
		return big.NewInt(0), nil
	}
	balance, ok := holders[holder]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(balance), nil
}

func (m *mockLedger) Transfer(token [20]byte, from [20]byte, to [20]byte, amount *big.Int) error {
	fromBal, _ := m.BalanceOf(token, from)
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientTokenBalance
	}
	toBal, _ := m.BalanceOf(token, to)
	if m.balances[token] == nil {
		m.balances[token] = make(map[[20]byte]*big.Int)
	}
	m.balances[token][from] = fromBal.Sub(fromBal, amount)
	m.balances[token][to] = toBal.Add(toBal, amount)
	return nil
}

func (m *mockLedger) mint(token [20]byte, holder [20]byte, amount int64) {
	if m.balances[token] == nil {
		m.balances[token] = make(map[[20]byte]*big.Int)
	}
	existing, _ := m.BalanceOf(token, holder)
	m.balances[token][holder] = existing.Add(existing, big.NewInt(amount))
}

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) {
	c.events = append(c.events, evt)
}

func (c *captureEmitter) typesSeen() []string {
	seen := make([]string, 0, len(c.events))
	for _, evt := range c.events {
		seen = append(seen, evt.EventType())
	}
	return seen
}

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}

var (
	owner     = addr(0x01)
	vault     = addr(0xee)
	recipient = addr(0x02)
	payToken  = addr(0xaa)
)

func newTestEngine(t *testing.T) (*Engine, *mockState, *mockLedger, *captureEmitter) {
	t.Helper()
	state := newMockState()
	ledger := newMockLedger()
	emitter := &captureEmitter{}
	engine := NewEngine()
	engine.SetState(state)
	engine.SetTokenLedger(ledger)
	engine.SetVault(vault)
	engine.SetEmitter(emitter)
	require.NoError(t, engine.InitOwner(owner))
	return engine, state, ledger, emitter
}

// multiplierTimes returns a multiplier that pays n tokens per invested coin.
func multiplierTimes(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Scale)
}

func setupProject(t *testing.T, e *Engine, symbol string, min, max, supply int64) {
	t.Helper()
	require.NoError(t, e.SetProjectMeta(owner, symbol, symbol+" campaign", 100, big.NewInt(min), big.NewInt(max)))
	require.NoError(t, e.SetTokenMetaData(owner, symbol, payToken, big.NewInt(supply), multiplierTimes(2)))
}

func openProject(t *testing.T, e *Engine, symbol string, min, max, supply int64) {
	t.Helper()
	setupProject(t, e, symbol, min, max, supply)
	require.NoError(t, e.OpenProject(owner, symbol, recipient))
}

func TestInitOwnerDoesNotOverwrite(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	other := addr(0x55)
	require.NoError(t, engine.InitOwner(other))

	got, err := engine.Owner()
	require.NoError(t, err)
	require.Equal(t, owner, got)
}

func TestTransferOwnership(t *testing.T) {
	engine, _, _, emitter := newTestEngine(t)

	next := addr(0x55)
	require.ErrorIs(t, engine.TransferOwnership(next, next), ErrUnauthorized)
	require.ErrorIs(t, engine.TransferOwnership(owner, [20]byte{}), ErrInvalidRecipient)
	require.NoError(t, engine.TransferOwnership(owner, next))

	got, err := engine.Owner()
	require.NoError(t, err)
	require.Equal(t, next, got)

	// Old owner is locked out, new owner is in charge.
	require.ErrorIs(t, engine.SetMaxBatchSize(owner, 7), ErrUnauthorized)
	require.NoError(t, engine.SetMaxBatchSize(next, 7))
	require.Contains(t, emitter.typesSeen(), EventTypeOwnershipTransferred)
}

func TestProjectMetaWriteOnce(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	min, max := big.NewInt(1), big.NewInt(100)
	require.ErrorIs(t, engine.SetProjectMeta(addr(0x99), "ABC", "x", 0, min, max), ErrUnauthorized)
	require.ErrorIs(t, engine.SetProjectMeta(owner, "  ", "x", 0, min, max), ErrInvalidSymbol)
	require.ErrorIs(t, engine.SetProjectMeta(owner, "ABC", "x", 0, big.NewInt(0), max), ErrInvalidAmount)
	require.ErrorIs(t, engine.SetProjectMeta(owner, "ABC", "x", 0, max, min), ErrInvalidLimits)

	require.NoError(t, engine.SetProjectMeta(owner, "ABC", "x", 0, min, max))
	require.ErrorIs(t, engine.SetProjectMeta(owner, "ABC", "x", 0, min, max), ErrMetaAlreadySet)
}

func TestTokenMetaRequiresProjectMeta(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	supply, mult := big.NewInt(1000), multiplierTimes(1)
	require.ErrorIs(t, engine.SetTokenMetaData(owner, "ABC", payToken, supply, mult), ErrMetaNotSet)

	require.NoError(t, engine.SetProjectMeta(owner, "ABC", "x", 0, big.NewInt(1), big.NewInt(100)))
	require.ErrorIs(t, engine.SetTokenMetaData(owner, "ABC", [20]byte{}, supply, mult), ErrInvalidRecipient)
	require.NoError(t, engine.SetTokenMetaData(owner, "ABC", payToken, supply, mult))
	require.ErrorIs(t, engine.SetTokenMetaData(owner, "ABC", payToken, supply, mult), ErrTokenMetaAlreadySet)

	remaining, err := engine.RemainingQuantity("ABC")
	require.NoError(t, err)
	require.Equal(t, int64(1000), remaining.Int64())
}

func TestOpenProjectGates(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	require.ErrorIs(t, engine.OpenProject(owner, "ABC", recipient), ErrMetaNotSet)

	require.NoError(t, engine.SetProjectMeta(owner, "ABC", "x", 0, big.NewInt(1), big.NewInt(100)))
	require.ErrorIs(t, engine.OpenProject(owner, "ABC", recipient), ErrTokenMetaNotSet)

	require.NoError(t, engine.SetTokenMetaData(owner, "ABC", payToken, big.NewInt(1000), multiplierTimes(1)))
	require.ErrorIs(t, engine.OpenProject(owner, "ABC", [20]byte{}), ErrInvalidRecipient)
	require.NoError(t, engine.OpenProject(owner, "ABC", recipient))
	require.ErrorIs(t, engine.OpenProject(owner, "ABC", recipient), ErrAlreadyOpen)

	open, err := engine.IsOpen("ABC")
	require.NoError(t, err)
	require.True(t, open)
}

func TestInvestAdmission(t *testing.T) {
	engine, state, _, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 10, 50, 100)

	alice := addr(0x10)
	state.fund(alice, 1000)

	require.ErrorIs(t, engine.Invest(alice, "NOPE", big.NewInt(10)), ErrNotOpen)
	require.ErrorIs(t, engine.Invest(alice, "ABC", big.NewInt(0)), ErrInvalidAmount)
	require.ErrorIs(t, engine.Invest(alice, "ABC", big.NewInt(9)), ErrBelowMinimum)
	require.ErrorIs(t, engine.Invest(alice, "ABC", big.NewInt(51)), ErrAboveMaximum)

	// Boundary amounts are admitted.
	require.NoError(t, engine.Invest(alice, "ABC", big.NewInt(10)))
	require.ErrorIs(t, engine.Invest(alice, "ABC", big.NewInt(10)), ErrDuplicateInvestor)

	// Pledge leaves the investor and lands in escrow.
	require.Equal(t, int64(990), state.balance(alice).Int64())
	require.Equal(t, int64(10), state.balance(vault).Int64())

	invested, err := engine.UserInvestment("ABC", alice)
	require.NoError(t, err)
	require.Equal(t, int64(10), invested.Int64())

	count, err := engine.UserListLength("ABC")
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestInvestInsufficientFunds(t *testing.T) {
	engine, state, _, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 10, 50, 100)

	broke := addr(0x11)
	state.fund(broke, 5)
	require.ErrorIs(t, engine.Invest(broke, "ABC", big.NewInt(10)), ErrInsufficientFunds)

	// A rejected investment never mutates the project.
	count, err := engine.UserListLength("ABC")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestInvestCapacity(t *testing.T) {
	engine, state, _, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 10, 60, 100)

	a, b := addr(0x10), addr(0x11)
	state.fund(a, 100)
	state.fund(b, 100)

	require.NoError(t, engine.Invest(a, "ABC", big.NewInt(60)))
	require.ErrorIs(t, engine.Invest(b, "ABC", big.NewInt(50)), ErrCapacityExceeded)

	// Exactly filling the remaining capacity is allowed.
	require.NoError(t, engine.Invest(b, "ABC", big.NewInt(40)))

	remaining, err := engine.RemainingQuantity("ABC")
	require.NoError(t, err)
	require.Zero(t, remaining.Sign())
}

func TestCloseProjectSuccessRequiresFundedVault(t *testing.T) {
	engine, state, ledger, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 10, 50, 100)

	alice := addr(0x10)
	state.fund(alice, 100)
	require.NoError(t, engine.Invest(alice, "ABC", big.NewInt(50)))

	// Multiplier 2x means the round owes 100 tokens for 50 invested.
	require.ErrorIs(t, engine.CloseProjectSuccess(owner, "ABC"), ErrInsufficientTokenBalance)

	ledger.mint(payToken, vault, 100)
	require.NoError(t, engine.CloseProjectSuccess(owner, "ABC"))

	// Escrowed coin pays out to the recipient at close.
	require.Equal(t, int64(50), state.balance(recipient).Int64())
	require.Zero(t, state.balance(vault).Int64())

	require.ErrorIs(t, engine.Invest(alice, "ABC", big.NewInt(10)), ErrNotOpen)
	require.ErrorIs(t, engine.CloseProjectSuccess(owner, "ABC"), ErrNotOpen)
	require.ErrorIs(t, engine.OpenProject(owner, "ABC", recipient), ErrAlreadyResolved)
}

func TestTokenAirdropBatches(t *testing.T) {
	engine, state, ledger, emitter := newTestEngine(t)
	openProject(t, engine, "ABC", 1, 10, 100)

	// 19 investors of 2 coin each at the default batch size of 5 settle in
	// 4 batches; the 2x multiplier pays every investor 4 tokens.
	investors := make([][20]byte, 19)
	for i := range investors {
		investors[i] = addr(byte(0x20 + i))
		state.fund(investors[i], 10)
		require.NoError(t, engine.Invest(investors[i], "ABC", big.NewInt(2)))
	}

	total, err := engine.TotalInvested("ABC")
	require.NoError(t, err)
	require.Equal(t, int64(38), total.Int64())

	ledger.mint(payToken, vault, 200)
	require.NoError(t, engine.CloseProjectSuccess(owner, "ABC"))

	length, err := engine.BatchLength("ABC")
	require.NoError(t, err)
	require.Equal(t, uint64(4), length)

	// Every batch total is computable up front.
	for index := uint64(0); index < 4; index++ {
		want := int64(20)
		if index == 3 {
			want = 16
		}
		calc, err := engine.CalcBatchAirDropToken("ABC", index)
		require.NoError(t, err)
		require.Equal(t, want, calc.Int64())
	}
	_, err = engine.CalcBatchAirDropToken("ABC", 4)
	require.ErrorIs(t, err, ErrInvalidBatchIndex)

	require.ErrorIs(t, engine.ExecuteBatchAirDropToken("ABC", 4), ErrInvalidBatchIndex)
	require.ErrorIs(t, engine.ExecuteBatchAirDropCoin("ABC", 0), ErrProjectNotFailed)

	// Batches settle in any order, exactly once.
	require.NoError(t, engine.ExecuteBatchAirDropToken("ABC", 2))
	require.ErrorIs(t, engine.ExecuteBatchAirDropToken("ABC", 2), ErrBatchAlreadyExecuted)
	require.NoError(t, engine.ExecuteBatchAirDropToken("ABC", 0))
	require.NoError(t, engine.ExecuteBatchAirDropToken("ABC", 1))
	require.NoError(t, engine.ExecuteBatchAirDropToken("ABC", 3))

	for _, inv := range investors {
		balance, err := ledger.BalanceOf(payToken, inv)
		require.NoError(t, err)
		require.Equal(t, int64(4), balance.Int64())
	}

	executed, err := engine.BatchExecuted("ABC", 3)
	require.NoError(t, err)
	require.True(t, executed)
	require.Contains(t, emitter.typesSeen(), EventTypeBatchExecuted)

	// The unsold 62 coin of capacity claims out as 124 tokens, emptying the
	// vault exactly.
	treasury := addr(0x77)
	require.NoError(t, engine.RemainedTokenClaim(owner, "ABC", treasury))
	balance, err := ledger.BalanceOf(payToken, treasury)
	require.NoError(t, err)
	require.Equal(t, int64(124), balance.Int64())
	balance, err = ledger.BalanceOf(payToken, vault)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())
}

func TestRemainedTokenClaim(t *testing.T) {
	engine, state, ledger, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 1, 100, 1000)

	alice := addr(0x10)
	state.fund(alice, 100)
	require.NoError(t, engine.Invest(alice, "ABC", big.NewInt(100)))

	ledger.mint(payToken, vault, 2000)
	require.NoError(t, engine.CloseProjectSuccess(owner, "ABC"))

	treasury := addr(0x77)
	require.ErrorIs(t, engine.RemainedTokenClaim(owner, "ABC", treasury), ErrBatchesIncomplete)

	require.NoError(t, engine.ExecuteBatchAirDropToken("ABC", 0))

	require.ErrorIs(t, engine.RemainedTokenClaim(alice, "ABC", treasury), ErrUnauthorized)
	require.ErrorIs(t, engine.RemainedTokenClaim(owner, "ABC", [20]byte{}), ErrInvalidRecipient)
	require.NoError(t, engine.RemainedTokenClaim(owner, "ABC", treasury))

	// remaining 900 at 2x pays 1800 tokens to the treasury.
	balance, err := ledger.BalanceOf(payToken, treasury)
	require.NoError(t, err)
	require.Equal(t, int64(1800), balance.Int64())

	require.ErrorIs(t, engine.RemainedTokenClaim(owner, "ABC", treasury), ErrAlreadyClaimed)
}

func TestRemainedTokenClaimRetryableWhenVaultShort(t *testing.T) {
	engine, state, ledger, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 1, 100, 1000)

	alice := addr(0x10)
	state.fund(alice, 100)
	require.NoError(t, engine.Invest(alice, "ABC", big.NewInt(100)))

	// The vault only holds what the investors are owed; a success close
	// accepts it, and the airdrop batch drains it completely.
	ledger.mint(payToken, vault, 200)
	require.NoError(t, engine.CloseProjectSuccess(owner, "ABC"))
	require.NoError(t, engine.ExecuteBatchAirDropToken("ABC", 0))

	balance, err := ledger.BalanceOf(payToken, vault)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())

	// The claim fails before recording anything, so topping the vault up
	// and retrying still pays out the remainder.
	treasury := addr(0x77)
	require.ErrorIs(t, engine.RemainedTokenClaim(owner, "ABC", treasury), ErrInsufficientTokenBalance)

	ledger.mint(payToken, vault, 1800)
	require.NoError(t, engine.RemainedTokenClaim(owner, "ABC", treasury))

	balance, err = ledger.BalanceOf(payToken, treasury)
	require.NoError(t, err)
	require.Equal(t, int64(1800), balance.Int64())
}

func TestVaultCannotBeCounterparty(t *testing.T) {
	engine, state, _, _ := newTestEngine(t)

	setupProject(t, engine, "ABC", 1, 100, 1000)

	// The escrow vault must never appear on either side of a round.
	require.ErrorIs(t, engine.OpenProject(owner, "ABC", vault), ErrInvalidRecipient)
	require.NoError(t, engine.OpenProject(owner, "ABC", recipient))

	state.fund(vault, 100)
	require.ErrorIs(t, engine.Invest(vault, "ABC", big.NewInt(10)), ErrInvalidRecipient)

	require.ErrorIs(t, engine.RemainedTokenClaim(owner, "ABC", vault), ErrInvalidRecipient)
}

func TestTransferCoinSelfIsNoop(t *testing.T) {
	engine, state, _, _ := newTestEngine(t)

	holder := addr(0x30)
	state.fund(holder, 75)
	require.NoError(t, engine.transferCoin(holder, holder, big.NewInt(50)))
	require.Equal(t, int64(75), state.balance(holder).Int64())
}

func TestCoinRefundBatches(t *testing.T) {
	engine, state, _, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 1, 100, 1000)

	investors := make([][20]byte, 7)
	for i := range investors {
		investors[i] = addr(byte(0x20 + i))
		state.fund(investors[i], 100)
		require.NoError(t, engine.Invest(investors[i], "ABC", big.NewInt(int64(10+i))))
	}

	require.ErrorIs(t, engine.ExecuteBatchAirDropCoin("ABC", 0), ErrProjectNotFailed)
	require.NoError(t, engine.CloseProjectFail(owner, "ABC"))
	require.ErrorIs(t, engine.CloseProjectFail(owner, "ABC"), ErrNotOpen)
	require.ErrorIs(t, engine.ExecuteBatchAirDropToken("ABC", 0), ErrProjectNotSucceeded)

	length, err := engine.BatchLength("ABC")
	require.NoError(t, err)
	require.Equal(t, uint64(2), length)

	require.NoError(t, engine.ExecuteBatchAirDropCoin("ABC", 0))
	require.ErrorIs(t, engine.ExecuteBatchAirDropCoin("ABC", 0), ErrBatchAlreadyExecuted)
	require.NoError(t, engine.ExecuteBatchAirDropCoin("ABC", 1))

	// Every investor is made whole and escrow is empty.
	for i, inv := range investors {
		require.Equal(t, int64(100), state.balance(inv).Int64(), "investor %d", i)
	}
	require.Zero(t, state.balance(vault).Int64())
}

func TestRefreshFailedProjectSymbol(t *testing.T) {
	engine, state, _, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 1, 100, 1000)

	alice := addr(0x10)
	state.fund(alice, 100)
	require.NoError(t, engine.Invest(alice, "ABC", big.NewInt(50)))

	require.ErrorIs(t, engine.RefreshFailedProjectSymbol(owner, "ABC"), ErrProjectNotFailed)

	require.NoError(t, engine.CloseProjectFail(owner, "ABC"))
	require.ErrorIs(t, engine.RefreshFailedProjectSymbol(owner, "ABC"), ErrBatchesIncomplete)

	require.NoError(t, engine.ExecuteBatchAirDropCoin("ABC", 0))
	require.NoError(t, engine.RefreshFailedProjectSymbol(owner, "ABC"))

	_, err := engine.ProjectMetaData("ABC")
	require.ErrorIs(t, err, ErrProjectNotFound)

	// The symbol is immediately reusable for a fresh campaign.
	require.NoError(t, engine.SetProjectMeta(owner, "ABC", "second run", 0, big.NewInt(1), big.NewInt(10)))
}

func TestBatchSizeSnapshotAtClose(t *testing.T) {
	engine, state, ledger, _ := newTestEngine(t)
	openProject(t, engine, "ABC", 1, 100, 1000)

	for i := 0; i < 6; i++ {
		investor := addr(byte(0x20 + i))
		state.fund(investor, 100)
		require.NoError(t, engine.Invest(investor, "ABC", big.NewInt(10)))
	}

	require.NoError(t, engine.SetMaxBatchSize(owner, 3))
	ledger.mint(payToken, vault, 200)
	require.NoError(t, engine.CloseProjectSuccess(owner, "ABC"))

	// Changing the global size after close does not move batch boundaries.
	require.NoError(t, engine.SetMaxBatchSize(owner, 10))

	length, err := engine.BatchLength("ABC")
	require.NoError(t, err)
	require.Equal(t, uint64(2), length)

	size, err := engine.ProjectMaxBatchSize("ABC")
	require.NoError(t, err)
	require.Equal(t, uint64(3), size)

	require.NoError(t, engine.ExecuteBatchAirDropToken("ABC", 0))
	require.NoError(t, engine.ExecuteBatchAirDropToken("ABC", 1))
	for i := 0; i < 6; i++ {
		balance, err := ledger.BalanceOf(payToken, addr(byte(0x20+i)))
		require.NoError(t, err)
		require.Equal(t, int64(20), balance.Int64())
	}
}

func TestTokensForTruncates(t *testing.T) {
	// 3 coin at multiplier 1.5x pays 4 tokens, truncating toward zero.
	mult := new(big.Int).Div(new(big.Int).Mul(big.NewInt(3), Scale), big.NewInt(2))
	require.Equal(t, int64(4), TokensFor(big.NewInt(3), mult).Int64())
	require.Zero(t, TokensFor(big.NewInt(0), mult).Int64())
}
