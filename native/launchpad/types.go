package launchpad

import "math/big"

// Scale is the fixed-point denominator for the token multiplier. A multiplier
// equal to Scale converts invested coin 1:1 into payout tokens.
var Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ProjectMeta is the write-once campaign configuration for a symbol.
// StartBlock is informational only; investment eligibility is driven by the
// explicit open/close flags.
type ProjectMeta struct {
	Name       string   `json:"name"`
	StartBlock uint64   `json:"startBlock"`
	MinInvest  *big.Int `json:"minInvestPerUser"`
	MaxInvest  *big.Int `json:"maxInvestPerUser"`
	Set        bool     `json:"set"`
}

// TokenMeta is the write-once payout-token configuration for a symbol.
// TotalSupply is the coin-denominated capacity of the round, not the token's
// own supply.
type TokenMeta struct {
	Token       [20]byte `json:"token"`
	TotalSupply *big.Int `json:"totalSupply"`
	Multiplier  *big.Int `json:"multiplier"`
	Set         bool     `json:"set"`
}

// ProcessInfo tracks the mutable campaign state for a symbol. BatchSize is
// zero until the project closes; at close it snapshots the global batch size
// so batch index arithmetic stays stable afterwards.
type ProcessInfo struct {
	Recipient         [20]byte `json:"recipient"`
	InvestUserNum     uint64   `json:"investUserNum"`
	TotalInvested     *big.Int `json:"totalInvested"`
	RemainingQuantity *big.Int `json:"remainingQuantity"`
	Open              bool     `json:"open"`
	Succeed           bool     `json:"succeed"`
	Failed            bool     `json:"failed"`
	BatchSize         uint64   `json:"batchSize"`
	RemainClaimed     bool     `json:"remainClaimed"`
}

// Investment is one admitted contribution. The slice of investments doubles as
// the admission-ordered investor list, which is the unit of batching.
type Investment struct {
	Investor [20]byte `json:"investor"`
	Amount   *big.Int `json:"amount"`
}

// Project bundles all per-symbol ledger state. The registry is the sole owner
// of this record; reads hand out deep copies.
type Project struct {
	Symbol    string       `json:"symbol"`
	Meta      ProjectMeta  `json:"meta"`
	Token     TokenMeta    `json:"token"`
	Process   ProcessInfo  `json:"process"`
	Investors []Investment `json:"investors"`
	Batches   []bool       `json:"batches"`
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Meta.MinInvest = cloneBigInt(p.Meta.MinInvest)
	clone.Meta.MaxInvest = cloneBigInt(p.Meta.MaxInvest)
	clone.Token.TotalSupply = cloneBigInt(p.Token.TotalSupply)
	clone.Token.Multiplier = cloneBigInt(p.Token.Multiplier)
	clone.Process.TotalInvested = cloneBigInt(p.Process.TotalInvested)
	clone.Process.RemainingQuantity = cloneBigInt(p.Process.RemainingQuantity)
	clone.Investors = make([]Investment, len(p.Investors))
	for i, inv := range p.Investors {
		clone.Investors[i] = Investment{Investor: inv.Investor, Amount: cloneBigInt(inv.Amount)}
	}
	clone.Batches = append([]bool(nil), p.Batches...)
	return &clone
}

// InvestorAmount returns the recorded investment for the address. A zero
// return with ok=false means the address never invested in this symbol.
func (p *Project) InvestorAmount(addr [20]byte) (*big.Int, bool) {
	if p == nil {
		return big.NewInt(0), false
	}
	for _, inv := range p.Investors {
		if inv.Investor == addr {
			return cloneBigInt(inv.Amount), true
		}
	}
	return big.NewInt(0), false
}

// EffectiveBatchSize resolves the batch size used for settlement: the
// snapshot taken at close time, or the supplied global value while the
// project is still unresolved.
func (p *Project) EffectiveBatchSize(global uint64) uint64 {
	if p != nil && p.Process.BatchSize > 0 {
		return p.Process.BatchSize
	}
	if global == 0 {
		return defaultBatchSize
	}
	return global
}

// BatchLength returns ceil(investorCount / batchSize) for the effective batch
// size.
func (p *Project) BatchLength(global uint64) uint64 {
	if p == nil || len(p.Investors) == 0 {
		return 0
	}
	size := p.EffectiveBatchSize(global)
	count := uint64(len(p.Investors))
	return (count + size - 1) / size
}

// BatchSlice returns the investors covered by the given batch index. The
// slice aliases the project's investor list and must not be mutated.
func (p *Project) BatchSlice(index uint64, global uint64) []Investment {
	if p == nil {
		return nil
	}
	size := p.EffectiveBatchSize(global)
	start := index * size
	if start >= uint64(len(p.Investors)) {
		return nil
	}
	end := start + size
	if end > uint64(len(p.Investors)) {
		end = uint64(len(p.Investors))
	}
	return p.Investors[start:end]
}

// AllBatchesExecuted reports whether every settlement batch has run.
func (p *Project) AllBatchesExecuted() bool {
	if p == nil {
		return false
	}
	for _, done := range p.Batches {
		if !done {
			return false
		}
	}
	return true
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// TokensFor converts an invested coin amount into its payout token amount at
// the supplied multiplier, truncating toward zero.
func TokensFor(amount, multiplier *big.Int) *big.Int {
	product := new(big.Int).Mul(cloneBigInt(amount), cloneBigInt(multiplier))
	return product.Div(product, Scale)
}
