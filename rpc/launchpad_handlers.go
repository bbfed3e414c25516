package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"launchpad/crypto"
	"launchpad/native/launchpad"
)

type SetProjectMetaParams struct {
	Caller     string `json:"caller"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	StartBlock uint64 `json:"startBlock"`
	MinInvest  string `json:"minInvestPerUser"`
	MaxInvest  string `json:"maxInvestPerUser"`
}

type SetTokenMetaDataParams struct {
	Caller      string `json:"caller"`
	Symbol      string `json:"symbol"`
	Token       string `json:"token"`
	TotalSupply string `json:"totalSupply"`
	Multiplier  string `json:"multiplier"`
}

type OpenProjectParams struct {
	Caller    string `json:"caller"`
	Symbol    string `json:"symbol"`
	Recipient string `json:"recipient"`
}

type InvestmentParams struct {
	Investor string `json:"investor"`
	Symbol   string `json:"symbol"`
	Amount   string `json:"amount"`
}

type SymbolParams struct {
	Caller string `json:"caller,omitempty"`
	Symbol string `json:"symbol"`
}

type BatchParams struct {
	Symbol     string `json:"symbol"`
	BatchIndex uint64 `json:"batchIndex"`
}

type RemainedTokenClaimParams struct {
	Caller string `json:"caller"`
	Symbol string `json:"symbol"`
	To     string `json:"to"`
}

type TransferOwnershipParams struct {
	Caller   string `json:"caller"`
	NewOwner string `json:"newOwner"`
}

type SetMaxBatchSizeParams struct {
	Caller string `json:"caller"`
	Size   uint64 `json:"size"`
}

type UserInvestmentParams struct {
	Symbol   string `json:"symbol"`
	Investor string `json:"investor"`
}

type TokenBalanceParams struct {
	Token   string `json:"token"`
	Address string `json:"address"`
}

type ProjectMetaResult struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	StartBlock uint64 `json:"startBlock"`
	MinInvest  string `json:"minInvestPerUser"`
	MaxInvest  string `json:"maxInvestPerUser"`
}

type TokenMetaResult struct {
	Symbol      string `json:"symbol"`
	Token       string `json:"token"`
	TotalSupply string `json:"totalSupply"`
	Multiplier  string `json:"multiplier"`
}

type ProcessInfoResult struct {
	Symbol            string `json:"symbol"`
	Recipient         string `json:"recipient"`
	InvestUserNum     uint64 `json:"investUserNum"`
	TotalInvested     string `json:"totalInvestedAmount"`
	RemainingQuantity string `json:"remainingQuantity"`
	Open              bool   `json:"isProposalOpened"`
	Succeed           bool   `json:"isProjectSucceed"`
	Failed            bool   `json:"isProjectFailed"`
	BatchSize         uint64 `json:"batchSize"`
	RemainClaimed     bool   `json:"remainClaimed"`
}

type BalanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type TokenBalanceResult struct {
	Token   string `json:"token"`
	Address string `json:"address"`
	Balance string `json:"balance"`
}

func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("parameter object required")
	}
	return json.Unmarshal(req.Params[0], out)
}

func decodeAddr(raw string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(raw)
	if err != nil {
		return [20]byte{}, err
	}
	return addr.Array(), nil
}

func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a decimal integer", raw)
	}
	return value, nil
}

func parseTokenID(raw string) ([20]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil || len(decoded) != 20 {
		return [20]byte{}, fmt.Errorf("token id must be 20 bytes of hex")
	}
	var out [20]byte
	copy(out[:], decoded)
	return out, nil
}

func tokenHex(tok [20]byte) string {
	return "0x" + hex.EncodeToString(tok[:])
}

func addrString(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.LaunchpadPrefix, addr[:]).String()
}

// writeEngineError maps ledger errors onto JSON-RPC error codes.
func writeEngineError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, launchpad.ErrUnauthorized), errors.Is(err, launchpad.ErrOwnerNotSet):
		writeError(w, http.StatusForbidden, id, codeUnauthorized, err.Error(), nil)
	case errors.Is(err, launchpad.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, id, codeServerError, err.Error(), nil)
	case errors.Is(err, launchpad.ErrInvalidSymbol),
		errors.Is(err, launchpad.ErrInvalidLimits),
		errors.Is(err, launchpad.ErrInvalidAmount),
		errors.Is(err, launchpad.ErrInvalidRecipient),
		errors.Is(err, launchpad.ErrInvalidBatchSize),
		errors.Is(err, launchpad.ErrInvalidBatchIndex):
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, err.Error(), nil)
	case errors.Is(err, launchpad.ErrMetaAlreadySet),
		errors.Is(err, launchpad.ErrMetaNotSet),
		errors.Is(err, launchpad.ErrTokenMetaAlreadySet),
		errors.Is(err, launchpad.ErrTokenMetaNotSet),
		errors.Is(err, launchpad.ErrAlreadyOpen),
		errors.Is(err, launchpad.ErrAlreadyResolved),
		errors.Is(err, launchpad.ErrNotOpen),
		errors.Is(err, launchpad.ErrBelowMinimum),
		errors.Is(err, launchpad.ErrAboveMaximum),
		errors.Is(err, launchpad.ErrDuplicateInvestor),
		errors.Is(err, launchpad.ErrCapacityExceeded),
		errors.Is(err, launchpad.ErrInsufficientFunds),
		errors.Is(err, launchpad.ErrInsufficientTokenBalance),
		errors.Is(err, launchpad.ErrProjectNotSucceeded),
		errors.Is(err, launchpad.ErrProjectNotFailed),
		errors.Is(err, launchpad.ErrBatchAlreadyExecuted),
		errors.Is(err, launchpad.ErrBatchesIncomplete),
		errors.Is(err, launchpad.ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, id, codeServerError, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, id, codeServerError, err.Error(), nil)
	}
}

func (s *Server) handleSetProjectMeta(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params SetProjectMetaParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	minInvest, err := parseAmount(params.MinInvest)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid minInvestPerUser", err.Error())
		return
	}
	maxInvest, err := parseAmount(params.MaxInvest)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid maxInvestPerUser", err.Error())
		return
	}
	if err := s.node.LaunchpadSetProjectMeta(caller, params.Symbol, params.Name, params.StartBlock, minInvest, maxInvest); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleSetTokenMetaData(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params SetTokenMetaDataParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	tok, err := parseTokenID(params.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid token id", err.Error())
		return
	}
	totalSupply, err := parseAmount(params.TotalSupply)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid totalSupply", err.Error())
		return
	}
	multiplier, err := parseAmount(params.Multiplier)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid multiplier", err.Error())
		return
	}
	if err := s.node.LaunchpadSetTokenMetaData(caller, params.Symbol, tok, totalSupply, multiplier); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleOpenProject(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params OpenProjectParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	recipient, err := decodeAddr(params.Recipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid recipient address", err.Error())
		return
	}
	if err := s.node.LaunchpadOpenProject(caller, params.Symbol, recipient); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleInvestment(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params InvestmentParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	investor, err := decodeAddr(params.Investor)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid investor address", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid amount", err.Error())
		return
	}
	if err := s.node.LaunchpadInvest(investor, params.Symbol, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleCloseProjectSuccess(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params SymbolParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.LaunchpadCloseProjectSuccess(caller, params.Symbol); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleCloseProjectFail(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params SymbolParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.LaunchpadCloseProjectFail(caller, params.Symbol); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleExecuteBatchAirDropToken(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params BatchParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	if err := s.node.LaunchpadExecuteBatchAirDropToken(params.Symbol, params.BatchIndex); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleExecuteBatchAirDropCoin(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params BatchParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	if err := s.node.LaunchpadExecuteBatchAirDropCoin(params.Symbol, params.BatchIndex); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleRemainedTokenClaim(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params RemainedTokenClaimParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	to, err := decodeAddr(params.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid destination address", err.Error())
		return
	}
	if err := s.node.LaunchpadRemainedTokenClaim(caller, params.Symbol, to); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleRefreshFailedProjectSymbol(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params SymbolParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.LaunchpadRefreshFailedProjectSymbol(caller, params.Symbol); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params TransferOwnershipParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	newOwner, err := decodeAddr(params.NewOwner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid new owner address", err.Error())
		return
	}
	if err := s.node.LaunchpadTransferOwnership(caller, newOwner); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleSetMaxBatchSize(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params SetMaxBatchSizeParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := decodeAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.LaunchpadSetMaxBatchSize(caller, params.Size); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleOwner(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	owner, err := s.node.LaunchpadOwner()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, addrString(owner))
}

func (s *Server) handleGetMaxBatchSize(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	// With a symbol parameter this returns the batch size the project was
	// settled with; without one it returns the global setting.
	if len(req.Params) == 1 {
		var params SymbolParams
		if err := json.Unmarshal(req.Params[0], &params); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
			return
		}
		if params.Symbol != "" {
			size, err := s.node.LaunchpadProjectMaxBatchSize(params.Symbol)
			if err != nil {
				writeEngineError(w, req.ID, err)
				return
			}
			writeResult(w, req.ID, size)
			return
		}
	}
	size, err := s.node.LaunchpadMaxBatchSize()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, size)
}

func (s *Server) symbolParam(w http.ResponseWriter, req *RPCRequest) (string, bool) {
	var params SymbolParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return "", false
	}
	return params.Symbol, true
}

func (s *Server) handleGetProjectMetaData(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	meta, err := s.node.LaunchpadProjectMetaData(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, ProjectMetaResult{
		Symbol:     symbol,
		Name:       meta.Name,
		StartBlock: meta.StartBlock,
		MinInvest:  meta.MinInvest.String(),
		MaxInvest:  meta.MaxInvest.String(),
	})
}

func (s *Server) handleGetTokenMetaData(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	meta, err := s.node.LaunchpadTokenMetaData(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	if !meta.Set {
		writeEngineError(w, req.ID, launchpad.ErrTokenMetaNotSet)
		return
	}
	writeResult(w, req.ID, TokenMetaResult{
		Symbol:      symbol,
		Token:       tokenHex(meta.Token),
		TotalSupply: meta.TotalSupply.String(),
		Multiplier:  meta.Multiplier.String(),
	})
}

func (s *Server) handleGetProcessInfo(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	info, err := s.node.LaunchpadProcessInfo(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, ProcessInfoResult{
		Symbol:            symbol,
		Recipient:         addrString(info.Recipient),
		InvestUserNum:     info.InvestUserNum,
		TotalInvested:     info.TotalInvested.String(),
		RemainingQuantity: info.RemainingQuantity.String(),
		Open:              info.Open,
		Succeed:           info.Succeed,
		Failed:            info.Failed,
		BatchSize:         info.BatchSize,
		RemainClaimed:     info.RemainClaimed,
	})
}

func (s *Server) handleGetRemainingQuantity(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	remaining, err := s.node.LaunchpadRemainingQuantity(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, remaining.String())
}

func (s *Server) handleGetTotalInvestedAmount(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	total, err := s.node.LaunchpadTotalInvested(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, total.String())
}

func (s *Server) handleGetRecipientAddress(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	recipient, err := s.node.LaunchpadRecipient(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, addrString(recipient))
}

func (s *Server) handleIsProposalOpened(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	open, err := s.node.LaunchpadIsOpen(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, open)
}

func (s *Server) handleGetUserInvestment(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params UserInvestmentParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	investor, err := decodeAddr(params.Investor)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid investor address", err.Error())
		return
	}
	amount, err := s.node.LaunchpadUserInvestment(params.Symbol, investor)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, amount.String())
}

func (s *Server) handleGetUserListLength(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	length, err := s.node.LaunchpadUserListLength(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, length)
}

func (s *Server) handleGetBatchLength(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbol, ok := s.symbolParam(w, req)
	if !ok {
		return
	}
	length, err := s.node.LaunchpadBatchLength(symbol)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, length)
}

func (s *Server) handleCheckBatchExecuted(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params BatchParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	executed, err := s.node.LaunchpadBatchExecuted(params.Symbol, params.BatchIndex)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, executed)
}

func (s *Server) handleCalcBatchAirDropToken(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params BatchParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	total, err := s.node.LaunchpadCalcBatchAirDropToken(params.Symbol, params.BatchIndex)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, total.String())
}

func (s *Server) handleListSymbols(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	symbols, err := s.node.LaunchpadSymbols()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, symbols)
}

func (s *Server) handleGetBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	if len(req.Params) == 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "address parameter required", nil)
		return
	}
	var addrStr string
	if err := json.Unmarshal(req.Params[0], &addrStr); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address parameter", err.Error())
		return
	}
	addr, err := decodeAddr(addrStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "failed to decode address", err.Error())
		return
	}
	account, err := s.node.GetAccount(addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load account", err.Error())
		return
	}
	writeResult(w, req.ID, BalanceResult{
		Address: addrStr,
		Balance: account.Balance.String(),
		Nonce:   account.Nonce,
	})
}

func (s *Server) handleGetTokenBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params TokenBalanceParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	tok, err := parseTokenID(params.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid token id", err.Error())
		return
	}
	addr, err := decodeAddr(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return
	}
	balance, err := s.node.TokenBalance(tok, addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load token balance", err.Error())
		return
	}
	writeResult(w, req.ID, TokenBalanceResult{
		Token:   tokenHex(tok),
		Address: params.Address,
		Balance: balance.String(),
	})
}
