package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"launchpad/core"
	"launchpad/core/genesis"
	"launchpad/crypto"
	"launchpad/storage"
)

const testAuthToken = "test-rpc-token"

func bech32Addr(t *testing.T, b byte) string {
	t.Helper()
	var raw [20]byte
	raw[19] = b
	return crypto.MustNewAddress(crypto.LaunchpadPrefix, raw[:]).String()
}

const testTokenID = "0x00000000000000000000000000000000000000aa"

// newTestServer boots a node over an in-memory database with a funded
// investor and a vault pre-funded with payout tokens.
func newTestServer(t *testing.T) (*httptest.Server, string, string) {
	t.Helper()
	node, err := core.NewNode(storage.NewMemDB())
	require.NoError(t, err)

	owner := bech32Addr(t, 0x01)
	investor := bech32Addr(t, 0x02)
	vaultAddr := node.Vault()
	vault := crypto.MustNewAddress(crypto.LaunchpadPrefix, vaultAddr[:]).String()
	gen := &genesis.Genesis{
		ChainName: "launchpad-test",
		Owner:     owner,
		Accounts: []genesis.AccountAlloc{
			{Address: investor, Balance: "1000"},
		},
		TokenMints: []genesis.TokenMintAlloc{
			{Token: testTokenID, Holder: vault, Amount: "1000"},
		},
	}
	require.NoError(t, gen.Validate())
	require.NoError(t, node.ApplyGenesis(gen))

	server := NewServer(node, ServerConfig{
		AuthToken: testAuthToken,
		RateLimit: 1000,
		RateBurst: 1000,
	})
	ts := httptest.NewServer(http.HandlerFunc(server.handle))
	t.Cleanup(ts.Close)
	return ts, owner, investor
}

func call(t *testing.T, ts *httptest.Server, token, method string, params interface{}) (*http.Response, RPCResponse) {
	t.Helper()
	req := map[string]interface{}{
		"jsonrpc": jsonRPCVersion,
		"id":      1,
		"method":  method,
	}
	if params != nil {
		req["params"] = []interface{}{params}
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	var rpcResp RPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpcResp))
	return resp, rpcResp
}

func mustResult(t *testing.T, ts *httptest.Server, token, method string, params interface{}) interface{} {
	t.Helper()
	resp, rpcResp := call(t, ts, token, method, params)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, rpcResp.Error)
	return rpcResp.Result
}

func TestMethodNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, rpcResp := call(t, ts, "", "launchpad_noSuchMethod", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, rpcResp.Error)
	require.Equal(t, codeMethodNotFound, rpcResp.Error.Code)
}

func TestMalformedPayload(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, err := ts.Client().Post(ts.URL, "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	var rpcResp RPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpcResp))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, rpcResp.Error)
	require.Equal(t, codeParseError, rpcResp.Error.Code)
}

func TestMutationsRequireAuth(t *testing.T) {
	ts, owner, _ := newTestServer(t)
	params := SetProjectMetaParams{
		Caller:    owner,
		Symbol:    "ABC",
		Name:      "campaign",
		MinInvest: "1",
		MaxInvest: "100",
	}

	resp, rpcResp := call(t, ts, "", "launchpad_setProjectMeta", params)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, codeUnauthorized, rpcResp.Error.Code)

	resp, rpcResp = call(t, ts, "wrong-token", "launchpad_setProjectMeta", params)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, codeUnauthorized, rpcResp.Error.Code)

	mustResult(t, ts, testAuthToken, "launchpad_setProjectMeta", params)
}

func TestNonOwnerCallerRejected(t *testing.T) {
	ts, _, investor := newTestServer(t)
	resp, rpcResp := call(t, ts, testAuthToken, "launchpad_setProjectMeta", SetProjectMetaParams{
		Caller:    investor,
		Symbol:    "ABC",
		Name:      "campaign",
		MinInvest: "1",
		MaxInvest: "100",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, codeUnauthorized, rpcResp.Error.Code)
}

func TestRateLimitPerSource(t *testing.T) {
	node, err := core.NewNode(storage.NewMemDB())
	require.NoError(t, err)
	server := NewServer(node, ServerConfig{RateLimit: 1, RateBurst: 1})
	ts := httptest.NewServer(http.HandlerFunc(server.handle))
	t.Cleanup(ts.Close)

	post := func(source string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewReader([]byte(`{"jsonrpc":"2.0","id":1,"method":"launchpad_listSymbols"}`)))
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", source)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	require.Equal(t, http.StatusOK, post("10.0.0.1").StatusCode)
	require.Equal(t, http.StatusTooManyRequests, post("10.0.0.1").StatusCode)
	// A different source has its own budget.
	require.Equal(t, http.StatusOK, post("10.0.0.2").StatusCode)
}

func TestLifecycleOverRPC(t *testing.T) {
	ts, owner, investor := newTestServer(t)

	mustResult(t, ts, testAuthToken, "launchpad_setProjectMeta", SetProjectMetaParams{
		Caller:    owner,
		Symbol:    "ABC",
		Name:      "campaign",
		MinInvest: "1",
		MaxInvest: "1000",
	})
	mustResult(t, ts, testAuthToken, "launchpad_setTokenMetaData", SetTokenMetaDataParams{
		Caller:      owner,
		Symbol:      "ABC",
		Token:       testTokenID,
		TotalSupply: "1000",
		Multiplier:  "1000000000000000000",
	})
	mustResult(t, ts, testAuthToken, "launchpad_openProject", OpenProjectParams{
		Caller:    owner,
		Symbol:    "ABC",
		Recipient: owner,
	})
	mustResult(t, ts, testAuthToken, "launchpad_investment", InvestmentParams{
		Investor: investor,
		Symbol:   "ABC",
		Amount:   "400",
	})

	raw := mustResult(t, ts, "", "launchpad_getProcessInfo", SymbolParams{Symbol: "ABC"})
	info, ok := raw.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "400", info["totalInvestedAmount"])
	require.Equal(t, "600", info["remainingQuantity"])
	require.Equal(t, true, info["isProposalOpened"])

	mustResult(t, ts, testAuthToken, "launchpad_closeProjectSuccess", SymbolParams{Caller: owner, Symbol: "ABC"})

	// Settlement endpoints are open to anyone; replay is rejected.
	mustResult(t, ts, "", "launchpad_executeBatchAirDropToken", BatchParams{Symbol: "ABC", BatchIndex: 0})
	resp, rpcResp := call(t, ts, "", "launchpad_executeBatchAirDropToken", BatchParams{Symbol: "ABC", BatchIndex: 0})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, codeServerError, rpcResp.Error.Code)

	executed := mustResult(t, ts, "", "launchpad_checkBatchExecuted", BatchParams{Symbol: "ABC", BatchIndex: 0})
	require.Equal(t, true, executed)

	raw = mustResult(t, ts, "", "launchpad_getTokenBalance", TokenBalanceParams{Token: testTokenID, Address: investor})
	balance, ok := raw.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "400", balance["balance"])

	mustResult(t, ts, testAuthToken, "launchpad_remainedTokenClaim", RemainedTokenClaimParams{
		Caller: owner,
		Symbol: "ABC",
		To:     owner,
	})
	raw = mustResult(t, ts, "", "launchpad_getTokenBalance", TokenBalanceParams{Token: testTokenID, Address: owner})
	balance, ok = raw.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "600", balance["balance"])

	symbols := mustResult(t, ts, "", "launchpad_listSymbols", nil)
	require.Equal(t, []interface{}{"ABC"}, symbols)
}

func TestProjectNotFoundMapsTo404(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, rpcResp := call(t, ts, "", "launchpad_getProjectMetaData", SymbolParams{Symbol: "NOPE"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, codeServerError, rpcResp.Error.Code)
}
