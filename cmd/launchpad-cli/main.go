package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"launchpad/cmd/internal/passphrase"
	"launchpad/crypto"
)

var rpcEndpoint = defaultRPCEndpoint()
var rpcAuthToken = os.Getenv("LAUNCHPAD_RPC_TOKEN")
var keystorePath = defaultKeystorePath()

const ownerPassEnv = "LAUNCHPAD_OWNER_PASS"

func main() {
	args := os.Args[1:]
	var err error
	args, err = applyGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(args) < 1 {
		printUsage()
		return
	}

	command := args[0]
	switch command {
	case "generate-key":
		generateKey()
	case "owner":
		printResult(callRPC("launchpad_owner", nil, false))
	case "set-project-meta":
		if len(args) < 6 {
			fatalUsage("set-project-meta requires <symbol> <name> <startBlock> <minInvest> <maxInvest>")
		}
		startBlock, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid start block: %w", err))
		}
		printResult(callRPC("launchpad_setProjectMeta", map[string]interface{}{
			"caller":           ownerAddress(),
			"symbol":           args[1],
			"name":             args[2],
			"startBlock":       startBlock,
			"minInvestPerUser": args[4],
			"maxInvestPerUser": args[5],
		}, true))
	case "set-token-meta":
		if len(args) < 5 {
			fatalUsage("set-token-meta requires <symbol> <token> <totalSupply> <multiplier>")
		}
		printResult(callRPC("launchpad_setTokenMetaData", map[string]interface{}{
			"caller":      ownerAddress(),
			"symbol":      args[1],
			"token":       args[2],
			"totalSupply": args[3],
			"multiplier":  args[4],
		}, true))
	case "open-project":
		if len(args) < 3 {
			fatalUsage("open-project requires <symbol> <recipient>")
		}
		printResult(callRPC("launchpad_openProject", map[string]interface{}{
			"caller":    ownerAddress(),
			"symbol":    args[1],
			"recipient": args[2],
		}, true))
	case "invest":
		if len(args) < 4 {
			fatalUsage("invest requires <symbol> <amount> <investor>")
		}
		printResult(callRPC("launchpad_investment", map[string]interface{}{
			"investor": args[3],
			"symbol":   args[1],
			"amount":   args[2],
		}, true))
	case "close-success":
		if len(args) < 2 {
			fatalUsage("close-success requires <symbol>")
		}
		printResult(callRPC("launchpad_closeProjectSuccess", map[string]interface{}{
			"caller": ownerAddress(),
			"symbol": args[1],
		}, true))
	case "close-fail":
		if len(args) < 2 {
			fatalUsage("close-fail requires <symbol>")
		}
		printResult(callRPC("launchpad_closeProjectFail", map[string]interface{}{
			"caller": ownerAddress(),
			"symbol": args[1],
		}, true))
	case "batch-token":
		if len(args) < 3 {
			fatalUsage("batch-token requires <symbol> <batchIndex>")
		}
		printResult(callRPC("launchpad_executeBatchAirDropToken", batchParams(args[1], args[2]), false))
	case "batch-coin":
		if len(args) < 3 {
			fatalUsage("batch-coin requires <symbol> <batchIndex>")
		}
		printResult(callRPC("launchpad_executeBatchAirDropCoin", batchParams(args[1], args[2]), false))
	case "claim-remainder":
		if len(args) < 3 {
			fatalUsage("claim-remainder requires <symbol> <to>")
		}
		printResult(callRPC("launchpad_remainedTokenClaim", map[string]interface{}{
			"caller": ownerAddress(),
			"symbol": args[1],
			"to":     args[2],
		}, true))
	case "refresh":
		if len(args) < 2 {
			fatalUsage("refresh requires <symbol>")
		}
		printResult(callRPC("launchpad_refreshFailedProjectSymbol", map[string]interface{}{
			"caller": ownerAddress(),
			"symbol": args[1],
		}, true))
	case "transfer-ownership":
		if len(args) < 2 {
			fatalUsage("transfer-ownership requires <newOwner>")
		}
		printResult(callRPC("launchpad_transferOwnership", map[string]interface{}{
			"caller":   ownerAddress(),
			"newOwner": args[1],
		}, true))
	case "set-max-batch-size":
		if len(args) < 2 {
			fatalUsage("set-max-batch-size requires <size>")
		}
		size, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid batch size: %w", err))
		}
		printResult(callRPC("launchpad_setMaxBatchSize", map[string]interface{}{
			"caller": ownerAddress(),
			"size":   size,
		}, true))
	case "max-batch-size":
		var params interface{}
		if len(args) > 1 {
			params = map[string]string{"symbol": args[1]}
		}
		printResult(callRPC("launchpad_getMaxBatchSize", params, false))
	case "project":
		if len(args) < 2 {
			fatalUsage("project requires <symbol>")
		}
		printResult(callRPC("launchpad_getProjectMetaData", map[string]string{"symbol": args[1]}, false))
	case "token-meta":
		if len(args) < 2 {
			fatalUsage("token-meta requires <symbol>")
		}
		printResult(callRPC("launchpad_getTokenMetaData", map[string]string{"symbol": args[1]}, false))
	case "process":
		if len(args) < 2 {
			fatalUsage("process requires <symbol>")
		}
		printResult(callRPC("launchpad_getProcessInfo", map[string]string{"symbol": args[1]}, false))
	case "symbols":
		printResult(callRPC("launchpad_listSymbols", nil, false))
	case "balance":
		if len(args) < 2 {
			fatalUsage("balance requires <address>")
		}
		printResult(callRPCRaw("launchpad_getBalance", args[1], false))
	case "token-balance":
		if len(args) < 3 {
			fatalUsage("token-balance requires <token> <address>")
		}
		printResult(callRPC("launchpad_getTokenBalance", map[string]string{
			"token":   args[1],
			"address": args[2],
		}, false))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		printUsage()
		os.Exit(1)
	}
}

func batchParams(symbol, index string) map[string]interface{} {
	parsed, err := strconv.ParseUint(index, 10, 64)
	if err != nil {
		fatal(fmt.Errorf("invalid batch index: %w", err))
	}
	return map[string]interface{}{"symbol": symbol, "batchIndex": parsed}
}

func generateKey() {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		fatal(fmt.Errorf("failed to generate key: %w", err))
	}
	pass, err := passphrase.NewSource(ownerPassEnv).Get()
	if err != nil {
		fatal(err)
	}
	if err := crypto.SaveToKeystore(keystorePath, key, pass); err != nil {
		fatal(fmt.Errorf("failed to save keystore: %w", err))
	}
	fmt.Printf("keystore written to %s\n", keystorePath)
	fmt.Printf("address: %s\n", key.PubKey().Address().String())
}

var cachedOwner string

// ownerAddress resolves the caller address from the keystore once per run.
func ownerAddress() string {
	if cachedOwner != "" {
		return cachedOwner
	}
	pass, err := passphrase.NewSource(ownerPassEnv).Get()
	if err != nil {
		fatal(err)
	}
	key, err := crypto.LoadFromKeystore(keystorePath, pass)
	if err != nil {
		fatal(fmt.Errorf("unable to decrypt keystore %s: %w", keystorePath, err))
	}
	cachedOwner = key.PubKey().Address().String()
	return cachedOwner
}

func callRPC(method string, param interface{}, requireAuth bool) (json.RawMessage, error) {
	payload := map[string]interface{}{"id": 1, "jsonrpc": "2.0", "method": method}
	if param != nil {
		payload["params"] = []interface{}{param}
	} else {
		payload["params"] = []interface{}{}
	}
	body, _ := json.Marshal(payload)
	return doRPCRequest(body, requireAuth)
}

// callRPCRaw sends a bare string parameter instead of a parameter object.
func callRPCRaw(method string, param string, requireAuth bool) (json.RawMessage, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"id": 1, "jsonrpc": "2.0", "method": method, "params": []interface{}{param},
	})
	return doRPCRequest(body, requireAuth)
}

func doRPCRequest(payload []byte, requireAuth bool) (json.RawMessage, error) {
	req, err := http.NewRequest(http.MethodPost, rpcEndpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if requireAuth {
		if rpcAuthToken == "" {
			return nil, fmt.Errorf("privileged RPC call requires LAUNCHPAD_RPC_TOKEN to be set")
		}
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(rpcAuthToken))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", rpcEndpoint, err)
	}
	defer resp.Body.Close()

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("failed to decode response from node")
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("error from node: %s", rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

func printResult(result json.RawMessage, err error) {
	if err != nil {
		fatal(err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result, "", "  "); err != nil {
		fmt.Println(string(result))
		return
	}
	fmt.Println(pretty.String())
}

func applyGlobalFlags(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--rpc":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("missing value for --rpc")
			}
			rpcEndpoint = args[i+1]
			i++
		case strings.HasPrefix(arg, "--rpc="):
			rpcEndpoint = strings.TrimPrefix(arg, "--rpc=")
		case arg == "--keystore":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("missing value for --keystore")
			}
			keystorePath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--keystore="):
			keystorePath = strings.TrimPrefix(arg, "--keystore=")
		default:
			out = append(out, arg)
		}
	}
	return out, nil
}

func defaultRPCEndpoint() string {
	if v := strings.TrimSpace(os.Getenv("RPC_URL")); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func defaultKeystorePath() string {
	if v := strings.TrimSpace(os.Getenv("LAUNCHPAD_OWNER_KEYSTORE")); v != "" {
		return v
	}
	return "./owner.keystore"
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func fatalUsage(msg string) {
	fmt.Fprintln(os.Stderr, "Error: "+msg)
	printUsage()
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`Usage: launchpad-cli [--rpc URL] [--keystore PATH] <command> [args]

Key management:
  generate-key                                  create a new owner keystore

Administration (requires LAUNCHPAD_RPC_TOKEN):
  set-project-meta <symbol> <name> <startBlock> <minInvest> <maxInvest>
  set-token-meta <symbol> <token> <totalSupply> <multiplier>
  open-project <symbol> <recipient>
  close-success <symbol>
  close-fail <symbol>
  claim-remainder <symbol> <to>
  refresh <symbol>
  transfer-ownership <newOwner>
  set-max-batch-size <size>
  invest <symbol> <amount> <investor>

Settlement (open to anyone):
  batch-token <symbol> <batchIndex>
  batch-coin <symbol> <batchIndex>

Queries:
  owner
  max-batch-size [symbol]
  project <symbol>
  token-meta <symbol>
  process <symbol>
  symbols
  balance <address>
  token-balance <token> <address>`)
}
