package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"launchpad/config"
	"launchpad/core"
	"launchpad/core/genesis"
	"launchpad/crypto"
	"launchpad/observability/logging"
	"launchpad/observability/otel"
	"launchpad/rpc"
	"launchpad/services/indexer"
	"launchpad/storage"
)

const (
	rpcTokenEnv    = "LAUNCHPAD_RPC_TOKEN"
	jwtSecretEnv   = "LAUNCHPAD_INDEXER_JWT_SECRET"
	ownerPassEnv   = "LAUNCHPAD_OWNER_PASS"
	startupTimeout = 5 * time.Second
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	genesisFlag := flag.String("genesis", "", "Path to a genesis YAML file (overrides config GenesisFile)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := logging.Setup("launchpadd", cfg.Environment, logging.Options{
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPMetrics || cfg.OTLPTraces {
		shutdown, err := otel.Init(ctx, otel.Config{
			ServiceName: "launchpadd",
			Environment: cfg.Environment,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.OTLPInsecure,
			Headers:     otel.ParseHeaders(cfg.OTLPHeaders),
			Metrics:     cfg.OTLPMetrics,
			Traces:      cfg.OTLPTraces,
		})
		if err != nil {
			logger.Error("failed to initialise telemetry", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("telemetry shutdown failed", slog.Any("error", err))
			}
		}()
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	node, err := core.NewNode(db)
	if err != nil {
		panic(fmt.Sprintf("Failed to create node: %v", err))
	}

	genesisPath := strings.TrimSpace(*genesisFlag)
	if genesisPath == "" {
		genesisPath = strings.TrimSpace(cfg.GenesisFile)
	}
	if genesisPath != "" {
		gen, err := genesis.Load(genesisPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to load genesis: %v", err))
		}
		if err := node.ApplyGenesis(gen); err != nil {
			panic(fmt.Sprintf("Failed to apply genesis: %v", err))
		}
	} else {
		// Without a genesis document the node keystore identity becomes the
		// administrator. A no-op once an owner is already recorded.
		key, err := crypto.LoadFromKeystore(cfg.OwnerKeystorePath, os.Getenv(ownerPassEnv))
		if err != nil {
			panic(fmt.Sprintf("Failed to load owner keystore: %v", err))
		}
		if err := node.LaunchpadInitOwner(key.PubKey().Address().Array()); err != nil {
			panic(fmt.Sprintf("Failed to initialise owner: %v", err))
		}
	}

	if cfg.IndexerListenAddress != "" {
		store, err := indexer.Open(cfg.IndexerDriver, cfg.IndexerDSN)
		if err != nil {
			logger.Error("failed to open indexer store", slog.Any("error", err))
			os.Exit(1)
		}
		indexer.NewService(store).Attach(node.Bus())

		jwtSecret := strings.TrimSpace(cfg.IndexerJWTSecret)
		if jwtSecret == "" {
			jwtSecret = strings.TrimSpace(os.Getenv(jwtSecretEnv))
		}
		api := indexer.NewAPI(store, jwtSecret)
		go func() {
			srv := &http.Server{
				Addr:              cfg.IndexerListenAddress,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("indexer API terminated", slog.Any("error", err))
			}
		}()
	}

	authToken := strings.TrimSpace(cfg.RPCAuthToken)
	if authToken == "" {
		authToken = strings.TrimSpace(os.Getenv(rpcTokenEnv))
	}
	rpcServer := rpc.NewServer(node, rpc.ServerConfig{
		AuthToken: authToken,
		RateLimit: cfg.RPCRateLimit,
		RateBurst: cfg.RPCRateBurst,
	})
	rpcErrCh := make(chan error, 1)
	go func() {
		rpcErrCh <- rpcServer.Start(cfg.RPCAddress)
		close(rpcErrCh)
	}()

	if err := waitForRPCStartup(cfg.RPCAddress, rpcErrCh, startupTimeout); err != nil {
		logger.Error("RPC server failed to start", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("launchpad node initialised and running", slog.String("network", cfg.NetworkName))

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err, ok := <-rpcErrCh:
		if ok && err != nil {
			logger.Error("RPC server terminated", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

func waitForRPCStartup(addr string, errCh <-chan error, timeout time.Duration) error {
	dialAddr := dialAddressFor(addr)
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err, ok := <-errCh:
			if !ok {
				return fmt.Errorf("RPC server terminated before startup confirmation")
			}
			if err != nil {
				return err
			}
			return fmt.Errorf("RPC server exited before startup confirmation")
		default:
		}

		conn, err := net.DialTimeout("tcp", dialAddr, 200*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case err, ok := <-errCh:
			if !ok {
				return fmt.Errorf("RPC server terminated before startup confirmation")
			}
			if err != nil {
				return err
			}
			return fmt.Errorf("RPC server exited before startup confirmation")
		case <-ticker.C:
		case <-deadline.C:
			return fmt.Errorf("timed out waiting for RPC server to start on %s", addr)
		}
	}
}

func dialAddressFor(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
