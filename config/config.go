package config

import (
	"os"
	"path/filepath"
	"strings"

	"launchpad/crypto"

	"github.com/BurntSushi/toml"
)

type Config struct {
	RPCAddress        string `toml:"RPCAddress"`
	DataDir           string `toml:"DataDir"`
	GenesisFile       string `toml:"GenesisFile"`
	OwnerKeystorePath string `toml:"OwnerKeystorePath"`
	NetworkName       string `toml:"NetworkName"`
	Environment       string `toml:"Environment"`

	RPCAuthToken      string  `toml:"RPCAuthToken"`
	RPCRateLimit      float64 `toml:"RPCRateLimit"`
	RPCRateBurst      int     `toml:"RPCRateBurst"`
	RPCTrustedProxies bool    `toml:"RPCTrustedProxies"`

	LogFile       string `toml:"LogFile"`
	LogMaxSizeMB  int    `toml:"LogMaxSizeMB"`
	LogMaxBackups int    `toml:"LogMaxBackups"`
	LogMaxAgeDays int    `toml:"LogMaxAgeDays"`

	OTLPEndpoint string `toml:"OTLPEndpoint"`
	OTLPInsecure bool   `toml:"OTLPInsecure"`
	OTLPHeaders  string `toml:"OTLPHeaders"`
	OTLPMetrics  bool   `toml:"OTLPMetrics"`
	OTLPTraces   bool   `toml:"OTLPTraces"`

	IndexerListenAddress string `toml:"IndexerListenAddress"`
	IndexerDSN           string `toml:"IndexerDSN"`
	IndexerDriver        string `toml:"IndexerDriver"`
	IndexerJWTSecret     string `toml:"IndexerJWTSecret"`
}

// Load loads the configuration from the given path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if err := ensureKeystore(path, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "launchpad-local"
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = "development"
	}
	if cfg.RPCRateLimit <= 0 {
		cfg.RPCRateLimit = 10
	}
	if cfg.RPCRateBurst <= 0 {
		cfg.RPCRateBurst = 20
	}
	if strings.TrimSpace(cfg.IndexerDriver) == "" {
		cfg.IndexerDriver = "sqlite"
	}
	if strings.TrimSpace(cfg.IndexerDSN) == "" {
		cfg.IndexerDSN = filepath.Join(cfg.DataDir, "indexer.db")
	}
}

func ensureKeystore(configPath string, cfg *Config) error {
	keystorePath := cfg.OwnerKeystorePath
	if keystorePath == "" {
		keystorePath = defaultKeystorePath(configPath)
	}

	if _, err := os.Stat(keystorePath); os.IsNotExist(err) {
		key, genErr := crypto.GeneratePrivateKey()
		if genErr != nil {
			return genErr
		}
		if err := crypto.SaveToKeystore(keystorePath, key, ""); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if cfg.OwnerKeystorePath != keystorePath {
		cfg.OwnerKeystorePath = keystorePath
		return persist(configPath, cfg)
	}

	return nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}

	keystorePath := defaultKeystorePath(path)
	if err := crypto.SaveToKeystore(keystorePath, key, ""); err != nil {
		return nil, err
	}

	cfg := &Config{
		RPCAddress:           ":8080",
		DataDir:              "./launchpad-data",
		GenesisFile:          "",
		NetworkName:          "launchpad-local",
		Environment:          "development",
		RPCRateLimit:         10,
		RPCRateBurst:         20,
		IndexerListenAddress: ":8081",
		IndexerDriver:        "sqlite",
	}
	cfg.OwnerKeystorePath = keystorePath
	cfg.IndexerDSN = filepath.Join(cfg.DataDir, "indexer.db")

	if err := persist(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func defaultKeystorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	if dir == "." || dir == "" {
		dir = ""
	}
	return filepath.Join(dir, "owner.keystore")
}
