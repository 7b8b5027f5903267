package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration
type Config struct {
	RPCURLs         []RPCUrl `json:"rpc_urls"`
	WalletURL       string   `json:"wallet_url,omitempty"`
	ContractAddress string   `json:"contract_address,omitempty"`
	GiphyAPIKey     string   `json:"giphy_api_key,omitempty"`
	Logger          bool     `json:"logger"`
	LogLevel        string   `json:"log_level,omitempty"`
	Redis           Redis    `json:"redis,omitempty"`
	StatePath       string   `json:"state_path,omitempty"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Redis holds the optional shared store for the transaction count
type Redis struct {
	Addr     string `json:"addr,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

// Env is the environment overlay. Set values win over the file.
type Env struct {
	RPCURL          string `envconfig:"ETH_RPC_URL"`
	WalletURL       string `envconfig:"WALLET_RPC_URL"`
	ContractAddress string `envconfig:"CONTRACT_ADDRESS"`
	GiphyAPIKey     string `envconfig:"GIPHY_API_KEY"`
	RedisAddr       string `envconfig:"REDIS_ADDR"`
	RedisUsername   string `envconfig:"REDIS_USERNAME"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD"`
	RedisDB         *int   `envconfig:"REDIS_DB"`
	LogLevel        string `envconfig:"LOG_LEVEL"`
}

// DefaultPath returns ~/.krypt-config.json
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".krypt-config.json"
	}
	return filepath.Join(homeDir, ".krypt-config.json")
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns a new configuration pointing at a local dev node
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Local node",
				URL:    "http://127.0.0.1:8545",
				Active: true,
			},
		},
		WalletURL: "http://127.0.0.1:8545",
		Logger:    true,
		LogLevel:  "info",
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// EnvRPCName names the endpoint ApplyEnv adds for ETH_RPC_URL.
const EnvRPCName = "Environment"

// WithoutEnvRPC returns urls minus the entry added by ApplyEnv, for writing
// back to the config file.
func WithoutEnvRPC(urls []RPCUrl) []RPCUrl {
	out := make([]RPCUrl, 0, len(urls))
	for _, r := range urls {
		if r.Name == EnvRPCName {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg Config) (Config, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return cfg, err
	}

	if v := strings.TrimSpace(env.RPCURL); v != "" {
		cfg = cfg.WithActiveRPC(EnvRPCName, v)
	}
	if env.WalletURL != "" {
		cfg.WalletURL = env.WalletURL
	}
	if env.ContractAddress != "" {
		cfg.ContractAddress = env.ContractAddress
	}
	if env.GiphyAPIKey != "" {
		cfg.GiphyAPIKey = env.GiphyAPIKey
	}
	if env.RedisAddr != "" {
		cfg.Redis.Addr = env.RedisAddr
	}
	if env.RedisUsername != "" {
		cfg.Redis.Username = env.RedisUsername
	}
	if env.RedisPassword != "" {
		cfg.Redis.Password = env.RedisPassword
	}
	if env.RedisDB != nil {
		cfg.Redis.DB = *env.RedisDB
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}

	return cfg, nil
}

// Resolve is the startup sequence: .env, then the file at path (created if
// missing), then the environment overlay.
func Resolve(path string) (Config, error) {
	LoadDotEnv()
	return ApplyEnv(LoadOrCreate(path))
}

// ActiveRPC returns the URL of the active RPC endpoint, or the first one
// if none is marked active.
func (c Config) ActiveRPC() string {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r.URL
		}
	}
	if len(c.RPCURLs) > 0 {
		return c.RPCURLs[0].URL
	}
	return ""
}

// WithActiveRPC returns a copy of c where url is the only active endpoint.
// An existing entry with the same URL is reused.
func (c Config) WithActiveRPC(name, url string) Config {
	urls := make([]RPCUrl, 0, len(c.RPCURLs)+1)
	found := false
	for _, r := range c.RPCURLs {
		r.Active = r.URL == url
		found = found || r.Active
		urls = append(urls, r)
	}
	if !found {
		urls = append(urls, RPCUrl{Name: name, URL: url, Active: true})
	}
	c.RPCURLs = urls
	return c
}

// StateFile returns the configured state path or the default.
func (c Config) StateFile(def string) string {
	if c.StatePath != "" {
		return c.StatePath
	}
	return def
}
