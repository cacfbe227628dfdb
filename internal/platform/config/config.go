// Package config loads service configuration from a YAML file, overlaid by
// CAGUARD_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"caguard/internal/guardian/models"
	"caguard/internal/strategy"
	pkgstrings "caguard/pkg/platform/strings"
)

// Replay store backends.
const (
	ReplayStoreMemory   = "memory"
	ReplayStoreRedis    = "redis"
	ReplayStorePostgres = "postgres"
)

type Config struct {
	Server    Server          `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Approval  ApprovalConfig  `yaml:"approval"`
	Verifiers VerifiersConfig `yaml:"verifiers"`
	ZK        ZKConfig        `yaml:"zk"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Format string `yaml:"format"` // text or json
	Level  string `yaml:"level"`
}

// RedisConfig is used when approval.replay_store is redis. An empty URL means
// Redis is not configured.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// KafkaConfig enables the Kafka audit sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}

type ApprovalConfig struct {
	ReplayStore      string              `yaml:"replay_store"`
	LegacyDocuments  bool                `yaml:"legacy_documents"`
	ChainID          *int64              `yaml:"chain_id"`
	ChainCheckExempt []string            `yaml:"chain_check_exempt"`
	DefaultStrategy  strategy.Definition `yaml:"default_strategy"`
}

type VerifiersConfig struct {
	Servers []VerifierServerConfig `yaml:"servers"`
	// Aliases maps a retired verifier id to the id it now resolves to.
	Aliases map[string]string `yaml:"aliases"`
}

type VerifierServerConfig struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Addresses []string `yaml:"addresses"`
	Endpoints []string `yaml:"endpoints"`
}

type ZKConfig struct {
	// Issuers maps a guardian type name (google, apple, facebook) to its
	// OIDC issuer.
	Issuers map[string]string `yaml:"issuers"`
	Keys    []IssuerKeyConfig `yaml:"keys"`
	// Circuits maps a circuit id to a snarkjs verification_key.json path.
	Circuits map[string]string `yaml:"circuits"`
}

type IssuerKeyConfig struct {
	Issuer  string `yaml:"issuer"`
	Kid     string `yaml:"kid"`
	Modulus string `yaml:"n"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{Format: "text", Level: "info"},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Kafka:    KafkaConfig{Topic: "caguard.audit", ClientID: "caguard"},
		Approval: ApprovalConfig{ReplayStore: ReplayStoreMemory},
	}
}

// Load reads path (if non-empty) over Default, applies the environment and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		// #nosec G304 -- path is operator-provided config path.
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(raw))
		expanded = strings.ReplaceAll(expanded, "\r\n", "\n")
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("CAGUARD_ADDR", &c.Server.Addr)
	str("CAGUARD_LOG_FORMAT", &c.Log.Format)
	str("CAGUARD_LOG_LEVEL", &c.Log.Level)
	str("CAGUARD_REDIS_URL", &c.Redis.URL)
	str("CAGUARD_POSTGRES_DSN", &c.Postgres.DSN)
	str("CAGUARD_KAFKA_TOPIC", &c.Kafka.Topic)
	str("CAGUARD_REPLAY_STORE", &c.Approval.ReplayStore)
	str("CAGUARD_DEFAULT_STRATEGY", &c.Approval.DefaultStrategy.Expr)
	if v, ok := lookup("CAGUARD_CHAIN_CHECK_EXEMPT"); ok {
		c.Approval.ChainCheckExempt = pkgstrings.SplitList(v)
		if c.Approval.ChainCheckExempt == nil {
			c.Approval.ChainCheckExempt = []string{}
		}
	}

	if v, ok := lookup("CAGUARD_DEFAULT_STRATEGY"); ok && v != "" {
		c.Approval.DefaultStrategy.Tree = nil
	}
	if v, ok := lookup("CAGUARD_KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = pkgstrings.SplitList(v)
	}
	if v, ok := lookup("CAGUARD_CHAIN_ID"); ok && v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CAGUARD_CHAIN_ID: %w", err)
		}
		c.Approval.ChainID = &id
	}
	if v, ok := lookup("CAGUARD_LEGACY_DOCUMENTS"); ok && v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CAGUARD_LEGACY_DOCUMENTS: %w", err)
		}
		c.Approval.LegacyDocuments = allow
	}
	return nil
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	switch c.Approval.ReplayStore {
	case ReplayStoreMemory:
	case ReplayStoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required when approval.replay_store=redis")
		}
	case ReplayStorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required when approval.replay_store=postgres")
		}
	default:
		return fmt.Errorf("approval.replay_store must be memory, redis or postgres, got %q", c.Approval.ReplayStore)
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka.brokers is set")
	}

	if tree, err := c.Approval.DefaultStrategy.Compile(); err != nil {
		return fmt.Errorf("approval.default_strategy: %w", err)
	} else if tree != nil && tree.ResultKind() != strategy.ValueBool {
		return fmt.Errorf("approval.default_strategy must be boolean, %s yields %s", tree, tree.ResultKind())
	}

	if _, _, err := c.Verifiers.Resolve(); err != nil {
		return err
	}
	if _, err := c.ZK.IssuerTypes(); err != nil {
		return err
	}
	for i, k := range c.ZK.Keys {
		if k.Issuer == "" || k.Kid == "" || k.Modulus == "" {
			return fmt.Errorf("zk.keys[%d]: issuer, kid and n are required", i)
		}
	}
	return nil
}

// Resolve converts the verifier section into registry entries.
func (v VerifiersConfig) Resolve() ([]models.VerifierServer, map[models.Hash]models.Hash, error) {
	servers := make([]models.VerifierServer, 0, len(v.Servers))
	known := make(map[models.Hash]struct{}, len(v.Servers))
	for i, sc := range v.Servers {
		id, err := models.ParseHash(sc.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("verifiers.servers[%d].id: %w", i, err)
		}
		if len(sc.Addresses) == 0 {
			return nil, nil, fmt.Errorf("verifiers.servers[%d]: at least one address is required", i)
		}
		server := models.VerifierServer{ID: id, Name: sc.Name, Endpoints: sc.Endpoints}
		for _, raw := range sc.Addresses {
			addr, err := models.ParseAddress(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("verifiers.servers[%d].addresses: %w", i, err)
			}
			server.Addresses = append(server.Addresses, addr)
		}
		known[id] = struct{}{}
		servers = append(servers, server)
	}

	aliases := make(map[models.Hash]models.Hash, len(v.Aliases))
	for from, to := range v.Aliases {
		fromID, err := models.ParseHash(from)
		if err != nil {
			return nil, nil, fmt.Errorf("verifiers.aliases key %q: %w", from, err)
		}
		toID, err := models.ParseHash(to)
		if err != nil {
			return nil, nil, fmt.Errorf("verifiers.aliases[%s]: %w", from, err)
		}
		if _, ok := known[toID]; !ok {
			return nil, nil, fmt.Errorf("verifiers.aliases[%s] points at unknown server %s", from, to)
		}
		aliases[fromID] = toID
	}
	return servers, aliases, nil
}

// IssuerTypes parses the issuer map keys into zk-capable guardian types.
func (z ZKConfig) IssuerTypes() (map[models.GuardianType]string, error) {
	out := make(map[models.GuardianType]string, len(z.Issuers))
	for name, issuer := range z.Issuers {
		t, err := models.ParseGuardianType(name)
		if err != nil {
			return nil, fmt.Errorf("zk.issuers: %w", err)
		}
		if !t.IsZkCapable() {
			return nil, fmt.Errorf("zk.issuers: guardian type %s does not support zk login", t)
		}
		if strings.TrimSpace(issuer) == "" {
			return nil, fmt.Errorf("zk.issuers[%s] is empty", name)
		}
		out[t] = issuer
	}
	return out, nil
}
