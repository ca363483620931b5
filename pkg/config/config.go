package config

import (
	"sync"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/chainparser/pkg/idl"
	"github.com/smartcontractkit/chainparser/pkg/logger"
	"github.com/smartcontractkit/chainparser/pkg/render"
)

// Solana caps account data at 10MiB.
const maxAccountDataSize = 10 << 20

var defaultConfigSet = configSet{
	PubkeyAsBase58: true,
	N64AsString:    false,
	N128AsString:   false,
	MaxAccountSize: maxAccountDataSize,
	StorePath:      "", // IDLs are kept in memory only
	RPCURL:         rpc.MainNetBeta_RPC,
	Commitment:     rpc.CommitmentConfirmed,
	LogLevel:       "info",
}

type Config interface {
	SerializationOpts() render.Opts
	MaxAccountSize() int
	StorePath() string
	RPCURL() string
	Commitment() rpc.CommitmentType
	LogLevel() string
	IDLs() []IDLConfig

	// Update replaces the configured values.
	Update(TOMLConfig)
}

type configSet struct {
	PubkeyAsBase58 bool
	N64AsString    bool
	N128AsString   bool
	MaxAccountSize int
	StorePath      string
	RPCURL         string
	Commitment     rpc.CommitmentType
	LogLevel       string
}

var _ Config = (*config)(nil)

type config struct {
	defaults configSet
	cfg      TOMLConfig
	cfgMu    sync.RWMutex
	lggr     logger.Logger
}

// NewConfig returns a Config with defaults overridden by cfg.
func NewConfig(cfg TOMLConfig, lggr logger.Logger) *config {
	return &config{
		defaults: defaultConfigSet,
		cfg:      cfg,
		lggr:     lggr,
	}
}

func (c *config) Update(cfg TOMLConfig) {
	c.cfgMu.Lock()
	c.cfg = cfg
	c.cfgMu.Unlock()
}

func (c *config) SerializationOpts() render.Opts {
	c.cfgMu.RLock()
	s := c.cfg.Serialization
	c.cfgMu.RUnlock()
	opts := render.Opts{
		PubkeyAsBase58: c.defaults.PubkeyAsBase58,
		N64AsString:    c.defaults.N64AsString,
		N128AsString:   c.defaults.N128AsString,
	}
	if s.PubkeyAsBase58.Valid {
		opts.PubkeyAsBase58 = s.PubkeyAsBase58.Bool
	}
	if s.N64AsString.Valid {
		opts.N64AsString = s.N64AsString.Bool
	}
	if s.N128AsString.Valid {
		opts.N128AsString = s.N128AsString.Bool
	}
	return opts
}

func (c *config) MaxAccountSize() int {
	c.cfgMu.RLock()
	ch := c.cfg.Registry.MaxAccountSize
	c.cfgMu.RUnlock()
	if ch.Valid {
		if ch.Int64 > 0 && ch.Int64 <= int64(c.defaults.MaxAccountSize) {
			return int(ch.Int64)
		}
		c.lggr.Warnf(invalidFallbackMsg, "MaxAccountSize", ch.Int64, c.defaults.MaxAccountSize, nil)
	}
	return c.defaults.MaxAccountSize
}

func (c *config) StorePath() string {
	c.cfgMu.RLock()
	ch := c.cfg.Registry.StorePath
	c.cfgMu.RUnlock()
	if ch.Valid {
		return ch.String
	}
	return c.defaults.StorePath
}

func (c *config) RPCURL() string {
	c.cfgMu.RLock()
	ch := c.cfg.RPC.URL
	c.cfgMu.RUnlock()
	if ch.Valid && ch.String != "" {
		return ch.String
	}
	return c.defaults.RPCURL
}

func (c *config) Commitment() rpc.CommitmentType {
	c.cfgMu.RLock()
	ch := c.cfg.RPC.Commitment
	c.cfgMu.RUnlock()
	if ch.Valid {
		commitment, ok := parseCommitment(ch.String)
		if !ok {
			c.lggr.Warnf(invalidFallbackMsg, "Commitment", ch.String, c.defaults.Commitment, nil)
			return c.defaults.Commitment
		}
		return commitment
	}
	return c.defaults.Commitment
}

func (c *config) LogLevel() string {
	c.cfgMu.RLock()
	ch := c.cfg.Log.Level
	c.cfgMu.RUnlock()
	if ch.Valid {
		return ch.String
	}
	return c.defaults.LogLevel
}

// IDLs returns the configured IDLs with providers defaulted to Anchor.
func (c *config) IDLs() []IDLConfig {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	out := make([]IDLConfig, len(c.cfg.IDL))
	for i, entry := range c.cfg.IDL {
		if entry.Provider == "" {
			entry.Provider = idl.ProviderAnchor.String()
		}
		out[i] = entry
	}
	return out
}

const invalidFallbackMsg = `Invalid value provided for %s, "%v" - falling back to default "%v": %v`
