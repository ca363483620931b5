package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/guregu/null.v4"

	"github.com/smartcontractkit/chainparser/pkg/idl"
)

// TOMLConfig is the file form of the configuration. Unset keys stay invalid
// nulls and fall back to defaults.
type TOMLConfig struct {
	Serialization SerializationConfig
	Registry      RegistryConfig
	RPC           RPCConfig
	Log           LogConfig
	IDL           []IDLConfig
}

type SerializationConfig struct {
	PubkeyAsBase58 null.Bool
	N64AsString    null.Bool
	N128AsString   null.Bool
}

type RegistryConfig struct {
	MaxAccountSize null.Int
	StorePath      null.String
}

type RPCConfig struct {
	URL        null.String
	Commitment null.String
}

type LogConfig struct {
	Level null.String
}

// IDLConfig registers the IDL stored at Path for ProgramID on startup.
type IDLConfig struct {
	ProgramID string
	Path      string
	Provider  string
}

// Load reads and validates a TOML config file.
func Load(path string) (TOMLConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return TOMLConfig{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates TOML config text. Unknown keys are an error.
func Parse(r io.Reader) (TOMLConfig, error) {
	var cfg TOMLConfig
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return TOMLConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return TOMLConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.ValidateConfig(); err != nil {
		return TOMLConfig{}, err
	}
	return cfg, nil
}

// ValidateConfig reports every invalid setting at once.
func (c TOMLConfig) ValidateConfig() (err error) {
	if c.Registry.MaxAccountSize.Valid && c.Registry.MaxAccountSize.Int64 <= 0 {
		err = multierr.Append(err, fmt.Errorf("Registry.MaxAccountSize must be positive, got %d", c.Registry.MaxAccountSize.Int64))
	}
	if c.RPC.Commitment.Valid {
		if _, ok := parseCommitment(c.RPC.Commitment.String); !ok {
			err = multierr.Append(err, fmt.Errorf("RPC.Commitment %q is not one of processed, confirmed, finalized", c.RPC.Commitment.String))
		}
	}
	if c.Log.Level.Valid {
		var lvl zapcore.Level
		if lerr := lvl.UnmarshalText([]byte(c.Log.Level.String)); lerr != nil {
			err = multierr.Append(err, fmt.Errorf("Log.Level: %w", lerr))
		}
	}
	seen := map[string]bool{}
	for i, entry := range c.IDL {
		if _, perr := solana.PublicKeyFromBase58(entry.ProgramID); perr != nil {
			err = multierr.Append(err, fmt.Errorf("IDL[%d].ProgramID %q: %w", i, entry.ProgramID, perr))
		}
		if seen[entry.ProgramID] {
			err = multierr.Append(err, fmt.Errorf("IDL[%d].ProgramID %q is listed twice", i, entry.ProgramID))
		}
		seen[entry.ProgramID] = true
		if entry.Path == "" {
			err = multierr.Append(err, fmt.Errorf("IDL[%d].Path must be set", i))
		}
		if entry.Provider != "" {
			if _, perr := idl.ParseProvider(entry.Provider); perr != nil {
				err = multierr.Append(err, fmt.Errorf("IDL[%d]: %w", i, perr))
			}
		}
	}
	return err
}

func parseCommitment(s string) (rpc.CommitmentType, bool) {
	switch s {
	case "processed":
		return rpc.CommitmentProcessed, true
	case "confirmed":
		return rpc.CommitmentConfirmed, true
	case "finalized":
		return rpc.CommitmentFinalized, true
	default:
		return "", false
	}
}
