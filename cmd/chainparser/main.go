package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/tidwall/pretty"

	"github.com/smartcontractkit/chainparser/pkg/chainparser"
	"github.com/smartcontractkit/chainparser/pkg/config"
	"github.com/smartcontractkit/chainparser/pkg/idl"
	"github.com/smartcontractkit/chainparser/pkg/idlstore"
	"github.com/smartcontractkit/chainparser/pkg/logger"
)

var (
	configPath  string
	idlPath     string
	programID   string
	provider    string
	accountPath string
	encoding    string
	address     string
	rpcURL      string
	accountName string
	typeName    string
	fetchIDL    bool
	printPlan   bool
	dumpValue   bool
	prettyJSON  bool
	timeout     time.Duration
)

func init() {
	flag.StringVar(&configPath, "config", "", "TOML config file")
	flag.StringVar(&idlPath, "idl", "", "IDL JSON file to register for -program")
	flag.StringVar(&programID, "program", "", "program id the account belongs to")
	flag.StringVar(&provider, "provider", idl.ProviderAnchor.String(), "IDL provider of -idl")
	flag.StringVar(&accountPath, "account", "", "account data file, - for stdin")
	flag.StringVar(&encoding, "encoding", encodingRaw, "encoding of -account: raw, base64, base58 or hex")
	flag.StringVar(&address, "address", "", "fetch account data for this address over RPC")
	flag.StringVar(&rpcURL, "rpc", "", "RPC endpoint, overrides the config")
	flag.StringVar(&accountName, "name", "", "decode as this account without a discriminator")
	flag.StringVar(&typeName, "type", "", "with -plan, print only this declared type")
	flag.BoolVar(&fetchIDL, "fetch-idl", false, "fetch the program IDL from chain when none is registered")
	flag.BoolVar(&printPlan, "plan", false, "print the decoding plan of -program")
	flag.BoolVar(&dumpValue, "dump", false, "dump the decoded value tree instead of JSON")
	flag.BoolVar(&prettyJSON, "pretty", false, "indent JSON output")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "timeout for RPC requests")
}

func main() {
	flag.Parse()
	if err := run(os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() (config.Config, logger.Logger, error) {
	var tomlCfg config.TOMLConfig
	if configPath != "" {
		var err error
		if tomlCfg, err = config.Load(configPath); err != nil {
			return nil, nil, fmt.Errorf("invalid config %s: %w", configPath, err)
		}
	}
	level := config.NewConfig(tomlCfg, logger.Nop()).LogLevel()
	lggr, err := logger.New(level)
	if err != nil {
		return nil, nil, err
	}
	return config.NewConfig(tomlCfg, lggr), lggr, nil
}

func run(stdin io.Reader, stdout io.Writer) error {
	cfg, lggr, err := loadConfig()
	if err != nil {
		return err
	}
	defer lggr.Sync() //nolint:errcheck

	options := []chainparser.Option{chainparser.WithMaxAccountSize(cfg.MaxAccountSize())}
	if path := cfg.StorePath(); path != "" {
		store, err := idlstore.NewBadger(path)
		if err != nil {
			return err
		}
		defer store.Close()
		options = append(options, chainparser.WithStore(store))
	}
	registry := chainparser.New(lggr, cfg.SerializationOpts(), options...)

	if n, err := registry.LoadStored(); err != nil {
		lggr.Warnf("Loaded %d stored IDLs: %v", n, err)
	}
	for _, entry := range cfg.IDLs() {
		if err := registerFile(registry, entry.ProgramID, entry.Path, entry.Provider); err != nil {
			return err
		}
	}
	if idlPath != "" {
		if programID == "" {
			return errors.New("-idl requires -program")
		}
		if err := registerFile(registry, programID, idlPath, provider); err != nil {
			return err
		}
	}

	endpoint := rpcURL
	if endpoint == "" {
		endpoint = cfg.RPCURL()
	}
	reader := chainparser.NewRPCAccountReader(rpc.New(endpoint), cfg.Commitment())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if fetchIDL && programID != "" && !registry.HasIDL(programID) {
		program, err := solana.PublicKeyFromBase58(programID)
		if err != nil {
			return fmt.Errorf("invalid program id %q: %w", programID, err)
		}
		added, err := registry.TryAddIDLForProgram(ctx, reader, program)
		if err != nil {
			return err
		}
		if !added {
			return fmt.Errorf("no IDL account found for %s", programID)
		}
	}

	if printPlan {
		p, ok := registry.Plan(programID)
		if !ok {
			return fmt.Errorf("%w: %s", chainparser.ErrUnknownProgram, programID)
		}
		if typeName != "" {
			err = p.DumpType(stdout, typeName)
		} else {
			err = p.Dump(stdout)
		}
		if err != nil {
			return err
		}
	}

	data, err := accountData(ctx, reader, stdin)
	if err != nil || data == nil {
		return err
	}
	if programID == "" {
		return errors.New("decoding an account requires -program")
	}
	if isIDLAccount() {
		acc, err := idl.DecodeIDLAccount(data)
		if err != nil {
			return err
		}
		_, err = stdout.Write(pretty.Pretty(acc.JSON))
		return err
	}
	return decodeAccount(registry, data, stdout)
}

func registerFile(registry *chainparser.Registry, programID, path, providerTag string) error {
	p, err := idl.ParseProvider(providerTag)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read IDL for %s: %w", programID, err)
	}
	return registry.AddIDLJSON(programID, string(raw), p)
}

// isIDLAccount reports whether -address points at the IDL account of -program.
func isIDLAccount() bool {
	if address == "" {
		return false
	}
	program, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return false
	}
	addr, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return false
	}
	return idl.IsIDLAddress(program, addr)
}

// accountData returns nil when no account was requested.
func accountData(ctx context.Context, reader chainparser.AccountReader, stdin io.Reader) ([]byte, error) {
	switch {
	case address != "" && accountPath != "":
		return nil, errors.New("-address and -account are mutually exclusive")
	case address != "":
		addr, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", address, err)
		}
		return reader.ReadAll(ctx, addr)
	case accountPath != "":
		raw, err := readInput(accountPath, stdin)
		if err != nil {
			return nil, err
		}
		return decodeInput(raw, encoding)
	default:
		return nil, nil
	}
}

func decodeAccount(registry *chainparser.Registry, data []byte, stdout io.Writer) error {
	if dumpValue {
		if accountName != "" {
			v, err := registry.DecodeAccountByName(programID, accountName, data)
			if err != nil {
				return err
			}
			spew.Fdump(stdout, v)
			return nil
		}
		v, name, err := registry.DecodeAccount(programID, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n", name)
		spew.Fdump(stdout, v)
		return nil
	}

	var buf bytes.Buffer
	if accountName != "" {
		err := registry.DeserializeAccountByName(programID, accountName, data, &buf)
		if err != nil {
			return err
		}
	} else if err := registry.DeserializeAccount(programID, data, &buf); err != nil {
		return err
	}

	out := buf.Bytes()
	if prettyJSON {
		out = pretty.Pretty(out)
	} else {
		out = append(out, '\n')
	}
	_, err := stdout.Write(out)
	return err
}
