// Package chainparser turns raw Solana account data into JSON using the IDL of
// the program that owns the account.
package chainparser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/smartcontractkit/chainparser/pkg/decoder"
	"github.com/smartcontractkit/chainparser/pkg/discriminator"
	"github.com/smartcontractkit/chainparser/pkg/idl"
	"github.com/smartcontractkit/chainparser/pkg/idl/plan"
	"github.com/smartcontractkit/chainparser/pkg/idlstore"
	"github.com/smartcontractkit/chainparser/pkg/logger"
	"github.com/smartcontractkit/chainparser/pkg/metrics"
	"github.com/smartcontractkit/chainparser/pkg/render"
	"github.com/smartcontractkit/chainparser/pkg/value"
)

// entry is everything needed to decode accounts of one program. It is never
// modified after it was stored.
type entry struct {
	provider idl.Provider
	doc      *idl.Document
	plan     *plan.Plan
	matcher  *discriminator.Matcher
	decoder  *decoder.Decoder
}

type Option func(*Registry)

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithStore persists every IDL registered from JSON.
func WithStore(store idlstore.Store) Option {
	return func(r *Registry) {
		r.store = store
	}
}

// WithMaxAccountSize rejects account data longer than n bytes. n <= 0 disables the check.
func WithMaxAccountSize(n int) Option {
	return func(r *Registry) {
		r.maxAccountSize = n
	}
}

func WithMaxDepth(depth int) Option {
	return func(r *Registry) {
		r.maxDepth = depth
	}
}

// Stats are counters since the registry was created.
type Stats struct {
	Registrations  uint64
	Decodes        uint64
	DecodeFailures uint64
}

// Registry holds one decoder per program id. It is safe for concurrent use:
// registration replaces entries whole, so decodes in flight keep the entry
// they started with.
type Registry struct {
	lggr           logger.Logger
	opts           render.Opts
	metrics        *metrics.Metrics
	store          idlstore.Store
	maxAccountSize int
	maxDepth       int

	mu      sync.RWMutex
	entries map[string]*entry
	// held across persisting and swapping in an entry, so the store always
	// holds the IDL that is live
	writeMu sync.Mutex

	// collapses concurrent IDL fetches for one program
	fetchGroup singleflight.Group

	registrations  atomic.Uint64
	decodes        atomic.Uint64
	decodeFailures atomic.Uint64
}

func New(lggr logger.Logger, opts render.Opts, options ...Option) *Registry {
	r := &Registry{
		lggr:     lggr.Named("Registry"),
		opts:     opts,
		maxDepth: decoder.DefaultMaxDepth,
		entries:  map[string]*entry{},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// AddIDLJSON parses idlJSON and registers it for programID, replacing any IDL
// registered before. On failure the previous IDL stays in place.
func (r *Registry) AddIDLJSON(programID, idlJSON string, provider idl.Provider) error {
	err := r.addIDLJSON(programID, []byte(idlJSON), provider, true)
	r.metrics.ObserveRegistration(programID, err)
	return err
}

func (r *Registry) addIDLJSON(programID string, raw []byte, provider idl.Provider, persist bool) error {
	doc, err := idl.Parse(programID, raw, provider)
	if err != nil {
		return errors.Wrapf(err, "failed to parse IDL for %s", programID)
	}
	e, err := r.newEntry(programID, doc)
	if err != nil {
		return err
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if persist && r.store != nil {
		err = r.store.Put(idlstore.Record{
			ProgramID: programID,
			Provider:  provider.String(),
			JSON:      raw,
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			return errors.Wrapf(err, "failed to persist IDL for %s", programID)
		}
	}
	r.swap(programID, e)
	return nil
}

// AddIDL registers an already parsed document for programID. Documents added
// this way are not persisted.
func (r *Registry) AddIDL(programID string, doc *idl.Document) error {
	if doc == nil {
		err := fmt.Errorf("%w: nil document", idl.ErrInvalidIDL)
		r.metrics.ObserveRegistration(programID, err)
		return err
	}
	e, err := r.newEntry(programID, doc)
	if err == nil {
		r.writeMu.Lock()
		r.swap(programID, e)
		r.writeMu.Unlock()
	}
	r.metrics.ObserveRegistration(programID, err)
	return err
}

func (r *Registry) newEntry(programID string, doc *idl.Document) (*entry, error) {
	p, err := plan.Resolve(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve IDL for %s", programID)
	}
	return &entry{
		provider: doc.Provider,
		doc:      doc,
		plan:     p,
		matcher:  discriminator.NewMatcher(p.Accounts),
		decoder:  decoder.New(p, decoder.WithMaxDepth(r.maxDepth)),
	}, nil
}

func (r *Registry) swap(programID string, e *entry) {
	r.mu.Lock()
	_, replaced := r.entries[programID]
	r.entries[programID] = e
	n := len(r.entries)
	r.mu.Unlock()

	r.registrations.Inc()
	r.metrics.SetPrograms(n)
	r.lggr.Infof("Registered IDL for %s (%s, %d accounts, %d types, replaced=%t)",
		programID, e.provider, len(e.doc.Accounts), len(e.doc.Types), replaced)
}

// LoadStored registers every IDL held by the store. IDLs that fail to load are
// skipped and reported together; the count is of IDLs that did load.
func (r *Registry) LoadStored() (int, error) {
	if r.store == nil {
		return 0, nil
	}
	records, err := r.store.All()
	if err != nil {
		return 0, err
	}
	var (
		loaded int
		merr   error
	)
	for _, rec := range records {
		provider, err := idl.ParseProvider(rec.Provider)
		if err == nil {
			err = r.addIDLJSON(rec.ProgramID, rec.JSON, provider, false)
		}
		r.metrics.ObserveRegistration(rec.ProgramID, err)
		if err != nil {
			r.lggr.Warnf("Failed to load stored IDL for %s: %v", rec.ProgramID, err)
			merr = multierr.Append(merr, err)
			continue
		}
		loaded++
	}
	return loaded, merr
}

// TryAddIDLForProgram fetches the IDL a program uploaded on chain and registers
// it. It reports false when no provider has an IDL account for the program.
func (r *Registry) TryAddIDLForProgram(ctx context.Context, reader AccountReader, programID solana.PublicKey) (bool, error) {
	v, err, _ := r.fetchGroup.Do(programID.String(), func() (interface{}, error) {
		return r.tryAddIDLForProgram(ctx, reader, programID)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (r *Registry) tryAddIDLForProgram(ctx context.Context, reader AccountReader, programID solana.PublicKey) (bool, error) {
	for _, provider := range idl.Providers {
		addr, err := idl.IDLAddress(provider, programID)
		if err != nil {
			return false, err
		}
		data, err := reader.ReadAll(ctx, addr)
		if errors.Is(err, ErrAccountNotFound) {
			r.lggr.Debugf("No %s IDL account for %s at %s", provider, programID, addr)
			continue
		}
		if err != nil {
			return false, errors.Wrapf(err, "failed to read %s IDL account %s", provider, addr)
		}
		account, err := idl.DecodeIDLAccount(data)
		if err != nil {
			return false, errors.Wrapf(err, "failed to decode %s IDL account %s", provider, addr)
		}
		if err := r.AddIDLJSON(programID.String(), string(account.JSON), provider); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (r *Registry) lookup(programID string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.entries[programID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, programID)
	}
	return e, nil
}

func (r *Registry) HasIDL(programID string) bool {
	_, err := r.lookup(programID)
	return err == nil
}

// AddedIDLs returns the registered program ids in ascending order.
func (r *Registry) AddedIDLs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Document returns the IDL registered for programID.
func (r *Registry) Document(programID string) (*idl.Document, bool) {
	e, err := r.lookup(programID)
	if err != nil {
		return nil, false
	}
	return e.doc, true
}

// Plan returns the decoding plan registered for programID.
func (r *Registry) Plan(programID string) (*plan.Plan, bool) {
	e, err := r.lookup(programID)
	if err != nil {
		return nil, false
	}
	return e.plan, true
}

// AccountName reports which account of the program's IDL data belongs to.
func (r *Registry) AccountName(programID string, data []byte) (string, bool) {
	e, err := r.lookup(programID)
	if err != nil {
		return "", false
	}
	return e.matcher.AccountName(data)
}

func (r *Registry) Stats() Stats {
	return Stats{
		Registrations:  r.registrations.Load(),
		Decodes:        r.decodes.Load(),
		DecodeFailures: r.decodeFailures.Load(),
	}
}

func (r *Registry) checkSize(data []byte) error {
	if r.maxAccountSize > 0 && len(data) > r.maxAccountSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrAccountTooLarge, len(data), r.maxAccountSize)
	}
	return nil
}

// DecodeAccount decodes data into a value tree without rendering it.
func (r *Registry) DecodeAccount(programID string, data []byte) (value.Value, string, error) {
	e, err := r.lookup(programID)
	if err != nil {
		return nil, "", err
	}
	if err := r.checkSize(data); err != nil {
		r.observe(programID, "", data, err)
		return nil, "", err
	}
	acc, err := e.matcher.Match(data)
	if err != nil {
		r.observe(programID, "", data, err)
		return nil, "", errors.WithMessagef(err, "program %s", programID)
	}
	v, err := r.decode(programID, e, acc, data[len(acc.Discriminator):], data)
	return v, acc.Name, err
}

// DecodeAccountByName decodes data as the named account. data carries no
// discriminator.
func (r *Registry) DecodeAccountByName(programID, accountName string, data []byte) (value.Value, error) {
	e, err := r.lookup(programID)
	if err != nil {
		return nil, err
	}
	if err := r.checkSize(data); err != nil {
		r.observe(programID, accountName, data, err)
		return nil, err
	}
	acc, ok := e.matcher.ByName(accountName)
	if !ok {
		err := fmt.Errorf("%w: %s has no account %q", ErrUnknownAccountName, programID, accountName)
		r.observe(programID, "", data, err)
		return nil, err
	}
	return r.decode(programID, e, acc, data, data)
}

func (r *Registry) decode(programID string, e *entry, acc plan.AccountPlan, body, data []byte) (value.Value, error) {
	v, err := e.decoder.Decode(acc.Root, decoder.NewCursor(body))
	if err != nil {
		err = errors.WithMessagef(err, "program %s: account %s", programID, acc.Name)
	}
	r.observe(programID, acc.Name, data, err)
	return v, err
}

func (r *Registry) observe(programID, account string, data []byte, err error) {
	r.decodes.Inc()
	if err != nil {
		r.decodeFailures.Inc()
		r.lggr.Debugf("Failed to decode %d byte account of %s: %v", len(data), programID, err)
	}
	r.metrics.ObserveDecode(programID, account, len(data), err)
}

// DeserializeAccount writes the JSON form of an account of programID to out.
// Nothing is written unless decoding and rendering succeeded.
func (r *Registry) DeserializeAccount(programID string, data []byte, out io.Writer) error {
	v, _, err := r.DecodeAccount(programID, data)
	if err != nil {
		return err
	}
	return render.Write(out, v, r.opts)
}

func (r *Registry) DeserializeAccountToJSONString(programID string, data []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.DeserializeAccount(programID, data, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DeserializeAccountByName is DeserializeAccount for data without a discriminator.
func (r *Registry) DeserializeAccountByName(programID, accountName string, data []byte, out io.Writer) error {
	v, err := r.DecodeAccountByName(programID, accountName, data)
	if err != nil {
		return err
	}
	return render.Write(out, v, r.opts)
}

// DeserializeAccounts decodes a batch of accounts of one program concurrently.
// Results keep the order of accounts; the first failure cancels the rest.
func (r *Registry) DeserializeAccounts(ctx context.Context, programID string, accounts [][]byte) ([]string, error) {
	if _, err := r.lookup(programID); err != nil {
		return nil, err
	}
	out := make([]string, len(accounts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, data := range accounts {
		i, data := i, data
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := r.DeserializeAccountToJSONString(programID, data)
			if err != nil {
				return errors.WithMessagef(err, "account %d", i)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
