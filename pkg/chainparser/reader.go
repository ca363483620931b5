package chainparser

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// AccountReader provides the raw data of an account. This is likely a wrapper
// for a solana client.
type AccountReader interface {
	ReadAll(context.Context, solana.PublicKey) ([]byte, error)
}

// AccountInfoGetter is satisfied by *rpc.Client.
type AccountInfoGetter interface {
	GetAccountInfoWithOpts(ctx context.Context, addr solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
}

// RPCAccountReader reads account data over JSON RPC.
type RPCAccountReader struct {
	client     AccountInfoGetter
	commitment rpc.CommitmentType
}

var _ AccountReader = (*RPCAccountReader)(nil)

func NewRPCAccountReader(client AccountInfoGetter, commitment rpc.CommitmentType) *RPCAccountReader {
	return &RPCAccountReader{client: client, commitment: commitment}
}

// ReadAll returns ErrAccountNotFound when addr holds no account.
func (r *RPCAccountReader) ReadAll(ctx context.Context, addr solana.PublicKey) ([]byte, error) {
	res, err := r.client.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: r.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", addr, err)
	}
	if res == nil || res.Value == nil || res.Value.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return res.Value.Data.GetBinary(), nil
}
