package idl

import (
	"bytes"
	"fmt"
	"io"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/klauspost/compress/zlib"
)

const (
	// IDLAccountHeaderSize covers discriminator, authority and data length.
	IDLAccountHeaderSize = DiscriminatorLength + solana.PublicKeyLength + 4
	// MaxIDLSize bounds the inflated size of an IDL stored on chain.
	MaxIDLSize = 16 << 20
)

// idlAccountDiscriminator prefixes every Anchor IDL account.
var idlAccountDiscriminator = []byte{0x18, 0x46, 0x62, 0xbf, 0x3a, 0x90, 0x7b, 0x9e}

// IDLAccount is the decoded content of an on-chain IDL account.
type IDLAccount struct {
	Authority solana.PublicKey
	DataLen   uint32
	JSON      []byte
}

// DecodeIDLAccount unpacks the zlib compressed IDL JSON held by an IDL account.
func DecodeIDLAccount(data []byte) (IDLAccount, error) {
	if len(data) < IDLAccountHeaderSize {
		return IDLAccount{}, fmt.Errorf("%w: IDL account has %d bytes, header needs %d", ErrInvalidIDL, len(data), IDLAccountHeaderSize)
	}
	if !bytes.Equal(data[:DiscriminatorLength], idlAccountDiscriminator) {
		return IDLAccount{}, fmt.Errorf("%w: not an IDL account, discriminator %x", ErrInvalidIDL, data[:DiscriminatorLength])
	}

	dec := bin.NewBorshDecoder(data[DiscriminatorLength:])
	authority, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return IDLAccount{}, fmt.Errorf("%w: failed to read IDL authority: %s", ErrInvalidIDL, err)
	}
	dataLen, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return IDLAccount{}, fmt.Errorf("%w: failed to read IDL data length: %s", ErrInvalidIDL, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(data[IDLAccountHeaderSize:]))
	if err != nil {
		return IDLAccount{}, fmt.Errorf("%w: IDL account should contain zlib data: %s", ErrInvalidIDL, err)
	}
	defer zr.Close()

	inflated, err := io.ReadAll(io.LimitReader(zr, MaxIDLSize+1))
	if err != nil {
		return IDLAccount{}, fmt.Errorf("%w: failed to inflate IDL data: %s", ErrInvalidIDL, err)
	}
	if len(inflated) > MaxIDLSize {
		return IDLAccount{}, fmt.Errorf("%w: inflated IDL exceeds %d bytes", ErrInvalidIDL, MaxIDLSize)
	}

	return IDLAccount{
		Authority: solana.PublicKeyFromBytes(authority),
		DataLen:   dataLen,
		JSON:      inflated,
	}, nil
}

// EncodeIDLAccount packs IDL JSON the way it is stored on chain.
func EncodeIDLAccount(authority solana.PublicKey, json []byte) ([]byte, error) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(json); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	enc := bin.NewBorshEncoder(&out)
	if err := enc.WriteBytes(idlAccountDiscriminator, false); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(authority[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint32(uint32(compressed.Len()), bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(compressed.Bytes(), false); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
