package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	encodingRaw    = "raw"
	encodingBase64 = "base64"
	encodingBase58 = "base58"
	encodingHex    = "hex"
)

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// decodeInput turns account data given in encoding into raw bytes. Text
// encodings ignore surrounding whitespace.
func decodeInput(data []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case encodingRaw, "":
		return data, nil
	case encodingBase64:
		return base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
	case encodingBase58:
		return base58.Decode(string(bytes.TrimSpace(data)))
	case encodingHex:
		s := strings.TrimPrefix(string(bytes.TrimSpace(data)), "0x")
		return hex.DecodeString(s)
	default:
		return nil, fmt.Errorf("unknown encoding %q, want one of raw, base64, base58, hex", encoding)
	}
}
