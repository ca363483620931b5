package decoder

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// Cursor is a bounds checked reader over account data. Every read checks the
// remaining length first, so a short buffer surfaces as ErrUnexpectedEOF and
// never as a panic.
type Cursor struct {
	dec  *bin.Decoder
	size int
	// elements left to decode; bounds work on zero sized elements, which
	// consume no input.
	elements int
}

// elementsPerByte and baseElements size the element budget of a cursor.
const (
	elementsPerByte = 8
	baseElements    = 1 << 16
)

func NewCursor(data []byte) *Cursor {
	return &Cursor{
		dec:      bin.NewBorshDecoder(data),
		size:     len(data),
		elements: baseElements + elementsPerByte*len(data),
	}
}

// Position returns the number of bytes consumed so far.
func (c *Cursor) Position() int {
	return c.size - c.dec.Remaining()
}

func (c *Cursor) Remaining() int {
	return c.dec.Remaining()
}

// charge takes n elements from the budget of the cursor.
func (c *Cursor) charge(n int) error {
	if n < 0 || n > c.elements {
		return fmt.Errorf("%w: %d more elements at offset %d, %d left for %d bytes of input",
			ErrTooManyElements, n, c.Position(), c.elements, c.size)
	}
	c.elements -= n
	return nil
}

func (c *Cursor) need(n int) error {
	if n < 0 || c.dec.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, %d remaining", ErrUnexpectedEOF, n, c.Position(), c.dec.Remaining())
	}
	return nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	return c.dec.ReadUint8()
}

func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	return c.dec.ReadUint16(bin.LE)
}

func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	return c.dec.ReadUint32(bin.LE)
}

func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	return c.dec.ReadUint64(bin.LE)
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	raw, err := c.dec.ReadNBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	_, err := c.dec.ReadNBytes(n)
	return err
}

// ReadLength reads a u32 length prefix and checks that at least that many bytes
// remain.
func (c *Cursor) ReadLength() (int, error) {
	n, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	if err := c.need(int(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}
