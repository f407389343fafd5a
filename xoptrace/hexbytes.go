package xoptrace

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// HexBytes16 is a 128-bit identifier that renders as 32 lower-case hex
// characters. The zero value is the all-zero id.
type HexBytes16 struct {
	b [16]byte
}

// HexBytes8 is a 64-bit identifier that renders as 16 lower-case hex
// characters. The zero value is the all-zero id.
type HexBytes8 struct {
	b [8]byte
}

var (
	zeroHexBytes16b = [16]byte{}
	zeroHexBytes8b  = [8]byte{}
	zeroBytes       = make([]byte, 16)
)

func NewHexBytes16FromArray(b [16]byte) HexBytes16 { return HexBytes16{b: b} }
func NewHexBytes8FromArray(b [8]byte) HexBytes8    { return HexBytes8{b: b} }

func NewHexBytes16FromSlice(b []byte) HexBytes16 {
	var x HexBytes16
	setBytes(x.b[:], b)
	return x
}

func NewHexBytes8FromSlice(b []byte) HexBytes8 {
	var x HexBytes8
	setBytes(x.b[:], b)
	return x
}

// NewHexBytes16FromString is lenient: invalid hex becomes zero, short
// input is zero padded, and long input is truncated.
func NewHexBytes16FromString(s string) HexBytes16 {
	var x HexBytes16
	setBytesFromString(x.b[:], s)
	return x
}

// NewHexBytes8FromString has the same leniency as NewHexBytes16FromString.
func NewHexBytes8FromString(s string) HexBytes8 {
	var x HexBytes8
	setBytesFromString(x.b[:], s)
	return x
}

// ParseHexBytes16 accepts exactly 32 hex characters.
func ParseHexBytes16(s string) (HexBytes16, bool) {
	var x HexBytes16
	ok := parseExact(x.b[:], s)
	return x, ok
}

// ParseHexBytes8 accepts exactly 16 hex characters.
func ParseHexBytes8(s string) (HexBytes8, bool) {
	var x HexBytes8
	ok := parseExact(x.b[:], s)
	return x, ok
}

func (x HexBytes16) IsZero() bool    { return x.b == zeroHexBytes16b }
func (x HexBytes16) Bytes() []byte   { return x.b[:] }
func (x HexBytes16) Array() [16]byte { return x.b }
func (x HexBytes16) String() string  { return hex.EncodeToString(x.b[:]) }
func (x HexBytes8) IsZero() bool     { return x.b == zeroHexBytes8b }
func (x HexBytes8) Bytes() []byte    { return x.b[:] }
func (x HexBytes8) Array() [8]byte   { return x.b }
func (x HexBytes8) String() string   { return hex.EncodeToString(x.b[:]) }

func setBytesFromString(dest []byte, h string) {
	b, err := hex.DecodeString(h)
	if err != nil {
		copy(dest, zeroBytes[:len(dest)])
		return
	}
	setBytes(dest, b)
}

func setBytes(dest []byte, b []byte) {
	if len(b) >= len(dest) {
		copy(dest, b[0:len(dest)])
	} else {
		copy(dest, b)
		copy(dest[len(b):], zeroBytes[:len(dest)-len(b)])
	}
}

func parseExact(dest []byte, h string) bool {
	if len(h) != len(dest)*2 {
		return false
	}
	b, err := hex.DecodeString(strings.ToLower(h))
	if err != nil {
		return false
	}
	copy(dest, b)
	return true
}

// randomBytesNotAllZero fills b from crypto/rand. All-zero means "absent"
// on the wire so such draws are repeated. A broken randomness source
// leaves no safe identifier to fall back on, so it panics.
func randomBytesNotAllZero(b []byte) {
	for {
		if _, err := rand.Read(b); err != nil {
			panic(errors.Wrap(err, "read random identifier"))
		}
		for _, c := range b {
			if c != 0 {
				return
			}
		}
	}
}
