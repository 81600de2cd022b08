package binary

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed-width contract encoding helpers.
// Every field of a contract tuple arrives as a 0x-prefixed, 32-byte hex word.

const (
	// AddressMarker prefixes every decoded account address
	AddressMarker = "0x"

	// WordSize is the width in bytes of one contract field
	WordSize = 32

	addressHexLen = 40
	prefixLen     = 2
	epochDigits   = 10
)

var (
	errShortInput = errors.New("input too short")
	errEmptyValue = errors.New("empty value")
)

// Codec carries the rate formatting settings; everything else in this
// package is a plain function.
type Codec struct {
	RateDelimiter string
	DecimalScale  int32
}

// NewCodec creates a codec for the given rate delimiter and fractional digit count
func NewCodec(rateDelimiter string, decimalScale int32) *Codec {
	return &Codec{
		RateDelimiter: rateDelimiter,
		DecimalScale:  decimalScale,
	}
}

// HexToText decodes a hex buffer to its characters and drops NUL padding
func HexToText(h string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(h, "0x"))
	if err != nil {
		return "", &DecodeError{Field: "text", Input: h, Err: err}
	}
	return strings.ReplaceAll(string(raw), "\x00", ""), nil
}

// HexToAddress keeps the trailing 20 bytes of a word as an account address
func HexToAddress(h string) (string, error) {
	body := strings.TrimPrefix(h, "0x")
	if len(body) < addressHexLen {
		return "", &DecodeError{Field: "address", Input: h, Err: errShortInput}
	}
	tail := body[len(body)-addressHexLen:]
	if _, err := hex.DecodeString(tail); err != nil {
		return "", &DecodeError{Field: "address", Input: h, Err: err}
	}
	return AddressMarker + tail, nil
}

// HexToUint parses everything after the two character prefix as base 16
func HexToUint(h string) (uint64, error) {
	if len(h) < prefixLen {
		return 0, &DecodeError{Field: "uint", Input: h, Err: errShortInput}
	}
	body := h[prefixLen:]
	if body == "" {
		return 0, &DecodeError{Field: "uint", Input: h, Err: errEmptyValue}
	}
	v, err := strconv.ParseUint(body, 16, 64)
	if err != nil {
		return 0, &DecodeError{Field: "uint", Input: h, Err: err}
	}
	return v, nil
}

// HexToEpochSeconds reads a contract timestamp.
//
// The contract and the dashboard disagree about timestamp units, so only the
// first ten decimal digits are kept and "000" is appended to whatever
// remains. 1609459200123 therefore becomes 1609459200000. Existing pages
// depend on these exact values; keep the truncation as is.
func HexToEpochSeconds(h string) (int64, error) {
	v, err := HexToUint(h)
	if err != nil {
		return 0, renamed("epoch", err)
	}
	digits := strconv.FormatUint(v, 10)
	if len(digits) > epochDigits {
		digits = digits[:epochDigits]
	}
	epoch, err := strconv.ParseInt(digits+"000", 10, 64)
	if err != nil {
		return 0, &DecodeError{Field: "epoch", Input: h, Err: err}
	}
	return epoch, nil
}

// HexToRate decodes a rate stored as text with the configured delimiter in
// place of the decimal point
func (c *Codec) HexToRate(h string) (decimal.Decimal, error) {
	text, err := HexToText(h)
	if err != nil {
		return decimal.Zero, renamed("rate", err)
	}
	if c.RateDelimiter != "" {
		text = strings.Replace(text, c.RateDelimiter, ".", 1)
	}
	rate, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, &DecodeError{Field: "rate", Input: h, Err: err}
	}
	return rate, nil
}

// RateToHex is the inverse of HexToRate at the text level: fixed fractional
// digits, decimal point swapped for the delimiter
func (c *Codec) RateToHex(rate decimal.Decimal) string {
	return strings.Replace(rate.StringFixed(c.DecimalScale), ".", c.RateDelimiter, 1)
}

// RateToHexBytes returns the padded word HexToRate reads back
func (c *Codec) RateToHexBytes(rate decimal.Decimal) string {
	return TextToHex(c.RateToHex(rate))
}

// TextToHex encodes s as a NUL padded word
func TextToHex(s string) string {
	buf := []byte(s)
	if len(buf) < WordSize {
		padded := make([]byte, WordSize)
		copy(padded, buf)
		buf = padded
	}
	return "0x" + hex.EncodeToString(buf)
}

// UintToHex encodes v as a big-endian word
func UintToHex(v uint64) string {
	return fmt.Sprintf("0x%064x", v)
}

// AddressToHex left-pads a 0x address to a full word
func AddressToHex(address string) string {
	return "0x" + strings.Repeat("0", 2*WordSize-addressHexLen) + strings.ToLower(strings.TrimPrefix(address, "0x"))
}

// IsAddress reports whether s is a 0x-prefixed 20 byte hex address
func IsAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") || len(s) != prefixLen+addressHexLen {
		return false
	}
	_, err := hex.DecodeString(s[prefixLen:])
	return err == nil
}
