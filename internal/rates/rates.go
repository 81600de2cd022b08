package rates

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// Book reads exchange rates from a JSON file keyed "<from>to<to>", e.g.
// {"USDtoJPY": 110.25}. The file is read on every lookup so edits apply
// without a restart.
type Book struct {
	Path string
}

func NewBook(path string) *Book {
	return &Book{Path: path}
}

// Key builds the lookup key for a currency pair
func Key(fromCurrency, toCurrency string) string {
	return fromCurrency + "to" + toCurrency
}

// Lookup returns the rate for the pair; ok is false when the file has no such key
func (b *Book) Lookup(fromCurrency, toCurrency string) (rate decimal.Decimal, ok bool, err error) {
	all, err := b.Load()
	if err != nil {
		return decimal.Zero, false, err
	}
	rate, ok = all[Key(fromCurrency, toCurrency)]
	return rate, ok, nil
}

// Load reads the whole file
func (b *Book) Load() (map[string]decimal.Decimal, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate file: %w", err)
	}
	var all map[string]decimal.Decimal
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse rate file %s: %w", b.Path, err)
	}
	return all, nil
}
