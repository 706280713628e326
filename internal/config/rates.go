package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RatesFile is the YAML layout of a rate seed file:
//
//	rates:
//	  USD: 4.0
//	  EUR: 4.3
type RatesFile struct {
	Rates map[string]float64 `yaml:"rates" validate:"required,min=1,dive,keys,len=3,uppercase,endkeys,gt=0"`
}

// LoadRatesFile reads and validates a rate seed file.
func LoadRatesFile(filename string) (map[string]decimal.Decimal, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open rates file: %w", err)
	}
	defer f.Close()

	return decodeRates(f, filename)
}

func decodeRates(r io.Reader, filename string) (map[string]decimal.Decimal, error) {
	file := &RatesFile{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Disallow unknown fields
	if err := decoder.Decode(file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("rates file '%s' is empty", filename)
		}
		return nil, fmt.Errorf("can't decode YAML from rates file '%s': %w", filename, err)
	}

	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid rates file '%s': %w", filename, err)
	}

	rates := make(map[string]decimal.Decimal, len(file.Rates))
	for currency, rate := range file.Rates {
		rates[strings.ToUpper(currency)] = decimal.NewFromFloat(rate)
	}
	return rates, nil
}
