package request

import (
	"fmt"
	"strings"

	"github.com/damiad/net-worth-tracker/internal/model"
)

// ParseCurrencyParam normalizes the optional ?currency= query parameter.
// An empty value selects the base currency.
func ParseCurrencyParam(param string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(param))
	if code == "" {
		return model.BaseCurrency, nil
	}
	if len(code) != 3 {
		return "", fmt.Errorf("invalid currency code: %s", param)
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return "", fmt.Errorf("invalid currency code: %s", param)
		}
	}
	return code, nil
}
