package etl

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/poflow/backend/internal/infrastructure/tabular"
)

// Nil-safe bridges from raw staging text to the typed schema. All of them
// are total: garbage input coerces to nil, never to an error.

func strField(v *string, max int) *string {
	if v == nil {
		return nil
	}
	return tabular.TruncateString(*v, max)
}

func textField(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func decField(v *string) *decimal.Decimal {
	if v == nil {
		return nil
	}
	return tabular.ParseDecimal(*v)
}

func intField(v *string) *int {
	if v == nil {
		return nil
	}
	return tabular.ParseInt(*v)
}

func dateField(v *string) *time.Time {
	if v == nil {
		return nil
	}
	return tabular.ParseDate(*v)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
