package mailer

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Delimiter joins multi-valued address fields.
const Delimiter = ";"

// Normalize flattens one-or-many string inputs into an ordered list without duplicates.
// Accepted elements are string, []string and []any holding the same; anything else
// fails with ErrInvalidArgument. Blank values are dropped.
func Normalize(values ...any) ([]string, error) {
	flat := make([]string, 0, len(values))
	if err := flatten(&flat, values); err != nil {
		return nil, err
	}
	return normalizeStrings(flat), nil
}

func flatten(dst *[]string, values []any) error {
	for _, v := range values {
		switch val := v.(type) {
		case string:
			*dst = append(*dst, val)
		case []string:
			*dst = append(*dst, val...)
		case []any:
			if err := flatten(dst, val); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: expected string or list of strings, got %T", ErrInvalidArgument, v)
		}
	}
	return nil
}

func normalizeStrings(values []string) []string {
	trimmed := lo.Map(values, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(trimmed))
}

// joinAddresses returns the delimiter-joined form, or "" when nothing remains.
func joinAddresses(values []string) string {
	return strings.Join(normalizeStrings(values), Delimiter)
}

// SplitAddresses splits a delimiter-joined address field back into its parts.
func SplitAddresses(joined string) []string {
	if joined == "" {
		return nil
	}
	return normalizeStrings(strings.Split(joined, Delimiter))
}
