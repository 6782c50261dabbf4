package core

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// ParseQuery splits a filter query into upper-cased, trimmed, non-empty tokens.
func ParseQuery(query string) []string {
	var tokens []string
	for _, part := range strings.Split(query, ",") {
		tok := strings.ToUpper(strings.TrimSpace(part))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// isDigits reports whether s is non-empty and made only of digit characters.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Mask returns one keep/drop flag per value.
//
// A value is kept when any token matches it. With exact set, an all-digit
// token must equal the upper-cased value; every other token matches as a
// plain substring of the upper-cased value. Null values never match. A query
// with no tokens keeps everything.
func Mask(values []table.Cell, query string, exact bool) []bool {
	mask := make([]bool, len(values))
	tokens := ParseQuery(query)
	if len(tokens) == 0 {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}

	exactTok := make([]bool, len(tokens))
	for i, tok := range tokens {
		exactTok[i] = exact && isDigits(tok)
	}

	for i, v := range values {
		if !v.Valid {
			continue
		}
		s := strings.ToUpper(v.String)
		for j, tok := range tokens {
			if exactTok[j] {
				if s == tok {
					mask[i] = true
					break
				}
			} else if strings.Contains(s, tok) {
				mask[i] = true
				break
			}
		}
	}
	return mask
}

// Filter returns the rows of t whose column value passes Mask.
func Filter(t *table.Table, column, query string, exact bool) (*table.Table, error) {
	values, ok := t.ColumnValues(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return t.Select(Mask(values, query, exact))
}
