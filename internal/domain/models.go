package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID is the canonical identifier representation: always a string. JSON
// numbers and JSON strings decode to the same value, so 3 and "3" compare equal.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*id = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*id = ID(canonicalNumber(string(b)))
	default:
		// Objects, arrays and booleans are kept as their compact JSON text.
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*id = ID(buf.String())
	}
	return nil
}

// canonicalNumber renders integral values without a fraction or exponent
// (3.0 and 3e0 become "3"). Integer literals keep their digits at any size.
func canonicalNumber(s string) string {
	if isIntegerLiteral(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Float64 reports the identifier as a finite number when it parses as one.
func (id ID) Float64() (float64, bool) {
	f, err := strconv.ParseFloat(string(id), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int64 reports the identifier as an integer when it is an integer literal.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id ID) String() string { return string(id) }

type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Category ID     `json:"category"`
}
