package jsonparse

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a number literal the way an ECMAScript engine prints
// the double it denotes: shortest round-trip digits, no negative zero, plain
// decimal for 1e-7 <= |x| < 1e21 and exponent form otherwise. Literals that
// overflow a double render as "null".
func FormatNumber(n json.Number) (string, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return "", err
		}
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null", nil
	}
	if f == 0 {
		return "0", nil
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// d.ddde±x with the shortest digits that round-trip.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(sci, "e")
	exp, err := strconv.Atoi(expPart)
	if err != nil {
		return "", err
	}
	digits := strings.Replace(mant, ".", "", 1)
	k := len(digits)
	point := exp + 1

	var out string
	switch {
	case k <= point && point <= 21:
		out = digits + strings.Repeat("0", point-k)
	case 0 < point && point <= 21:
		out = digits[:point] + "." + digits[point:]
	case -6 < point && point <= 0:
		out = "0." + strings.Repeat("0", -point) + digits
	default:
		e := point - 1
		expSign := "+"
		if e < 0 {
			expSign = "-"
			e = -e
		}
		m := digits[:1]
		if k > 1 {
			m += "." + digits[1:]
		}
		out = m + "e" + expSign + strconv.Itoa(e)
	}
	return sign + out, nil
}

// Normalize returns a copy of a parsed value with every number rewritten by
// FormatNumber.
func Normalize(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		s, err := FormatNumber(t)
		if err != nil {
			return nil, err
		}
		if s == "null" {
			return nil, nil
		}
		return json.Number(s), nil
	case *Object:
		out := NewObject()
		for _, key := range t.keys {
			item, err := Normalize(t.values[key])
			if err != nil {
				return nil, err
			}
			out.Set(key, item)
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			norm, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	default:
		return v, nil
	}
}
