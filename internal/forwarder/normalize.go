package forwarder

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const (
	// MaxFallbackChars bounds the stringified payload used when no text field is found.
	MaxFallbackChars = 2000
	// TruncationSuffix is appended to a fallback that exceeded MaxFallbackChars.
	TruncationSuffix = "... (truncated)"
)

// textPaths are tried in order; the upstream has shipped each of these
// shapes across API versions.
var textPaths = []string{
	"candidates.0.content.parts.0.text",
	"output.0.content.parts.0.text",
	"candidates.0.output.0.content.parts.0.text",
}

// Normalize extracts the generated text from a parsed upstream body.
// body must be valid JSON. The result is never nil-like: when no known
// shape matches, the compact JSON of the whole payload is returned,
// truncated to MaxFallbackChars characters.
func Normalize(body []byte) string {
	root := gjson.ParseBytes(body)
	for _, path := range textPaths {
		if v := root.Get(path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	if root.Type == gjson.String {
		return root.Str
	}
	return truncate(stringify(root))
}

// stringify re-encodes r as compact JSON the way JSON.stringify prints a
// parsed value: later duplicate keys win, integer-like keys come first,
// numbers use their shortest form. An empty string means r does not exist.
func stringify(r gjson.Result) string {
	if !r.Exists() {
		return ""
	}
	return string(appendValue(nil, r))
}

func appendValue(dst []byte, r gjson.Result) []byte {
	switch r.Type {
	case gjson.Null:
		return append(dst, "null"...)
	case gjson.False:
		return append(dst, "false"...)
	case gjson.True:
		return append(dst, "true"...)
	case gjson.Number:
		return appendNumber(dst, r.Num)
	case gjson.String:
		return appendString(dst, r.Str)
	}
	if r.IsArray() {
		dst = append(dst, '[')
		first := true
		r.ForEach(func(_, v gjson.Result) bool {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = appendValue(dst, v)
			return true
		})
		return append(dst, ']')
	}
	keys, vals := objectMembers(r)
	dst = append(dst, '{')
	for i, k := range keys {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendString(dst, k)
		dst = append(dst, ':')
		dst = appendValue(dst, vals[k])
	}
	return append(dst, '}')
}

// objectMembers returns the keys of an object in property order: array
// index keys ascending, then the rest by first appearance. A repeated key
// keeps its first position and its last value.
func objectMembers(r gjson.Result) ([]string, map[string]gjson.Result) {
	var index, named []string
	vals := make(map[string]gjson.Result)
	r.ForEach(func(k, v gjson.Result) bool {
		if _, seen := vals[k.Str]; !seen {
			if _, ok := arrayIndex(k.Str); ok {
				index = append(index, k.Str)
			} else {
				named = append(named, k.Str)
			}
		}
		vals[k.Str] = v
		return true
	})
	sort.Slice(index, func(i, j int) bool {
		a, _ := arrayIndex(index[i])
		b, _ := arrayIndex(index[j])
		return a < b
	})
	return append(index, named...), vals
}

// arrayIndex reports whether k is a canonical integer below 2^32-1.
func arrayIndex(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(k, 10, 64)
	if err != nil || n >= math.MaxUint32 {
		return 0, false
	}
	return n, true
}

func appendNumber(dst []byte, f float64) []byte {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return append(dst, "null"...)
	}
	if f == 0 {
		return append(dst, '0')
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		return strconv.AppendFloat(dst, f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Go pads the exponent to two digits; e-07 becomes e-7.
	if i := strings.IndexByte(s, 'e'); i >= 0 && len(s) > i+3 && s[i+2] == '0' {
		s = s[:i+2] + s[i+3:]
	}
	return append(dst, s...)
}

func appendString(dst []byte, s string) []byte {
	const hex = "0123456789abcdef"
	dst = append(dst, '"')
	for _, r := range s {
		switch {
		case r == '"':
			dst = append(dst, '\\', '"')
		case r == '\\':
			dst = append(dst, '\\', '\\')
		case r == '\n':
			dst = append(dst, '\\', 'n')
		case r == '\r':
			dst = append(dst, '\\', 'r')
		case r == '\t':
			dst = append(dst, '\\', 't')
		case r == '\b':
			dst = append(dst, '\\', 'b')
		case r == '\f':
			dst = append(dst, '\\', 'f')
		case r < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hex[r>>4], hex[r&0xF])
		default:
			dst = utf8.AppendRune(dst, r)
		}
	}
	return append(dst, '"')
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxFallbackChars {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxFallbackChars {
			return s[:i] + TruncationSuffix
		}
		n++
	}
	return s
}
