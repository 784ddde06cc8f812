package jsonrepair

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Parse extracts a JSON object from raw generative-text output. Generation
// services do not reliably honor "respond with JSON only", so parsing
// escalates through four layers, each tried only after the previous one
// failed:
//
//  1. the raw text as-is
//  2. with a surrounding ``` / ```json fence stripped
//  3. the first top-level {...} span found by greedy brace matching
//  4. heuristic repair: escape unescaped quotes inside string values and
//     drop trailing commas before a closing brace or bracket
//
// Parse never panics; nil means every layer failed.
func Parse(raw string) map[string]any {
	if obj := tryObject(raw); obj != nil {
		return obj
	}

	stripped := StripFence(raw)
	if obj := tryObject(stripped); obj != nil {
		return obj
	}

	candidate := stripped
	if span, ok := braceSpan(stripped); ok {
		candidate = span
		if obj := tryObject(span); obj != nil {
			return obj
		}
	}

	repaired := removeTrailingCommas(safeEscapeQuotes(candidate))
	return tryObject(repaired)
}

func tryObject(s string) map[string]any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}

// StripFence removes a leading/trailing triple-backtick code fence,
// optionally tagged with "json".
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// braceSpan returns the widest {...} span of the text: first opening brace
// through last closing brace.
func braceSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(s, '}')
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

func removeTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

// safeEscapeQuotes applies the quote-escaping heuristic; if it panics the
// original text is returned so the trailing-comma repair still runs alone.
func safeEscapeQuotes(s string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = s
		}
	}()
	return escapeInnerQuotes(s)
}

// escapeInnerQuotes escapes quote characters that appear mid-value inside a
// JSON string. A quote inside a string is treated as closing only when the
// next non-space character is structural (comma, colon, brace, bracket).
func escapeInnerQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	runes := []rune(s)
	inString := false
	escaped := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if inString && r == '\\' {
			b.WriteRune(r)
			escaped = true
			continue
		}
		if r != '"' {
			b.WriteRune(r)
			continue
		}
		if !inString {
			inString = true
			b.WriteRune(r)
			continue
		}

		j := i + 1
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		if j >= len(runes) || isStructural(runes[j]) {
			inString = false
			b.WriteRune(r)
			continue
		}

		b.WriteString(`\"`)
	}

	return b.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isStructural(r rune) bool {
	return r == ',' || r == ':' || r == '}' || r == ']'
}

// Coercion helpers for walking parsed objects whose value types the
// generation service does not guarantee.

func Str(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func Int(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int(math.Round(val)), true
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}

func Map(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func Slice(v any) []any {
	s, _ := v.([]any)
	return s
}
