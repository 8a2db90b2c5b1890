package parser

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StringLiteral is the decoded value of a Python string or bytes literal
type StringLiteral struct {
	Value string
	Bytes bool
}

// DecodeString decodes the source text of a single string literal.
// Formatted strings and escapes that need the Unicode name table
// (\N{...}) are reported as not decodable.
func DecodeString(raw string) (StringLiteral, bool) {
	quoteAt := strings.IndexAny(raw, `'"`)
	if quoteAt < 0 {
		return StringLiteral{}, false
	}

	prefix := strings.ToLower(raw[:quoteAt])
	if strings.Contains(prefix, "f") {
		return StringLiteral{}, false
	}
	isRaw := strings.Contains(prefix, "r")
	isBytes := strings.Contains(prefix, "b")

	body := raw[quoteAt:]
	delimiter := body[:1]
	if len(body) >= 6 && (strings.HasPrefix(body, `'''`) || strings.HasPrefix(body, `"""`)) {
		delimiter = body[:3]
	}
	if len(body) < 2*len(delimiter) || !strings.HasSuffix(body, delimiter) {
		return StringLiteral{}, false
	}
	body = body[len(delimiter) : len(body)-len(delimiter)]

	if isRaw {
		return StringLiteral{Value: body, Bytes: isBytes}, true
	}

	value, ok := unescape(body, isBytes)
	if !ok {
		return StringLiteral{}, false
	}
	return StringLiteral{Value: value, Bytes: isBytes}, true
}

// unescape processes backslash escapes; for bytes every code unit is
// written as a single byte
func unescape(body string, isBytes bool) (string, bool) {
	var b strings.Builder
	put := func(code rune) {
		if isBytes {
			b.WriteByte(byte(code))
			return
		}
		b.WriteRune(code)
	}

	for i := 0; i < len(body); {
		if body[i] != '\\' || i+1 >= len(body) {
			b.WriteByte(body[i])
			i++
			continue
		}

		c := body[i+1]
		i += 2
		switch c {
		case '\n':
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			b.WriteByte(c)
		case 'a':
			put(7)
		case 'b':
			put(8)
		case 'f':
			put(12)
		case 'n':
			put('\n')
		case 'r':
			put('\r')
		case 't':
			put('\t')
		case 'v':
			put(11)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i - 1
			for end < len(body) && end < i+2 && body[end] >= '0' && body[end] <= '7' {
				end++
			}
			code, _ := strconv.ParseUint(body[i-1:end], 8, 32)
			put(rune(code))
			i = end
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
			if c != 'x' && isBytes {
				b.WriteByte('\\')
				b.WriteByte(c)
				continue
			}
			if i+width > len(body) {
				return "", false
			}
			code, err := strconv.ParseUint(body[i:i+width], 16, 32)
			if err != nil || code > unicode.MaxRune {
				return "", false
			}
			put(rune(code))
			i += width
		case 'N':
			if isBytes {
				b.WriteString(`\N`)
				continue
			}
			return "", false
		default:
			b.WriteByte('\\')
			b.WriteByte(c)
		}
	}
	return b.String(), true
}

// String returns the literal in the quoting Python's repr uses
func (s StringLiteral) String() string {
	quote := byte('\'')
	if strings.Contains(s.Value, "'") && !strings.Contains(s.Value, `"`) {
		quote = '"'
	}

	var b strings.Builder
	if s.Bytes {
		b.WriteByte('b')
	}
	b.WriteByte(quote)

	if s.Bytes {
		for i := 0; i < len(s.Value); i++ {
			writeEscaped(&b, rune(s.Value[i]), quote, true)
		}
	} else {
		for i := 0; i < len(s.Value); {
			r, size := utf8.DecodeRuneInString(s.Value[i:])
			writeEscaped(&b, r, quote, false)
			i += size
		}
	}

	b.WriteByte(quote)
	return b.String()
}

func writeEscaped(b *strings.Builder, r rune, quote byte, isBytes bool) {
	switch {
	case r == '\\':
		b.WriteString(`\\`)
	case r == rune(quote):
		b.WriteByte('\\')
		b.WriteByte(quote)
	case r == '\n':
		b.WriteString(`\n`)
	case r == '\r':
		b.WriteString(`\r`)
	case r == '\t':
		b.WriteString(`\t`)
	case r >= 0x20 && r < 0x7f:
		b.WriteByte(byte(r))
	case isBytes || r < 0x100 && !unicode.IsPrint(r):
		fmt.Fprintf(b, `\x%02x`, r)
	case unicode.IsPrint(r):
		b.WriteRune(r)
	case r <= 0xffff:
		fmt.Fprintf(b, `\u%04x`, r)
	default:
		fmt.Fprintf(b, `\U%08x`, r)
	}
}

// CanonicalNumber returns the decimal spelling of an integer, float or
// imaginary literal: hex, octal and binary prefixes, digit separators and
// exponent forms are all resolved
func CanonicalNumber(raw string) (string, bool) {
	text := strings.ReplaceAll(raw, "_", "")
	imaginary := strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J")
	if imaginary {
		text = text[:len(text)-1]
	}
	if text == "" {
		return "", false
	}

	if !imaginary && isIntegerLiteral(text) {
		value, ok := parseInteger(text)
		if !ok {
			return "", false
		}
		return value.String(), true
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !math.IsInf(f, 0) {
		return "", false
	}
	repr := floatRepr(f)
	if imaginary {
		return strings.TrimSuffix(repr, ".0") + "j", true
	}
	return repr, true
}

func isIntegerLiteral(text string) bool {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		return true
	}
	return !strings.ContainsAny(lower, ".e")
}

func parseInteger(text string) (*big.Int, bool) {
	lower := strings.ToLower(text)
	base := 10
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, lower = 16, lower[2:]
	case strings.HasPrefix(lower, "0o"):
		base, lower = 8, lower[2:]
	case strings.HasPrefix(lower, "0b"):
		base, lower = 2, lower[2:]
	}
	return new(big.Int).SetString(lower, base)
}

// floatRepr formats a float the way Python's repr does: shortest round-trip
// digits, positional between 1e-4 and 1e16, always with a fractional part
func floatRepr(f float64) string {
	if math.IsInf(f, 0) {
		return "1e309"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expText, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expText)

	if exp < -4 || exp >= 16 {
		sign := "+"
		if exp < 0 {
			sign, exp = "-", -exp
		}
		return fmt.Sprintf("%se%s%02d", mantissa, sign, exp)
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}
