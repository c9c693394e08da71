package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

var errBadEscape = errors.New("bad escape sequence")

// IntValue parses an IntLit token text. Values up to 0xFFFFFFFF are accepted
// and wrap into int32, so `0xFFFFFFFF` is -1. A leading 0 means octal.
func IntValue(text string) (int32, error) {
	u, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("integer literal %s out of range", text)
	}
	return int32(uint32(u)), nil // #nosec G115 -- wraparound is intended
}

// Unquote decodes a StringLit or CharLit token text.
func Unquote(text string) (string, error) {
	if len(text) < 2 {
		return "", errBadEscape
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errBadEscape
		}
		switch body[i] {
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\\', '\'', '"':
			sb.WriteByte(body[i])
		case 'x', 'X':
			j := i + 1
			for j < len(body) && j < i+3 && isHex(body[j]) {
				j++
			}
			if j == i+1 {
				return "", errBadEscape
			}
			v, err := strconv.ParseUint(body[i+1:j], 16, 8)
			if err != nil {
				return "", errBadEscape
			}
			b, err := safecast.Conv[byte](v)
			if err != nil {
				return "", errBadEscape
			}
			sb.WriteByte(b)
			i = j - 1
		default:
			return "", errBadEscape
		}
	}
	return sb.String(), nil
}

// CharValue returns the value of a CharLit token text.
func CharValue(text string) (int32, error) {
	s, err := Unquote(text)
	if err != nil {
		return 0, err
	}
	if len(s) != 1 {
		return 0, errBadEscape
	}
	return int32(s[0]), nil
}
