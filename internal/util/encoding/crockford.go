package encoding

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const crockfordBase32Alphabet = "0123456789abcdefghjkmnpqrstvwxyz" // Crockford's Base32 alphabet, lower case

// EncodeCrockfordB32LC encodes a byte slice using Crockford's Base32 alphabet in lower case.
// The alphabet leaves out I, L, O and U, so encoded values survive being read aloud or retyped.
//
//nolint:gosec
func EncodeCrockfordB32LC(input []byte) string {
	var (
		result strings.Builder
		bits   = 0
		accum  = 0
	)

	result.Grow((len(input)*8 + 4) / 5)

	for _, b := range input {
		accum = accum<<8 | int(b)
		bits += 8

		for bits >= 5 {
			bits -= 5
			result.WriteByte(crockfordBase32Alphabet[(accum>>bits)&0x1F])
		}
	}

	if bits > 0 {
		result.WriteByte(crockfordBase32Alphabet[(accum<<uint(5-bits))&0x1F])
	}

	return result.String()
}

// NormalizeCrockfordB32LC undoes common transcription variations:
// whitespace and hyphens are dropped, letters are lower-cased, 'O' becomes '0',
// and 'I' and 'L' become '1'.
func NormalizeCrockfordB32LC(input string) string {
	var result strings.Builder

	for _, char := range strings.ToLower(input) {
		switch char {
		case ' ', '\t', '\n', '\r', '-':
			continue
		case 'o':
			result.WriteRune('0')
		case 'i', 'l':
			result.WriteRune('1')
		default:
			result.WriteRune(char)
		}
	}

	return result.String()
}

// IsCrockfordB32LC reports whether s is non-empty and only uses the lower-case alphabet.
func IsCrockfordB32LC(s string) bool {
	if s == "" {
		return false
	}

	for _, char := range s {
		if !strings.ContainsRune(crockfordBase32Alphabet, char) {
			return false
		}
	}

	return true
}

// RandomCrockfordB32LC reads n random bytes from crypto/rand and encodes them.
func RandomCrockfordB32LC(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return EncodeCrockfordB32LC(buf), nil
}
