// Package credentials derives usernames and issues random secrets for
// newly provisioned accounts. Everything here is pure or draws only on
// crypto/rand; uniqueness of derived usernames is the caller's problem.
package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Password policy enforced by IsSecure and honoured by GeneratePassword.
const (
	passwordLength    = 16
	minPasswordLength = 12
)

const (
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars = "0123456789"
)

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DeriveUsername builds a candidate username from a person's name and a
// numeric discriminator (their document ID, or a random fallback on
// collision). The same inputs always produce the same candidate; this
// function alone guarantees nothing about uniqueness.
func DeriveUsername(firstName, lastName, discriminator string) string {
	first := slug(firstName)
	last := slug(firstWord(lastName))
	return first + last + slug(discriminator)
}

// RandomDigits returns the decimal representation of a uniformly random
// integer in [min, max], used as a fallback discriminator when the
// document-derived candidate collides.
func RandomDigits(min, max int64) (string, error) {
	if min > max {
		min, max = max, min
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", fmt.Errorf("credentials: random discriminator: %w", err)
	}
	return strconv.FormatInt(min+n.Int64(), 10), nil
}

// GeneratePassword produces a cryptographically random secret that
// satisfies IsSecure by construction: one character from each required
// class, the remainder drawn from the full alphabet, then shuffled.
func GeneratePassword() (string, error) {
	alphabet := lowerChars + upperChars + digitChars

	secret := make([]byte, 0, passwordLength)
	for _, class := range []string{lowerChars, upperChars, digitChars} {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		secret = append(secret, c)
	}
	for len(secret) < passwordLength {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		secret = append(secret, c)
	}

	for i := len(secret) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("credentials: shuffle: %w", err)
		}
		secret[i], secret[j.Int64()] = secret[j.Int64()], secret[i]
	}
	return string(secret), nil
}

// IsSecure validates a secret against the fixed policy: minimum length
// plus at least one lower-case letter, one upper-case letter and one
// digit. GeneratePassword output must always pass; a failure there is
// an internal fault, not a user input error.
func IsSecure(secret string) bool {
	if len(secret) < minPasswordLength {
		return false
	}
	var lower, upper, digit bool
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("credentials: random char: %w", err)
	}
	return set[n.Int64()], nil
}

// slug lower-cases, folds diacritics and strips everything that is not
// a letter or digit.
func slug(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
