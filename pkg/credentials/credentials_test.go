package credentials

import (
	"strconv"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		name          string
		firstName     string
		lastName      string
		discriminator string
		expected      string
	}{
		{
			name:          "plain ascii",
			firstName:     "John",
			lastName:      "Doe",
			discriminator: "1234",
			expected:      "johndoe1234",
		},
		{
			name:          "diacritics folded",
			firstName:     "José",
			lastName:      "Muñoz",
			discriminator: "77",
			expected:      "josemunoz77",
		},
		{
			name:          "only first word of compound last name",
			firstName:     "Ana",
			lastName:      "García López",
			discriminator: "9",
			expected:      "anagarcia9",
		},
		{
			name:          "punctuation and spaces stripped",
			firstName:     " Mary Jane ",
			lastName:      "O'Neil",
			discriminator: "42",
			expected:      "maryjaneoneil42",
		},
		{
			name:          "empty last name",
			firstName:     "Cher",
			lastName:      "",
			discriminator: "5",
			expected:      "cher5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveUsername(tt.firstName, tt.lastName, tt.discriminator))
		})
	}
}

func TestDeriveUsernameDeterministic(t *testing.T) {
	a := DeriveUsername("Élodie", "Dupont-Smith", "314")
	b := DeriveUsername("Élodie", "Dupont-Smith", "314")
	assert.Equal(t, a, b)
}

func TestRandomDigitsRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		s, err := RandomDigits(4, 100)
		require.NoError(t, err)

		n, err := strconv.ParseInt(s, 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(4))
		assert.LessOrEqual(t, n, int64(100))
	}
}

func TestRandomDigitsSwappedBounds(t *testing.T) {
	s, err := RandomDigits(10, 10)
	require.NoError(t, err)
	assert.Equal(t, "10", s)
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		secret, err := GeneratePassword()
		require.NoError(t, err)
		assert.Len(t, secret, passwordLength)
		assert.True(t, IsSecure(secret), "generated secret %q must satisfy the policy", secret)

		for _, r := range secret {
			assert.True(t, unicode.IsLetter(r) || unicode.IsDigit(r))
		}
		seen[secret] = true
	}
	assert.Greater(t, len(seen), 1, "secrets should not repeat across calls")
}

func TestIsSecure(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"all classes present", "Abcdefgh1234", true},
		{"too short", "Abc1", false},
		{"missing digit", "Abcdefghijkl", false},
		{"missing upper", "abcdefgh1234", false},
		{"missing lower", "ABCDEFGH1234", false},
		{"empty", "", false},
		{"exactly minimum length", strings.Repeat("aB1", 4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSecure(tt.secret))
		})
	}
}
