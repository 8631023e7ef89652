package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{13}-[0-9a-z]{9}$`)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, pattern, n)
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pizza123")
	assert.NoError(t, err)
	assert.NotEqual(t, "pizza123", hash)
	assert.True(t, CheckPasswordHash("pizza123", hash))
	assert.False(t, CheckPasswordHash("pizza124", hash))
}
