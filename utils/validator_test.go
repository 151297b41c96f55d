package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("reviewer@journal.org"))
	assert.True(t, ValidateEmail("first.last+tag@sub.journal.org"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList("a, b"))
	assert.Equal(t, []string{"single"}, SplitList("single"))
	assert.Equal(t, []string{"x", "y"}, SplitList(" x ,, y , "))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("  "))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "clean", SanitizeInput("  clean \x00"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)
	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
