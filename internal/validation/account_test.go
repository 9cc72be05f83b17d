package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectError bool
	}{
		{"valid", "CorrectHorse7battery", false},
		{"too short", "Short1aa", true},
		{"too long", strings.Repeat("Aa1", 50), true},
		{"no uppercase", "lowercaseonly12345", true},
		{"no lowercase", "UPPERCASEONLY12345", true},
		{"no digit", "NoDigitsInHerePassword", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		expectError bool
	}{
		{"valid", "alice_writes", false},
		{"valid with hyphen", "alice-writes", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 31), true},
		{"invalid characters", "alice writes!", true},
		{"leading underscore", "_alice", true},
		{"trailing hyphen", "alice-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		expectError bool
	}{
		{"valid", "alice@example.com", false},
		{"valid with plus", "alice+blog@example.com", false},
		{"missing at", "alice.example.com", true},
		{"missing domain", "alice@", true},
		{"missing tld", "alice@example", true},
		{"too long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
