// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			require.NoError(t, err)
			assert.Len(t, id, tt.wantLen)
			for _, c := range id {
				assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'), "invalid hex char %c", c)
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	assert.NotEqual(t, id1, id2, "GenerateID() produced duplicate IDs (extremely unlikely)")
}

func TestGenerateDownloadToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateDownloadToken()
		require.NoError(t, err)
		require.NoError(t, ValidateDownloadToken(token), "generated token must validate: %q", token)
		require.False(t, seen[token], "duplicate token %q", token)
		seen[token] = true
	}
}

func TestValidateDownloadToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", "0123456789abcdef0123456789abcdef", false},
		{"empty", "", true},
		{"too short", "0123456789abcdef", true},
		{"too long", "0123456789abcdef0123456789abcdef00", true},
		{"uppercase hex", strings.ToUpper("0123456789abcdef0123456789abcdef"), true},
		{"non hex", "0123456789abcdef0123456789abcdeg", true},
		{"path traversal", "../../../../etc/passwd/aaaaaaaaa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDownloadToken(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
