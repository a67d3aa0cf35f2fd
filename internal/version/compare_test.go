package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCacheCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		stored        string
		expectError   bool
		errorContains string
	}{
		{
			name:    "exact match",
			current: "1.2.0",
			stored:  "1.2.0",
		},
		{
			name:    "patch differs",
			current: "1.2.0",
			stored:  "1.2.7",
		},
		{
			name:    "stored minor older",
			current: "1.2.0",
			stored:  "1.1.4",
		},
		{
			name:          "stored minor newer",
			current:       "1.2.0",
			stored:        "1.3.0",
			expectError:   true,
			errorContains: "newer build",
		},
		{
			name:          "major differs",
			current:       "2.0.0",
			stored:        "1.2.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:    "development build",
			current: "main",
			stored:  "9.9.9",
		},
		{
			name:    "v prefix and whitespace",
			current: "v1.0.0",
			stored:  " 1.0.0\n",
		},
		{
			name:          "invalid current",
			current:       "not-a-version",
			stored:        "1.0.0",
			expectError:   true,
			errorContains: "invalid cache format version",
		},
		{
			name:          "empty stored",
			current:       "1.0.0",
			stored:        "",
			expectError:   true,
			errorContains: "invalid stored cache format version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCacheCompatibility(tt.current, tt.stored)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}

func TestCacheFormatIsValid(t *testing.T) {
	require.NoError(t, CheckCacheCompatibility(CacheFormat, CacheFormat))
}
