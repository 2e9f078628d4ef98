package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigitGenerator_Generate(t *testing.T) {
	gen := NewGenerator()

	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		for _, c := range code {
			assert.GreaterOrEqual(t, c, '0')
			assert.LessOrEqual(t, c, '9')
		}
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name      string
		challenge string
		submitted string
		want      bool
	}{
		{"exact match", "123456", "123456", true},
		{"mismatch", "123456", "654321", false},
		{"empty challenge never verifies", "", "", false},
		{"length mismatch", "123456", "12345", false},
		{"empty submission", "123456", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.challenge, tt.submitted))
		})
	}
}
