package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWallet(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"lowercase passes through", testWallet, testWallet, false},
		{"uppercase is lowered", "0xA1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6E7F8A9B0", testWallet, false},
		{"surrounding whitespace trimmed", "  " + testWallet + "\n", testWallet, false},
		{"missing prefix", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0", "", true},
		{"too short", "0xa1b2c3", "", true},
		{"too long", testWallet + "ff", "", true},
		{"non-hex characters", "0xz1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWallet(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidWallet)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
