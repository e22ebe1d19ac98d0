package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"local 07 format", "0712345678", "254712345678", false},
		{"local 01 format", "0112345678", "254112345678", false},
		{"bare 9 digit format", "712345678", "254712345678", false},
		{"already canonical", "254712345678", "254712345678", false},
		{"with separators", "0712-345-678", "254712345678", false},
		{"with country prefix symbol", "+254712345678", "254712345678", false},
		{"too short", "07123", "", true},
		{"too long", "2547123456789", "", true},
		{"not a kenyan number", "15551234567", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePhoneNumber(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhoneSuffix(t *testing.T) {
	assert.Equal(t, "712345678", PhoneSuffix("254712345678"))
	assert.Equal(t, "712345678", PhoneSuffix("0712345678"))
	assert.Equal(t, "345678", PhoneSuffix("345678"))
	assert.Equal(t, "", PhoneSuffix("not a phone"))
}
