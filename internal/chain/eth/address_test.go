package eth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{name: "valid checksummed", address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", want: true},
		{name: "valid checksummed 2", address: "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", want: true},
		{name: "all lowercase", address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", want: true},
		{name: "all uppercase hex", address: "0x" + strings.ToUpper("5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"), want: true},
		{name: "bad checksum", address: "0x5Aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed", want: false},
		{name: "missing prefix", address: "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", want: false},
		{name: "too short", address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe", want: false},
		{name: "too long", address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed00", want: false},
		{name: "non-hex chars", address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAzz", want: false},
		{name: "empty", address: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ValidateAddress(tc.address))
		})
	}
}
