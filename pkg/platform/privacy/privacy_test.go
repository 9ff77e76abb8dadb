package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.168.1.47", "192.168.1.0"},
		{"10.0.0.255", "10.0.0.0"},
		{"::ffff:203.0.113.9", "203.0.113.0"},
		{"2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"", "unknown"},
		{"unknown", "unknown"},
		{"not-an-ip", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, AnonymizeIP(tt.in))
		})
	}
}

func TestMaskCPF(t *testing.T) {
	assert.Equal(t, "***.444.777-**", MaskCPF("111.444.777-35"))
	assert.Equal(t, "***.444.777-**", MaskCPF("11144477735"))
	assert.Equal(t, "***", MaskCPF("1114447773"))
	assert.Equal(t, "***", MaskCPF(""))
}

func TestHashCPF(t *testing.T) {
	a := HashCPF("111.444.777-35")
	assert.Len(t, a, 16)
	assert.Equal(t, a, HashCPF("11144477735"), "punctuation does not change the key")
	assert.NotEqual(t, a, HashCPF("52998224725"))
}
