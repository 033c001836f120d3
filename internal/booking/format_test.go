package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "full number", raw: "4242424242424242", want: "4242 4242 4242 4242"},
		{name: "already formatted", raw: "4242 4242 4242 4242", want: "4242 4242 4242 4242"},
		{name: "partial group", raw: "424242", want: "4242 42"},
		{name: "extra digits dropped", raw: "42424242424242429999", want: "4242 4242 4242 4242"},
		{name: "non digits stripped", raw: "4242-4242-4242-4242", want: "4242 4242 4242 4242"},
		{name: "fewer than four digits unchanged", raw: "42a", want: "42a"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCardNumber(tt.raw))
		})
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "1225", want: "12/25"},
		{raw: "12/25", want: "12/25"},
		{raw: "1", want: "1"},
		{raw: "12", want: "12/"},
		{raw: "122", want: "12/2"},
		{raw: "122599", want: "12/25"},
		{raw: "ab", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatExpiry(tt.raw))
		})
	}
}

func TestFormatCVC(t *testing.T) {
	assert.Equal(t, "123", FormatCVC("1a2b3"))
	assert.Equal(t, "1234", FormatCVC("123456"))
	assert.Equal(t, "", FormatCVC("abc"))
}
