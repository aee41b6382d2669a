package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "919876543210"},
		{"+91 98765 43210", "919876543210"},
		{"919876543210", "919876543210"},
		{"98765-43210", "919876543210"},
		{"(987) 654 3210", "919876543210"},
		{"+919876543210", "919876543210"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestNormalizePhoneShortNumberStillPrefixed(t *testing.T) {
	// Normalization never rejects input, it only canonicalizes.
	assert.Equal(t, "91123", NormalizePhone("123"))
}

func TestValidateNationalPhone(t *testing.T) {
	assert.True(t, ValidateNationalPhone("9876543210"))
	assert.True(t, ValidateNationalPhone("6000000000"))

	assert.False(t, ValidateNationalPhone("5876543210"), "first digit below 6")
	assert.False(t, ValidateNationalPhone("987654321"), "9 digits")
	assert.False(t, ValidateNationalPhone("98765432101"), "11 digits")
	assert.False(t, ValidateNationalPhone("98765a3210"), "letter")
	assert.False(t, ValidateNationalPhone(""))
	assert.False(t, ValidateNationalPhone("919876543210"), "canonical form is not national")
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("owner@store.in"))
	assert.True(t, ValidateEmail("a.b+c@sub.domain.com"))

	assert.False(t, ValidateEmail("owner@store"))
	assert.False(t, ValidateEmail("owner store@x.in"))
	assert.False(t, ValidateEmail("@store.in"))
	assert.False(t, ValidateEmail(""))
}
