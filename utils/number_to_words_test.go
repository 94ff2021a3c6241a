package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := map[int64]string{
		0:        "",
		7:        "Seven",
		40:       "Forty",
		99:       "Ninety Nine",
		300:      "Three Hundred",
		1250:     "One Thousand Two Hundred Fifty",
		150000:   "One Lakh Fifty Thousand",
		2500000:  "Twenty Five Lakh",
		25000000: "Two Crore Fifty Lakh",
	}
	for n, want := range tests {
		assert.Equal(t, want, NumberToWords(n), "%d", n)
	}
}

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1250.50", "One Thousand Two Hundred Fifty Rupees and Fifty Paise Only"},
		{"8000", "Eight Thousand Rupees Only"},
		{"0.05", "Five Paise Only"},
		{"0", "Zero Rupees Only"},
		{"-100", "Minus One Hundred Rupees Only"},
		{"10.999", "Eleven Rupees Only"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AmountToWords(decimal.RequireFromString(tt.in)), tt.in)
	}
}
