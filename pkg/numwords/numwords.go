// Package numwords converts currency amounts into their English words
// representation for printing on business documents.
package numwords

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNegativeAmount is returned when a negative value is passed to a
// conversion. Callers clamp totals at zero, so this is defensive.
var ErrNegativeAmount = errors.New("numwords: amount cannot be negative")

var ones = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

var scales = [...]string{
	"", "Thousand", "Million", "Billion", "Trillion", "Quadrillion", "Quintillion",
}

// ToWords converts a non-negative integer to English short-scale words.
func ToWords(n int64) (string, error) {
	if n < 0 {
		return "", ErrNegativeAmount
	}
	if n == 0 {
		return "Zero", nil
	}

	// Split into 3-digit groups, least significant first.
	var groups []int
	for n > 0 {
		groups = append(groups, int(n%1000))
		n /= 1000
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] == 0 {
			continue
		}
		part := threeDigits(groups[i])
		if scales[i] != "" {
			part += " " + scales[i]
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, " "), nil
}

// threeDigits converts 1..999 to words, e.g. 105 -> "One Hundred Five".
func threeDigits(n int) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}
	if n >= 20 {
		if n%10 != 0 {
			parts = append(parts, tens[n/10]+" "+ones[n%10])
		} else {
			parts = append(parts, tens[n/10])
		}
	} else if n > 0 {
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}

// Amount renders a monetary value as a sentence: the major units in words,
// the minor units as a fixed two-digit figure, e.g.
// "Two Thousand Two Hundred Five Dirhams And 75 Fils Only".
func Amount(value float64, major, minor string) (string, error) {
	if value < 0 {
		return "", ErrNegativeAmount
	}

	units := int64(value)
	cents := int64(math.Floor(value*100+0.5)) - units*100
	if cents >= 100 {
		units++
		cents -= 100
	}

	words, err := ToWords(units)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s And %02d %s Only", words, major, cents, minor), nil
}
