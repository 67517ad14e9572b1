// Package amount converts between raw rupiah amounts and the grouped-digit
// display strings used by every input surface. IDR has no minor units, so
// amounts are whole-unit integers throughout.
package amount

import (
	"strconv"
	"strings"
)

// GroupSeparator is the thousands separator used in display strings.
const GroupSeparator = '.'

// Digits returns only the ASCII digit characters of s, in order.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Format strips all non-digit characters from raw and inserts a grouping
// separator every three digits from the right, e.g. "1234567" -> "1.234.567".
// An input with no digits formats to the empty string. Format is idempotent:
// formatting an already formatted string yields the same string.
func Format(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(GroupSeparator)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Parse strips grouping separators (and any other non-digit character) from
// display and parses the remainder as a non-negative integer. Empty or
// unparseable input yields 0. Parse never fails.
func Parse(display string) int64 {
	digits := Digits(display)
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// SeparatorOnlyEdit reports whether a change from oldDisplay to newDisplay
// touched only separator characters. Entry surfaces must treat such an edit
// as a no-op so that reformatting does not move the caret mid-keystroke.
func SeparatorOnlyEdit(oldDisplay, newDisplay string) bool {
	return Digits(oldDisplay) == Digits(newDisplay)
}
