package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry identifies a journal entry by month and sequence, e.g. "2022-03-001".
type Entry struct {
	Year  int
	Month int
	Seq   int
}

func (e Entry) String() string {
	return fmt.Sprintf("%04d-%02d-%03d", e.Year, e.Month, e.Seq)
}

// Leg returns the leg ID for the n-th posting: 0 -> "2022-03-001a", 1 -> "...b".
func (e Entry) Leg(n int) string {
	return e.String() + string(rune('a'+n))
}

// Parse parses "2022-03-001" or a leg ID such as "2022-03-001b".
func Parse(s string) (Entry, error) {
	parts := strings.SplitN(Group(s), "-", 3)
	if len(parts) != 3 {
		return Entry{}, fmt.Errorf("invalid entry ID format: %q", s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Entry{}, fmt.Errorf("invalid entry ID %q: %w", s, err)
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[1] > 12 {
		return Entry{}, fmt.Errorf("invalid month in entry ID %q", s)
	}
	return Entry{Year: nums[0], Month: nums[1], Seq: nums[2]}, nil
}

// Group strips the leg suffix from a leg ID.
func Group(legID string) string {
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
