package analytics

import (
	"errors"
	"slices"
)

// ErrEmptyMatchSet is returned when a match-set would contain no characters.
var ErrEmptyMatchSet = errors.New("match set is empty")

// MatchSet is an ordered collection of distinct runes to count.
// The zero value matches nothing.
type MatchSet struct {
	runes  []rune
	lookup map[rune]struct{}
}

// NewMatchSet builds a MatchSet from runes, keeping the first occurrence
// of each rune and its position.
func NewMatchSet(runes ...rune) (MatchSet, error) {
	set := MatchSet{
		runes:  make([]rune, 0, len(runes)),
		lookup: make(map[rune]struct{}, len(runes)),
	}
	for _, r := range runes {
		if _, exists := set.lookup[r]; exists {
			continue
		}
		set.lookup[r] = struct{}{}
		set.runes = append(set.runes, r)
	}

	if len(set.runes) == 0 {
		return MatchSet{}, ErrEmptyMatchSet
	}
	return set, nil
}

// ParseMatchSet treats every rune of chars as one member of the set.
func ParseMatchSet(chars string) (MatchSet, error) {
	return NewMatchSet([]rune(chars)...)
}

// Runes returns the members in insertion order.
func (m MatchSet) Runes() []rune {
	return slices.Clone(m.runes)
}

func (m MatchSet) Len() int {
	return len(m.runes)
}

func (m MatchSet) Contains(r rune) bool {
	_, ok := m.lookup[r]
	return ok
}

// Clone returns a copy that shares no memory with m.
func (m MatchSet) Clone() MatchSet {
	lookup := make(map[rune]struct{}, len(m.lookup))
	for r := range m.lookup {
		lookup[r] = struct{}{}
	}
	return MatchSet{
		runes:  slices.Clone(m.runes),
		lookup: lookup,
	}
}

func (m MatchSet) String() string {
	return string(m.runes)
}

// Count returns how many runes of text are members of the set.
func (m MatchSet) Count(text string) uint64 {
	var count uint64
	for _, r := range text {
		if _, exists := m.lookup[r]; exists {
			count++
		}
	}
	return count
}
