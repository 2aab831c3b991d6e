// Package catalog holds the fixed set of scoring categories (ball colours)
// and the foul penalty.
package catalog

import (
	"fmt"
	"strings"
)

// FoulPenalty is subtracted from the selected player's score on a foul.
const FoulPenalty = 4

// Key identifies a scoring category.
type Key string

const (
	Red    Key = "red"
	Yellow Key = "yellow"
	Green  Key = "green"
	Brown  Key = "brown"
	Blue   Key = "blue"
	Pink   Key = "pink"
	Black  Key = "black"
)

// Ball is a scoring category: a ball colour worth a fixed number of points.
type Ball struct {
	Key   Key
	Label string
	Value int
	Hex   string // colour hint for renderers
}

func (b Ball) String() string {
	return fmt.Sprintf("%s (%d)", b.Label, b.Value)
}

var balls = [...]Ball{
	{Key: Red, Label: "Red", Value: 1, Hex: "#ef4444"},
	{Key: Yellow, Label: "Yellow", Value: 2, Hex: "#fde047"},
	{Key: Green, Label: "Green", Value: 3, Hex: "#22c55e"},
	{Key: Brown, Label: "Brown", Value: 4, Hex: "#92400e"},
	{Key: Blue, Label: "Blue", Value: 5, Hex: "#2563eb"},
	{Key: Pink, Label: "Pink", Value: 6, Hex: "#ec4899"},
	{Key: Black, Label: "Black", Value: 7, Hex: "#0b0b0b"},
}

// Balls returns the catalog in ascending point order. The returned slice is a copy.
func Balls() []Ball {
	out := make([]Ball, len(balls))
	copy(out, balls[:])
	return out
}

// Lookup returns the ball for key. Keys are matched exactly.
func Lookup(key Key) (Ball, bool) {
	for _, b := range balls {
		if b.Key == key {
			return b, true
		}
	}
	return Ball{}, false
}

// Parse resolves user input to a ball. It accepts a key in any case
// or the point value as a digit ("1".."7").
func Parse(s string) (Ball, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if b, ok := Lookup(Key(s)); ok {
		return b, true
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '7' {
		return balls[s[0]-'1'], true
	}
	return Ball{}, false
}
