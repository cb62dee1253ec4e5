package measure

import "strings"

// Bust cup offsets in inches.
var cupOffsets = map[byte]float64{
	'A': 0.875,
	'B': 1.25,
	'C': 1.5,
	'D': 1.75,
}

// DefaultCup is used when a cup string does not resolve.
const DefaultCup = "B"

// CupOffset parses strings like "C", "c cup" or "D Cup" and returns the
// bust offset. Unknown cups resolve to B.
func CupOffset(cup string) float64 {
	s := strings.ReplaceAll(strings.ToUpper(cup), "CUP", "")
	s = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, s)
	if s != "" {
		if v, ok := cupOffsets[s[0]]; ok {
			return v
		}
	}
	return cupOffsets[DefaultCup[0]]
}
