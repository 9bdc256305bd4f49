package accountsdomain

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// ColorChangePrice is the mekos cost of changing a profile colour.
const ColorChangePrice = 250

var hexPattern = regexp.MustCompile(`(#)?([A-F0-9]{6})`)

// ParseHexColor finds the first six-digit hex colour in input, case-insensitively.
func ParseHexColor(input string) (string, error) {
	m := hexPattern.FindStringSubmatch(strings.ToUpper(input))
	if m == nil {
		return "", ErrInvalidColor
	}
	return m[2], nil
}

// ProfileColor derives a stable colour from a user id as float RGB components in [0,1).
func ProfileColor(userID int64) (r, g, b float64) {
	seed := uint64(userID - 3)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return rng.Float64(), rng.Float64(), rng.Float64()
}
