package adjacency

import (
	"fmt"

	"unshred/internal/models"
)

// SelfPairs decides whether the diagonal of the seam-cost matrix keeps its
// measured cost or is set to +Inf.
type SelfPairs string

const (
	// SelfPairsAuto excludes self pairs unless the image has exactly two
	// strips wider than one pixel.
	SelfPairsAuto SelfPairs = "auto"

	// SelfPairsExclude always stores +Inf on the diagonal
	SelfPairsExclude SelfPairs = "exclude"

	// SelfPairsInclude always keeps the measured diagonal
	SelfPairsInclude SelfPairs = "include"
)

// SelfPairsNames lists the accepted policy names
func SelfPairsNames() []string {
	return []string{string(SelfPairsAuto), string(SelfPairsExclude), string(SelfPairsInclude)}
}

// ParseSelfPairs returns the policy with the given name. The empty string
// means SelfPairsAuto.
func ParseSelfPairs(name string) (SelfPairs, error) {
	switch p := SelfPairs(name); p {
	case "":
		return SelfPairsAuto, nil
	case SelfPairsAuto, SelfPairsExclude, SelfPairsInclude:
		return p, nil
	default:
		return "", &models.ConfigurationError{
			Setting: "self pairs",
			Reason:  fmt.Sprintf("unknown policy %q", name),
		}
	}
}

// Exclude reports whether self pairs are excluded for an image cut into
// numStrips strips of stripWidth pixels.
//
// A one-pixel strip always costs 0 against itself, so auto excludes the
// diagonal there. With two strips an excluded diagonal leaves one finite
// entry per row and the successors always form the cycle 0 -> 1 -> 0, so
// auto keeps the measured diagonal for two wider strips.
func (p SelfPairs) Exclude(numStrips, stripWidth int) bool {
	switch p {
	case SelfPairsExclude:
		return true
	case SelfPairsInclude:
		return false
	default:
		return stripWidth == 1 || numStrips != 2
	}
}
