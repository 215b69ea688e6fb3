package voice

import "strings"

// Category selects the speaker's base pitch distribution.
type Category int

const (
	// Male speakers have a lower, narrower pitch distribution.
	Male Category = iota
	// Female speakers have a higher, wider pitch distribution.
	Female
)

type pitchProfile struct {
	mean float64
	sd   float64
}

// Base pitch in Hz per category.
var profiles = [...]pitchProfile{
	Male:   {mean: 110, sd: 50},
	Female: {mean: 190, sd: 80},
}

// Categories returns all known categories in declaration order.
func Categories() []Category {
	return []Category{Male, Female}
}

// CategoryNames returns every spelling accepted by ParseCategory.
func CategoryNames() []string {
	return []string{"male", "m", "man", "female", "f", "woman"}
}

// ParseCategory maps a user supplied name onto a Category. Unknown names
// fall back to Female; ok reports whether the name was recognised.
func ParseCategory(name string) (c Category, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "m", "male", "man":
		return Male, true
	case "f", "female", "woman":
		return Female, true
	default:
		return Female, false
	}
}

// String returns the canonical name of the category.
func (c Category) String() string {
	switch c {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c == Male || c == Female
}

// normalize applies the same fallback as ParseCategory to raw values.
func (c Category) normalize() Category {
	if !c.Valid() {
		return Female
	}
	return c
}

// BasePitchMean returns the untuned pitch mean in Hz.
func (c Category) BasePitchMean() float64 {
	return profiles[c.normalize()].mean
}

// BasePitchSD returns the untuned pitch standard deviation in Hz.
func (c Category) BasePitchSD() float64 {
	return profiles[c.normalize()].sd
}
