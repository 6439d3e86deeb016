package sanitizer

import "strings"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SanitizeEmail normalizes an address for the unique-email lookup.
func SanitizeEmail(input string) string {
	p := Pipeline{
		trimAndLower,
	}
	return p.Apply(input)
}

// SanitizeAmenity normalizes a single amenity tag before enum validation.
func SanitizeAmenity(input string) string {
	p := Pipeline{
		trimAndLower,
	}
	return p.Apply(input)
}
