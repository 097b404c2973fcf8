package entity

import (
	"strings"

	"courier/internal/errors"
)

const (
	minDestinationDigits = 7
	maxDestinationDigits = 15
)

// ErrInvalidDestination marks a destination that is not a phone number
var ErrInvalidDestination = errors.New("invalid destination")

var destinationNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "", "\t", "")

// NormalizeDestination strips formatting and a leading plus from a phone number.
// The result must be 7 to 15 digits.
func NormalizeDestination(raw string) (string, error) {
	d := destinationNoise.Replace(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "+")

	if len(d) < minDestinationDigits || len(d) > maxDestinationDigits {
		return "", errors.Wrapf(ErrInvalidDestination, "%q must have %d to %d digits", raw, minDestinationDigits, maxDestinationDigits)
	}
	for _, r := range d {
		if r < '0' || r > '9' {
			return "", errors.Wrapf(ErrInvalidDestination, "%q contains non-digit characters", raw)
		}
	}

	return d, nil
}
