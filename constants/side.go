package constants

import (
	"fmt"
	"strings"
)

// Side names one face of a business card.
type Side string

const (
	Front Side = "front" // required, higher merge priority
	Back  Side = "back"  // optional, fills gaps only
)

// Sides lists both faces in merge-priority order.
var Sides = []Side{Front, Back}

func (s Side) String() string { return string(s) }

// ParseSide accepts "front"/"back" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Front:
		return Front, nil
	case Back:
		return Back, nil
	}
	return "", fmt.Errorf("unknown card side %q", s)
}

// Facing selects a camera on the capturing device.
type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// Opposite returns the other camera.
func (f Facing) Opposite() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}
