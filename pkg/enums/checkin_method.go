package enums

import "fmt"

// CheckinMethod records the surface an attendance check-in came from.
type CheckinMethod string

const (
	CheckinMethodWeb    CheckinMethod = "web"
	CheckinMethodMobile CheckinMethod = "mobile"
)

var validCheckinMethods = []CheckinMethod{
	CheckinMethodWeb,
	CheckinMethodMobile,
}

// String implements fmt.Stringer.
func (m CheckinMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known CheckinMethod.
func (m CheckinMethod) IsValid() bool {
	for _, candidate := range validCheckinMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseCheckinMethod converts raw input into a CheckinMethod.
func ParseCheckinMethod(value string) (CheckinMethod, error) {
	for _, candidate := range validCheckinMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkin method %q", value)
}
