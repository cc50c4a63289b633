package enums

import "fmt"

// ProviderType identifies the kind of shipping provider behind a configuration.
type ProviderType string

const (
	ProviderTypeDistance ProviderType = "distance"
	ProviderTypeManual   ProviderType = "manual"
	ProviderTypeExternal ProviderType = "external"
)

var validProviderTypes = []ProviderType{
	ProviderTypeDistance,
	ProviderTypeManual,
	ProviderTypeExternal,
}

// String implements fmt.Stringer.
func (p ProviderType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProviderType.
func (p ProviderType) IsValid() bool {
	for _, candidate := range validProviderTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProviderType converts raw input into a ProviderType.
func ParseProviderType(value string) (ProviderType, error) {
	for _, candidate := range validProviderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid provider type %q", value)
}
