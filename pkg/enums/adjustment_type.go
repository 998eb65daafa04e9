package enums

import "fmt"

// AdjustmentType selects the arithmetic applied by a stock adjustment.
type AdjustmentType string

const (
	AdjustmentTypeAdd    AdjustmentType = "add"
	AdjustmentTypeRemove AdjustmentType = "remove"
	AdjustmentTypeSet    AdjustmentType = "set"
)

func (a AdjustmentType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentType.
func (a AdjustmentType) IsValid() bool {
	return a == AdjustmentTypeAdd || a == AdjustmentTypeRemove || a == AdjustmentTypeSet
}

// ParseAdjustmentType converts raw input into an AdjustmentType.
func ParseAdjustmentType(value string) (AdjustmentType, error) {
	adjustment := AdjustmentType(value)
	if !adjustment.IsValid() {
		return "", fmt.Errorf("invalid adjustment type %q", value)
	}
	return adjustment, nil
}
