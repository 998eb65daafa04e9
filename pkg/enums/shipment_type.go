package enums

import "fmt"

// ShipmentType distinguishes the downstream channel a shipment is bound for.
type ShipmentType string

const (
	ShipmentTypeStandard ShipmentType = "Standard"
	ShipmentTypeFBA      ShipmentType = "FBA"
	ShipmentTypeTikTok   ShipmentType = "TikTok"
	ShipmentTypeOther    ShipmentType = "Other"
)

var validShipmentTypes = []ShipmentType{
	ShipmentTypeStandard,
	ShipmentTypeFBA,
	ShipmentTypeTikTok,
	ShipmentTypeOther,
}

func (s ShipmentType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentType.
func (s ShipmentType) IsValid() bool {
	for _, candidate := range validShipmentTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShipmentType converts raw input into a ShipmentType.
func ParseShipmentType(value string) (ShipmentType, error) {
	for _, candidate := range validShipmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment type %q", value)
}
