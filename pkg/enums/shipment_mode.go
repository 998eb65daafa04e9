package enums

import "fmt"

// ShipmentMode separates pallet shipments from daily bulk entries.
type ShipmentMode string

const (
	ShipmentModePallet    ShipmentMode = "pallet"
	ShipmentModeDailyBulk ShipmentMode = "daily-bulk"
)

func (m ShipmentMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ShipmentMode.
func (m ShipmentMode) IsValid() bool {
	return m == ShipmentModePallet || m == ShipmentModeDailyBulk
}

// ParseShipmentMode converts raw input into a ShipmentMode.
func ParseShipmentMode(value string) (ShipmentMode, error) {
	mode := ShipmentMode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid shipment mode %q", value)
	}
	return mode, nil
}
