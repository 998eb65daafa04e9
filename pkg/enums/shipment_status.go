package enums

import "fmt"

// ShipmentStatus tracks an outbound shipment through its lifecycle.
type ShipmentStatus string

const (
	ShipmentStatusPlanned   ShipmentStatus = "Planned"
	ShipmentStatusCreated   ShipmentStatus = "Created"
	ShipmentStatusBooked    ShipmentStatus = "Booked"
	ShipmentStatusPickedUp  ShipmentStatus = "Picked Up"
	ShipmentStatusDelivered ShipmentStatus = "Delivered"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPlanned,
	ShipmentStatusCreated,
	ShipmentStatusBooked,
	ShipmentStatusPickedUp,
	ShipmentStatusDelivered,
}

func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
