package enums

import "fmt"

// GoodsReceivedStatus tracks an inbound receipt record.
type GoodsReceivedStatus string

const (
	GoodsReceivedStatusDraft     GoodsReceivedStatus = "Draft"
	GoodsReceivedStatusCompleted GoodsReceivedStatus = "Completed"
	GoodsReceivedStatusAdjusted  GoodsReceivedStatus = "Adjusted"
)

var validGoodsReceivedStatuses = []GoodsReceivedStatus{
	GoodsReceivedStatusDraft,
	GoodsReceivedStatusCompleted,
	GoodsReceivedStatusAdjusted,
}

func (s GoodsReceivedStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known GoodsReceivedStatus.
func (s GoodsReceivedStatus) IsValid() bool {
	for _, candidate := range validGoodsReceivedStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseGoodsReceivedStatus converts raw input into a GoodsReceivedStatus.
func ParseGoodsReceivedStatus(value string) (GoodsReceivedStatus, error) {
	for _, candidate := range validGoodsReceivedStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid goods received status %q", value)
}
