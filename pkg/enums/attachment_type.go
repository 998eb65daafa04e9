package enums

import "fmt"

// AttachmentType categorizes files attached to a shipment.
type AttachmentType string

const (
	AttachmentTypeBOL   AttachmentType = "bol"
	AttachmentTypeLabel AttachmentType = "label"
	AttachmentTypePhoto AttachmentType = "photo"
	AttachmentTypeOther AttachmentType = "other"
)

var validAttachmentTypes = []AttachmentType{
	AttachmentTypeBOL,
	AttachmentTypeLabel,
	AttachmentTypePhoto,
	AttachmentTypeOther,
}

func (a AttachmentType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AttachmentType.
func (a AttachmentType) IsValid() bool {
	for _, candidate := range validAttachmentTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAttachmentType converts raw input into an AttachmentType.
func ParseAttachmentType(value string) (AttachmentType, error) {
	for _, candidate := range validAttachmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attachment type %q", value)
}
