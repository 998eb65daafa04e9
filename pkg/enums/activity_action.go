package enums

import "fmt"

// ActivityAction is the verb recorded with every audit row.
type ActivityAction string

const (
	ActivityActionCreate ActivityAction = "create"
	ActivityActionUpdate ActivityAction = "update"
	ActivityActionDelete ActivityAction = "delete"
)

func (a ActivityAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityAction.
func (a ActivityAction) IsValid() bool {
	return a == ActivityActionCreate || a == ActivityActionUpdate || a == ActivityActionDelete
}

// ParseActivityAction converts raw input into an ActivityAction.
func ParseActivityAction(value string) (ActivityAction, error) {
	action := ActivityAction(value)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid activity action %q", value)
	}
	return action, nil
}
