package enum

import "encoding/json"

// BillStatus is the lifecycle position of one bill slot
type BillStatus int

const (
	BillStatusEmpty      BillStatus = 0
	BillStatusComposing  BillStatus = 1
	BillStatusSubmitting BillStatus = 2
)

func (s BillStatus) String() string {
	switch s {
	case BillStatusComposing:
		return "Composing"
	case BillStatusSubmitting:
		return "Submitting"
	default:
		return "Empty"
	}
}

func (s BillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
