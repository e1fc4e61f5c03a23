package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SubmissionStatus tracks a sale submission in the ledger
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusSucceeded SubmissionStatus = "succeeded"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

func (s SubmissionStatus) String() string {
	return string(s)
}

func (s SubmissionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s SubmissionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *SubmissionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SubmissionStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = SubmissionStatus(v)
	case []byte:
		*s = SubmissionStatus(string(v))
	}
	return nil
}
