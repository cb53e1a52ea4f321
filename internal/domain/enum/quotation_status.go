package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus int

const (
	QuotationStatusDraft    QuotationStatus = 0
	QuotationStatusSent     QuotationStatus = 1
	QuotationStatusAccepted QuotationStatus = 2
	QuotationStatusRejected QuotationStatus = 3
	QuotationStatusCanceled QuotationStatus = 4
)

func (s QuotationStatus) String() string {
	return [...]string{"Draft", "Sent", "Accepted", "Rejected", "Canceled"}[s]
}

// IsValid reports whether the status is one of the known values
func (s QuotationStatus) IsValid() bool {
	return s >= QuotationStatusDraft && s <= QuotationStatusCanceled
}

func (s QuotationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuotationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = QuotationStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = QuotationStatusDraft
	case "Sent":
		*s = QuotationStatusSent
	case "Accepted":
		*s = QuotationStatusAccepted
	case "Rejected":
		*s = QuotationStatusRejected
	case "Canceled":
		*s = QuotationStatusCanceled
	}
	return nil
}

func (s QuotationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuotationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuotationStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuotationStatus(v)
	case int:
		*s = QuotationStatus(v)
	}
	return nil
}
