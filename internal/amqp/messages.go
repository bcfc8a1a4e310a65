package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid report period")

// ReportRequestMessage asks the worker to rebuild the report of one calendar
// month. It carries no ledger data; the worker reads a fresh snapshot.
type ReportRequestMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportRequestMessage(year, month int) *ReportRequestMessage {
	return &ReportRequestMessage{Year: year, Month: month, Timestamp: time.Now()}
}

func (m *ReportRequestMessage) Validate() error {
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, m.Month)
	}
	if m.Year < 1970 || m.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, m.Year)
	}
	return nil
}

func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
