package shared

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	TypeAuditReferences = "integrity:audit_references"

	QueueIntegrity = "integrity"
)

// AuditReferencesPayload is the asynq payload of TypeAuditReferences.
type AuditReferencesPayload struct {
	PageSize int `json:"page_size"`
}

// BulkItemResult is the outcome of one item inside a bulk operation.
type BulkItemResult struct {
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

// BulkResult collects independent per-item outcomes. A failed item never
// aborts the remaining ones and nothing is rolled back.
type BulkResult struct {
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	Items        []BulkItemResult `json:"items"`
}

// Record appends the outcome of item id.
func (r *BulkResult) Record(id int64, err error) {
	item := BulkItemResult{ID: id, Success: err == nil, Err: err}
	if err != nil {
		item.Error = err.Error()
		r.FailedCount++
	} else {
		r.SuccessCount++
	}
	r.Items = append(r.Items, item)
}

// FailedIDs lists the ids of failed items in processing order.
func (r *BulkResult) FailedIDs() []int64 {
	var ids []int64
	for _, it := range r.Items {
		if !it.Success {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// DateLayout is the wire format of Date.
const DateLayout = "2006-01-02"

// Date is a calendar date that decodes from "2006-01-02" or RFC3339.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD or RFC3339: %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(DateLayout))
}

// Ptr returns the date as a *time.Time, nil for a nil receiver.
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
