package model

import "fmt"

// Status is the lifecycle state of a ledger document.
//
// Pending, PartiallyPaid and Paid are stored; Overdue is only ever produced by
// the display overlay and is never written by an operation.
type Status string

const (
	StatusPending       Status = "pending"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusOverdue       Status = "overdue"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPartiallyPaid, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// IsStored reports whether s can be the stored lifecycle state.
func (s Status) IsStored() bool {
	return s == StatusPending || s == StatusPartiallyPaid || s == StatusPaid
}

// Label returns the human-readable status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusPartiallyPaid:
		return "Partially paid"
	case StatusPaid:
		return "Paid"
	case StatusOverdue:
		return "Overdue"
	}
	return string(s)
}

// ParseStatus converts a raw value into a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Direction tags a ledger document as money owed by us or to us.
type Direction string

const (
	Payable    Direction = "payable"
	Receivable Direction = "receivable"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == Payable || d == Receivable
}

// EventLabel names a payment event in this direction ("payment" or "receipt").
func (d Direction) EventLabel() string {
	if d == Receivable {
		return "receipt"
	}
	return "payment"
}

// CounterpartyLabel names the other party ("supplier" or "customer").
func (d Direction) CounterpartyLabel() string {
	if d == Receivable {
		return "customer"
	}
	return "supplier"
}

// ParseDirection converts a raw value into a Direction.
func ParseDirection(raw string) (Direction, error) {
	d := Direction(raw)
	if !d.IsValid() {
		return "", fmt.Errorf("unknown direction %q", raw)
	}
	return d, nil
}
