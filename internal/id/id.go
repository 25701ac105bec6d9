package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Prefixes for human-readable document numbers, one per collection.
const (
	PrefixQuote         = "QT"
	PrefixSalesOrder    = "SO"
	PrefixPurchaseOrder = "PO"
	PrefixPayable       = "AP"
	PrefixReceivable    = "AR"
)

// New returns a fresh opaque identifier for a document or payment event.
func New() string {
	return uuid.NewString()
}

// FormatNumber returns a document number like "AP-2025-0007".
func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%04d-%04d", prefix, year, seq)
}

// ParseNumber parses "AP-2025-0007" into prefix, year and sequence.
func ParseNumber(number string) (prefix string, year, seq int, err error) {
	parts := strings.SplitN(number, "-", 3)
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("invalid document number format: %q", number)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid year in document number %q: %w", number, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid sequence in document number %q: %w", number, err)
	}

	return parts[0], year, seq, nil
}

// NextNumber returns the next number for prefix and year given the numbers
// already in use. Numbers that do not parse, or belong to another prefix or
// year, are ignored.
func NextNumber(prefix string, year int, existing []string) string {
	maxSeq := 0
	for _, n := range existing {
		p, y, seq, err := ParseNumber(n)
		if err != nil || p != prefix || y != year {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return FormatNumber(prefix, year, maxSeq+1)
}
