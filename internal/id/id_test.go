package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		prefix    string
		year, seq int
		want      string
	}{
		{PrefixPayable, 2025, 1, "AP-2025-0001"},
		{PrefixQuote, 2025, 42, "QT-2025-0042"},
		{PrefixSalesOrder, 2026, 12345, "SO-2026-12345"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.prefix, tt.year, tt.seq))
	}
}

func TestParseNumber(t *testing.T) {
	prefix, year, seq, err := ParseNumber("AR-2025-0007")
	require.NoError(t, err)
	assert.Equal(t, "AR", prefix)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 7, seq)
}

func TestParseNumberErrors(t *testing.T) {
	for _, in := range []string{"", "AR", "AR-2025", "-2025-0001", "AR-xx-0001", "AR-2025-yy"} {
		_, _, _, err := ParseNumber(in)
		assert.Error(t, err, "ParseNumber(%q)", in)
	}
}

func TestNextNumber(t *testing.T) {
	existing := []string{"AP-2025-0001", "AP-2025-0003", "AP-2024-0009", "AR-2025-0010", "manual"}

	assert.Equal(t, "AP-2025-0004", NextNumber(PrefixPayable, 2025, existing))
	assert.Equal(t, "AP-2026-0001", NextNumber(PrefixPayable, 2026, existing))
	assert.Equal(t, "QT-2025-0001", NextNumber(PrefixQuote, 2025, nil))
}

func TestNew(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}
