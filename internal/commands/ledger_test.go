package commands_test

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayable_PartialFullAndReverse(t *testing.T) {
	dir := newProject(t)
	ap := number("AP", 1)

	out := in(t, dir, "payable", "create", "--description", "Steel coils", "--supplier", "Acme Steel",
		"--due", "2030-03-10", "--amount", "2100.00")
	assert.Contains(t, out, "Created payable "+ap+" for 2100.00")

	out = in(t, dir, "payable", "pay", ap, "500", "--method", "pix", "--date", "2030-02-01")
	assert.Contains(t, out, "Partially paid")
	assert.Contains(t, out, "remaining 1600.00")

	out = in(t, dir, "payable", "pay", ap, "1600,00", "--method", "boleto")
	assert.Contains(t, out, "Paid")

	docs := readCollection(t, dir, "payables")
	require.Len(t, docs, 1)
	assert.Equal(t, "paid", docs[0]["status"])
	assert.Equal(t, 2100.0, docs[0]["paid_amount"])
	assert.Len(t, docs[0]["payment_history"], 2)

	out = in(t, dir, "payable", "show", ap)
	assert.Contains(t, out, "Payment history:")
	assert.Contains(t, out, "pix")
	assert.Contains(t, out, "boleto")

	out = in(t, dir, "payable", "reverse", ap)
	assert.Contains(t, out, "Reversed all payments")
	assert.Contains(t, out, "Pending")

	docs = readCollection(t, dir, "payables")
	assert.Equal(t, "pending", docs[0]["status"])
	assert.Equal(t, 0.0, docs[0]["paid_amount"])
	assert.Empty(t, docs[0]["payment_history"])
}

func TestPayable_RejectsInvalidPayments(t *testing.T) {
	dir := newProject(t)
	ap := number("AP", 1)
	in(t, dir, "payable", "create", "--description", "d", "--supplier", "s", "--due", "2030-01-01", "--amount", "100")

	for _, amount := range []string{"0", "-5", "100.01", "abc"} {
		out, err := runOficina(t, "--dir", dir, "payable", "pay", ap, amount, "--method", "pix")
		require.Error(t, err, amount)
		assert.NotContains(t, out, "Recorded")
	}

	docs := readCollection(t, dir, "payables")
	assert.Empty(t, docs[0]["payment_history"])

	_, err := runOficina(t, "--dir", dir, "payable", "pay", "AP-1999-0001", "10", "--method", "pix")
	assert.Equal(t, 3, exitCode(t, err), "unknown document")

	_, err = runOficina(t, "--dir", dir, "payable", "pay", ap, "100.01", "--method", "pix")
	assert.Equal(t, 2, exitCode(t, err), "over-payment is a validation failure")

	_, err = runOficina(t, "--dir", dir, "payable", "pay", ap, "abc", "--method", "pix")
	assert.Equal(t, 1, exitCode(t, err))
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "want a non-zero exit, got %v", err)
	return exitErr.ExitCode()
}

func TestReceivable_OverdueDisplay(t *testing.T) {
	dir := newProject(t)
	ar := number("AR", 1)
	in(t, dir, "receivable", "create", "--description", "Machining", "--customer", "Globex",
		"--due", "2001-01-01", "--amount", "300")
	in(t, dir, "receivable", "create", "--description", "Bearings", "--customer", "Initech",
		"--due", "2099-01-01", "--amount", "50")

	out := in(t, dir, "receivable", "list", "--status", "overdue")
	assert.Contains(t, out, ar)
	assert.Contains(t, out, "Overdue")
	assert.NotContains(t, out, "Initech")

	docs := readCollection(t, dir, "receivables")
	assert.Equal(t, "pending", docs[0]["status"], "overdue is never stored")

	out = in(t, dir, "receivable", "pay", ar, "100", "--method", "transfer")
	assert.Contains(t, out, "Recorded receipt")
	assert.Contains(t, out, "Overdue")

	out = in(t, dir, "summary")
	assert.Contains(t, out, "Outstanding")
	assert.Contains(t, out, "250.00")
}

func TestPayable_EditOriginalAmountOnlyBeforePayments(t *testing.T) {
	dir := newProject(t)
	ap := number("AP", 1)
	in(t, dir, "payable", "create", "--description", "d", "--supplier", "s", "--due", "2030-01-01", "--amount", "100")

	out := in(t, dir, "payable", "edit", ap, "--amount", "150", "--description", "Steel, revised")
	assert.Contains(t, out, "150.00")
	assert.Contains(t, out, "Steel, revised")

	in(t, dir, "payable", "pay", ap, "10", "--method", "pix")
	_, err := runOficina(t, "--dir", dir, "payable", "edit", ap, "--amount", "200")
	require.Error(t, err)

	out = in(t, dir, "payable", "edit", ap, "--due", "2030-02-01")
	assert.Contains(t, out, "2030-02-01")
	assert.Contains(t, out, "Partially paid")
}

func TestLedger_FromOrder(t *testing.T) {
	dir := newProject(t, "--samples")
	po := number("PO", 1)
	in(t, dir, "purchase-order", "create", "--counterparty", "Acme Steel")
	in(t, dir, "purchase-order", "add-item", po, "STL-SHEET-2", "--qty", "3", "--price", "250", "--discount", "10")
	in(t, dir, "purchase-order", "add-item", po, "BLT-M8", "--qty", "10", "--price", "50")
	in(t, dir, "purchase-order", "discount", po, "2.5")

	out := in(t, dir, "payable", "from-order", po, "--due", "2030-06-30")
	assert.Contains(t, out, "for 1145.63 from "+po)

	_, err := runOficina(t, "--dir", dir, "payable", "from-order", po, "--due", "2030-06-30")
	assert.Error(t, err, "an order raises at most one payable")

	_, err = runOficina(t, "--dir", dir, "receivable", "from-order", po, "--due", "2030-06-30")
	assert.Error(t, err, "receivables come from sales orders")
}
