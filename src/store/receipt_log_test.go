package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/goldbooks/backend/src/models"
)

func tempLog(t *testing.T, content string) *ReceiptLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receipts.log")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return NewReceiptLog(path)
}

func TestReceiptLog_MissingFileIsEmptyLog(t *testing.T) {
	log := NewReceiptLog(filepath.Join(t.TempDir(), "nope.log"))

	receipts, hash, err := log.ReadAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, receipts)
	assert.NotEmpty(t, hash)
}

func TestReceiptLog_ReadAssignsLogIndexes(t *testing.T) {
	log := tempLog(t, `{"receipt_no":"R-001","date":"2025-06-01","grand_total":"100","vat":"0"}
{"receipt_no":"R-002","date":"2025-06-02","grand_total":"200","vat":"0"}
`)

	receipts, _, err := log.ReadAll(context.Background())

	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, 1, receipts[0].LogIndex)
	assert.Equal(t, 2, receipts[1].LogIndex)
	assert.Equal(t, "R-001", receipts[0].ReceiptNo)
	assert.True(t, receipts[1].GrandTotal.Equal(decimal.NewFromInt(200)))
}

func TestReceiptLog_SkipsUnparsableLines(t *testing.T) {
	log := tempLog(t, `{"receipt_no":"R-001","date":"2025-06-01","grand_total":"100","vat":"0"}
this is not json
{"receipt_no":"R-003","date":"2025-06-03","grand_total":"300","vat":"0"}
`)

	receipts, _, err := log.ReadAll(context.Background())

	require.NoError(t, err)
	require.Len(t, receipts, 2)
	// The bad line still occupies its log position.
	assert.Equal(t, 1, receipts[0].LogIndex)
	assert.Equal(t, 3, receipts[1].LogIndex)
}

func TestReceiptLog_HashChangesOnAppend(t *testing.T) {
	log := tempLog(t, "")
	_, before, err := log.ReadAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, log.Append(models.Receipt{ReceiptNo: "R-001", Date: "2025-06-01"}))

	receipts, after, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.NotEqual(t, before, after)
}

func TestReceiptLog_UpdateKeepsPosition(t *testing.T) {
	log := tempLog(t, `{"receipt_no":"R-001","date":"2025-06-01","grand_total":"100","vat":"0"}
{"receipt_no":"R-002","date":"2025-06-02","grand_total":"200","vat":"0"}
`)

	updated := models.Receipt{ReceiptNo: "R-001", Date: "2025-06-01", GrandTotal: decimal.NewFromInt(150)}
	require.NoError(t, log.Update("R-001", updated))

	receipts, _, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "R-001", receipts[0].ReceiptNo)
	assert.Equal(t, 1, receipts[0].LogIndex)
	assert.True(t, receipts[0].GrandTotal.Equal(decimal.NewFromInt(150)))
}

func TestReceiptLog_UpdateUnknownReceipt(t *testing.T) {
	log := tempLog(t, `{"receipt_no":"R-001","date":"2025-06-01","grand_total":"100","vat":"0"}
`)

	err := log.Update("R-999", models.Receipt{ReceiptNo: "R-999"})

	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestReceiptLog_DeletePreservesOtherLines(t *testing.T) {
	log := tempLog(t, `{"receipt_no":"R-001","date":"2025-06-01","grand_total":"100","vat":"0"}
garbage line survives rewrites
{"receipt_no":"R-002","date":"2025-06-02","grand_total":"200","vat":"0"}
`)

	require.NoError(t, log.Delete("R-001"))

	receipts, _, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "R-002", receipts[0].ReceiptNo)

	data, err := os.ReadFile(log.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "garbage line survives rewrites")
}

func TestReceiptLog_DeleteMissingFile(t *testing.T) {
	log := NewReceiptLog(filepath.Join(t.TempDir(), "nope.log"))

	assert.ErrorIs(t, log.Delete("R-001"), ErrReceiptNotFound)
}

func TestReceiptLog_CancelledContext(t *testing.T) {
	log := tempLog(t, `{"receipt_no":"R-001","date":"2025-06-01","grand_total":"100","vat":"0"}
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := log.ReadAll(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
