package fee_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/fee"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/tests"
)

func newFee(id, studentID, due string, amount float64) fee.Record {
	return fee.Record{
		Meta:      record.Meta{ID: id},
		StudentID: studentID,
		FeeType:   "tuition",
		Amount:    amount,
		DueDate:   due,
		Month:     "March",
		Year:      2024,
	}
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	testutil.FreezeTime(t, testutil.Now)

	paid := newFee("f2", "s1", "2024-03-10", 500)
	paid.Status = "PAID"
	paid.PaymentMethod = "cash"
	paid.CollectedBy = "Office"

	unexplained := newFee("f3", "s1", "2024-03-10", 500)
	unexplained.Status = fee.StatusPaid

	over := newFee("f4", "s1", "2024-03-10", 500)
	over.Status = fee.StatusPartial
	over.PaidAmount = 600

	tests := []struct {
		name       string
		in         fee.Record
		wantFields []string
	}{
		{name: "pending", in: newFee("f1", "s1", "2024-03-10", 5000)},
		{name: "paid", in: paid},
		{name: "paid without method", in: unexplained, wantFields: []string{"paymentMethod", "collectedBy"}},
		{name: "overpaid", in: over, wantFields: []string{"paidAmount"}},
		{name: "bad type", in: func() fee.Record { r := newFee("f5", "s1", "2024-03-10", 1); r.FeeType = "pizza"; return r }(), wantFields: []string{"feeType"}},
		{name: "bad month", in: func() fee.Record { r := newFee("f6", "s1", "2024-03-10", 1); r.Month = "Marchember"; return r }(), wantFields: []string{"month"}},
		{name: "zero amount", in: newFee("f7", "s1", "2024-03-10", 0), wantFields: []string{"amount"}},
	}
	svc := fee.NewService(testutil.NewStorage(), &testutil.Logger{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Add(ctx, tt.in)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				assert.NotEmpty(t, got.Status)
				return
			}
			flds := core.TranslateError(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, flds, f)
			}
		})
	}

	got, err := svc.FindByID(ctx, "f2")
	require.NoError(t, err)
	assert.Equal(t, fee.StatusPaid, got.Status)
	assert.Equal(t, 500.0, got.PaidAmount)
}

func TestService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	testutil.FreezeTime(t, testutil.Now)
	svc := fee.NewService(testutil.NewStorage(), &testutil.Logger{})
	for _, r := range []fee.Record{newFee("f1", "s1", "2024-04-10", 5000), newFee("f2", "s2", "2024-04-10", 300)} {
		_, err := svc.Add(ctx, r)
		require.NoError(t, err)
	}

	first, err := svc.MarkPaid(ctx, "f2", "online", "Office", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, fee.StatusPaid, first.Status)
	assert.Equal(t, 300.0, first.PaidAmount)
	assert.Equal(t, "RCP0001", first.ReceiptNumber)

	second, err := svc.MarkPaid(ctx, "f1", "cash", "Office", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "RCP0002", second.ReceiptNumber)

	// paying again keeps the receipt
	again, err := svc.MarkPaid(ctx, "f1", "bank", "Office", "2024-03-16")
	require.NoError(t, err)
	assert.Equal(t, "RCP0002", again.ReceiptNumber)

	_, err = svc.MarkPaid(ctx, "nope", "cash", "Office", "2024-03-15")
	assert.ErrorIs(t, err, record.ErrNotFound)

	_, err = svc.MarkPaid(ctx, "f1", "barter", "Office", "2024-03-15")
	assert.True(t, core.IsValidationError(err))

	byStudent, err := svc.GetByStudent(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, byStudent, 1)
	paid, err := svc.GetByStatus(ctx, fee.StatusPaid)
	require.NoError(t, err)
	assert.Len(t, paid, 2)
}

func TestService_MarkPaid_receiptAfterDelete(t *testing.T) {
	ctx := context.Background()
	testutil.FreezeTime(t, testutil.Now)
	svc := fee.NewService(testutil.NewStorage(), &testutil.Logger{})
	for _, id := range []string{"f1", "f2", "f3"} {
		_, err := svc.Add(ctx, newFee(id, "s1", "2024-04-10", 100))
		require.NoError(t, err)
	}

	_, err := svc.MarkPaid(ctx, "f1", "cash", "Office", "2024-03-15")
	require.NoError(t, err)
	f2, err := svc.MarkPaid(ctx, "f2", "cash", "Office", "2024-03-15")
	require.NoError(t, err)
	require.Equal(t, "RCP0002", f2.ReceiptNumber)
	require.NoError(t, svc.Delete(ctx, "f1"))

	f3, err := svc.MarkPaid(ctx, "f3", "cash", "Office", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "RCP0003", f3.ReceiptNumber)
}

func TestService_RefreshOverdue_corrupt(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewStorage()
	svc := fee.NewService(db, &testutil.Logger{})
	require.NoError(t, db.Set(ctx, fee.Key, "{not json"))

	_, err := svc.RefreshOverdue(ctx, "2024-03-15")
	assert.ErrorIs(t, err, record.ErrCorrupted)
	raw, _ := db.Raw(fee.Key)
	assert.Equal(t, "{not json", raw)
}

func TestService_RefreshOverdue(t *testing.T) {
	ctx := context.Background()
	testutil.FreezeTime(t, testutil.Now)
	db := testutil.NewStorage()
	svc := fee.NewService(db, &testutil.Logger{})

	partial := newFee("f3", "s1", "2024-03-01", 1000)
	partial.Status = fee.StatusPartial
	partial.PaidAmount = 200
	paid := newFee("f4", "s1", "2024-03-01", 1000)
	paid.Status = fee.StatusPaid
	paid.PaymentMethod = "cash"
	paid.CollectedBy = "Office"
	require.NoError(t, svc.SetAll(ctx, []fee.Record{
		newFee("f1", "s1", "2024-03-14", 100), // due yesterday
		newFee("f2", "s1", "2024-03-15", 100), // due today
		partial,
		paid,
	}))
	writes := db.Writes

	n, err := svc.RefreshOverdue(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, writes+1, db.Writes)

	overdue, err := svc.GetByStatus(ctx, fee.StatusOverdue)
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, "f1", overdue[0].ID)
	assert.Equal(t, "f3", overdue[1].ID)

	n, err = svc.RefreshOverdue(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, writes+1, db.Writes)
}

func TestSummarize(t *testing.T) {
	got := fee.Summarize([]fee.Record{
		{Amount: 5000, Status: fee.StatusPaid},
		{Amount: 1000, PaidAmount: 250, Status: fee.StatusPartial},
		{Amount: 300, Status: fee.StatusOverdue},
	})
	assert.Equal(t, fee.Summary{Total: 6300, Collected: 5250, Pending: 1050, Overdue: 1}, got)
}
