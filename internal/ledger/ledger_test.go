package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/models"
	"github.com/rmarban/invoicedesk/pkg/database"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "invoices.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := New(db.DB, zap.NewNop())
	require.NoError(t, l.Initialize())
	return l
}

func testInvoice(invoiceID string) *models.Invoice {
	return &models.Invoice{
		InvoiceID:     invoiceID,
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.test",
		TotalAmount:   121.00,
		TaxAmount:     21.00,
		InvoiceDate:   "2024-01-15 10:00",
		PaymentMethod: "transfer",
		PaymentEntity: "Test Bank",
	}
}

func TestLedger_Initialize(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		l := newTestLedger(t)
		require.NoError(t, l.Initialize())
		require.NoError(t, l.Initialize())
	})
}

func TestLedger_Save(t *testing.T) {
	t.Run("inserts with defaults and assigns sequence id", func(t *testing.T) {
		l := newTestLedger(t)
		inv := testInvoice("INV-240115-AAAA")

		require.NoError(t, l.Save(inv))

		assert.Greater(t, inv.ID, int64(0))

		got, err := l.GetDetails("INV-240115-AAAA")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Equal(t, 121.00, got.TotalAmount)
		assert.NotEmpty(t, got.CreatedAt)
		assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		l := newTestLedger(t)

		for name, inv := range map[string]*models.Invoice{
			"no invoice_id":   {ClientName: "Acme", TotalAmount: 10},
			"no client_name":  {InvoiceID: "INV-1", TotalAmount: 10},
			"no total_amount": {InvoiceID: "INV-2", ClientName: "Acme"},
		} {
			t.Run(name, func(t *testing.T) {
				assert.ErrorIs(t, l.Save(inv), ErrMissingField)
			})
		}
	})

	t.Run("duplicate invoice_id fails and inserts exactly one row", func(t *testing.T) {
		l := newTestLedger(t)

		require.NoError(t, l.Save(testInvoice("INV-240115-DUPE")))
		err := l.Save(testInvoice("INV-240115-DUPE"))

		assert.ErrorIs(t, err, ErrDuplicateID)

		n, err := l.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestLedger_GetAll(t *testing.T) {
	seed := func(t *testing.T) *Ledger {
		l := newTestLedger(t)
		dates := map[string]string{
			"INV-2401": "2024-01-01",
			"INV-2402": "2024-02-01",
			"INV-2403": "2024-03-01",
		}
		for id, date := range dates {
			inv := testInvoice(id)
			inv.InvoiceDate = date
			require.NoError(t, l.Save(inv))
		}
		return l
	}

	t.Run("date_from returns inclusive tail ordered descending", func(t *testing.T) {
		l := seed(t)

		summaries, err := l.GetAll(Filters{DateFrom: "2024-02-01"}, "")

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "INV-2403", summaries[0].InvoiceID)
		assert.Equal(t, "INV-2402", summaries[1].InvoiceID)
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		l := seed(t)

		summaries, err := l.GetAll(Filters{DateFrom: "2024-01-01", DateTo: "2024-02-01"}, "")

		require.NoError(t, err)
		assert.Len(t, summaries, 2)
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		l := seed(t)
		require.NoError(t, l.UpdateStatus("INV-2402", models.StatusPaid))

		summaries, err := l.GetAll(Filters{DateFrom: "2024-01-01", Status: models.StatusPaid}, "")

		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "INV-2402", summaries[0].InvoiceID)
	})

	t.Run("client_name matches substring", func(t *testing.T) {
		l := seed(t)

		summaries, err := l.GetAll(Filters{ClientName: "cme"}, "")

		require.NoError(t, err)
		assert.Len(t, summaries, 3)
	})

	t.Run("accepts whitelisted order and ignores junk", func(t *testing.T) {
		l := seed(t)

		asc, err := l.GetAll(Filters{}, "invoice_date ASC")
		require.NoError(t, err)
		require.Len(t, asc, 3)
		assert.Equal(t, "INV-2401", asc[0].InvoiceID)

		// A non-whitelisted expression falls back to the default sort.
		junk, err := l.GetAll(Filters{}, "invoice_date; DROP TABLE invoices")
		require.NoError(t, err)
		require.Len(t, junk, 3)
		assert.Equal(t, "INV-2403", junk[0].InvoiceID)
	})
}

func TestLedger_GetDetails(t *testing.T) {
	t.Run("returns full record", func(t *testing.T) {
		l := newTestLedger(t)
		require.NoError(t, l.Save(testInvoice("INV-240115-FULL")))

		got, err := l.GetDetails("INV-240115-FULL")

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", got.ClientName)
		assert.Equal(t, "transfer", got.PaymentMethod)
		assert.Equal(t, "Test Bank", got.PaymentEntity)
		assert.Equal(t, 21.00, got.TaxAmount)
	})

	t.Run("fails with ErrNotFound", func(t *testing.T) {
		l := newTestLedger(t)

		_, err := l.GetDetails("INV-000000-XXXX")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLedger_UpdateStatus(t *testing.T) {
	t.Run("sets status and updated_at", func(t *testing.T) {
		l := newTestLedger(t)
		require.NoError(t, l.Save(testInvoice("INV-240115-STAT")))

		require.NoError(t, l.UpdateStatus("INV-240115-STAT", models.StatusPaid))

		got, err := l.GetDetails("INV-240115-STAT")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, got.Status)
	})

	t.Run("fails with ErrNotFound for unknown id", func(t *testing.T) {
		l := newTestLedger(t)
		assert.ErrorIs(t, l.UpdateStatus("INV-000000-XXXX", models.StatusPaid), ErrNotFound)
	})
}

func TestLedger_Delete(t *testing.T) {
	t.Run("removes the row", func(t *testing.T) {
		l := newTestLedger(t)
		require.NoError(t, l.Save(testInvoice("INV-240115-DEL")))

		require.NoError(t, l.Delete("INV-240115-DEL"))

		_, err := l.GetDetails("INV-240115-DEL")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("fails with ErrNotFound and changes nothing", func(t *testing.T) {
		l := newTestLedger(t)
		require.NoError(t, l.Save(testInvoice("INV-240115-KEEP")))

		assert.ErrorIs(t, l.Delete("INV-000000-XXXX"), ErrNotFound)

		n, err := l.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
