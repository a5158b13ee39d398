package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poflow/backend/internal/domain/reconcile"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"PO No.", "po_no."},
		{"  Item Description  ", "item_description"},
		{"Item Description(Local)", "item_description_local"},
		{"PR/PO Automation Solution (Only China)", "pr/po_automation_solution_only_china"},
		{"AcceptanceNo.", "acceptanceno."},
		{"Due Qty", "due_qty"},
		{"(Status)", "status"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeHeader(tc.in), "input %q", tc.in)
	}
}

func TestMapColumns(t *testing.T) {
	t.Run("maps known headers to staging fields", func(t *testing.T) {
		table := &Table{
			Headers: []string{"PO No.", "PO Line No.", "Item Description", "Ignored Column"},
			Rows: [][]string{
				{"PO-1001", "10", "Fiber cable", "junk"},
				{"PO-1002", "20", "", "junk"},
			},
		}
		rows := MapColumns(reconcile.DocPurchaseOrder, table)
		require.Len(t, rows, 2)

		assert.Equal(t, "PO-1001", rows[0].Str("po_number"))
		assert.Equal(t, "10", rows[0].Str("po_line_no"))
		assert.Equal(t, "Fiber cable", rows[0].Str("item_description"))

		// Present column with a blank cell is empty, not absent.
		desc := rows[1].Get("item_description")
		require.NotNil(t, desc)
		assert.Equal(t, "", *desc)
	})

	t.Run("absent column yields nil", func(t *testing.T) {
		table := &Table{
			Headers: []string{"PO No.", "PO Line No."},
			Rows:    [][]string{{"PO-1001", "10"}},
		}
		rows := MapColumns(reconcile.DocPurchaseOrder, table)
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].Get("item_description"))
		assert.Equal(t, "", rows[0].Str("item_description"))
	})

	t.Run("short row treats trailing cells as blank", func(t *testing.T) {
		table := &Table{
			Headers: []string{"PO No.", "PO Line No.", "Item Description"},
			Rows:    [][]string{{"PO-1001", "10"}},
		}
		rows := MapColumns(reconcile.DocPurchaseOrder, table)
		require.Len(t, rows, 1)
		desc := rows[0].Get("item_description")
		require.NotNil(t, desc)
		assert.Equal(t, "", *desc)
	})

	t.Run("acceptance headers without spaces", func(t *testing.T) {
		table := &Table{
			Headers: []string{"AcceptanceNo.", "PONo.", "POLineNo.", "ShipmentNo."},
			Rows:    [][]string{{"ACC-1", "PO-1001", "10", "3"}},
		}
		rows := MapColumns(reconcile.DocAcceptance, table)
		require.Len(t, rows, 1)
		assert.Equal(t, "ACC-1", rows[0].Str("acceptance_no"))
		assert.Equal(t, "PO-1001", rows[0].Str("po_number"))
		assert.Equal(t, "10", rows[0].Str("po_line_no"))
		assert.Equal(t, "3", rows[0].Str("shipment_no"))
	})

	t.Run("fields snapshot reads absent columns as blank", func(t *testing.T) {
		table := &Table{
			Headers: []string{"PO No."},
			Rows:    [][]string{{"PO-1001"}},
		}
		rows := MapColumns(reconcile.DocPurchaseOrder, table)
		require.Len(t, rows, 1)
		fields := rows[0].Fields()
		assert.Equal(t, "PO-1001", fields["po_number"])
		assert.Equal(t, "", fields["item_description"])
	})
}
