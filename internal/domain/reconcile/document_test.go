package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentTypeValidate(t *testing.T) {
	t.Run("po row with both keys is valid", func(t *testing.T) {
		issues := DocPurchaseOrder.Validate(1, map[string]string{
			"po_number":  "PO1",
			"po_line_no": "1",
		})
		assert.Empty(t, issues)
	})

	t.Run("po row missing line number", func(t *testing.T) {
		issues := DocPurchaseOrder.Validate(7, map[string]string{
			"po_number": "PO1",
		})
		require.Len(t, issues, 1)
		assert.Equal(t, 7, issues[0].Row)
		assert.Equal(t, "po_line_no", issues[0].Field)
		assert.Equal(t, "PO Line Number is required", issues[0].Message)
	})

	t.Run("po row missing everything", func(t *testing.T) {
		issues := DocPurchaseOrder.Validate(2, map[string]string{})
		assert.Len(t, issues, 2)
	})

	t.Run("acceptance requires four fields", func(t *testing.T) {
		issues := DocAcceptance.Validate(3, map[string]string{
			"acceptance_no": "ACC-1",
			"po_number":     "PO1",
		})
		require.Len(t, issues, 2)
		assert.Equal(t, "po_line_no", issues[0].Field)
		assert.Equal(t, "shipment_no", issues[1].Field)
	})

	t.Run("unvalidated fields never produce issues", func(t *testing.T) {
		issues := DocPurchaseOrder.Validate(1, map[string]string{
			"po_number":  "PO1",
			"po_line_no": "1",
			"due_qty":    "not a number",
		})
		assert.Empty(t, issues)
	})
}

func TestDocumentTypeIsValid(t *testing.T) {
	assert.True(t, DocPurchaseOrder.IsValid())
	assert.True(t, DocAcceptance.IsValid())
	assert.False(t, DocumentType("invoice").IsValid())
}
