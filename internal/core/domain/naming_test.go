package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocTypeCode(t *testing.T) {
	tests := []struct {
		name    string
		docType string
		values  map[string]string
		want    string
	}{
		{"sales invoice", DocTypeSalesInvoice, nil, ""},
		{"sales debit note", DocTypeSalesInvoice, map[string]string{"is_debit_note": "1"}, "DR"},
		{"sales debit note beats return", DocTypeSalesInvoice, map[string]string{"is_debit_note": "1", "is_return": "1"}, "DR"},
		{"sales return", DocTypeSalesInvoice, map[string]string{"is_return": "true"}, "CR"},
		{"purchase return", DocTypePurchaseInvoice, map[string]string{"is_return": "1"}, "DR"},
		{"purchase invoice", DocTypePurchaseInvoice, map[string]string{"is_return": "0"}, ""},
		{"delivery return", DocTypeDeliveryNote, map[string]string{"is_return": "1"}, "SR"},
		{"receipt return", DocTypePurchaseReceipt, map[string]string{"is_return": "yes"}, "PR"},
		{"sales order ignores return", DocTypeSalesOrder, map[string]string{"is_return": "1"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &DocumentSnapshot{DocType: tt.docType, Values: tt.values}
			assert.Equal(t, tt.want, DocTypeCode(snap))
		})
	}
}
