package domain

import "strings"

// Document type codes embedded in naming series.
const (
	DocCodeDebitNote      = "DR"
	DocCodeCreditNote     = "CR"
	DocCodeSalesReturn    = "SR"
	DocCodePurchaseReturn = "PR"
)

// DocTypeCode derives the naming series code for a document from its type
// and return/debit-note flags. Regular documents have no code.
func DocTypeCode(snap *DocumentSnapshot) string {
	isReturn := truthy(snap.Value("is_return"))
	switch snap.DocType {
	case DocTypeSalesInvoice:
		if truthy(snap.Value("is_debit_note")) {
			return DocCodeDebitNote
		}
		if isReturn {
			return DocCodeCreditNote
		}
	case DocTypePurchaseInvoice:
		if isReturn {
			return DocCodeDebitNote
		}
	case DocTypeDeliveryNote:
		if isReturn {
			return DocCodeSalesReturn
		}
	case DocTypePurchaseReceipt:
		if isReturn {
			return DocCodePurchaseReturn
		}
	}
	return ""
}

// truthy interprets check-box style field values.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
