package domain

// SourceType tags the originating business document of a journal entry.
type SourceType string

const (
	SourceManual     SourceType = "MANUAL"
	SourceOrder      SourceType = "ORDER"
	SourceExpense    SourceType = "EXPENSE"
	SourcePurchase   SourceType = "PURCHASE"
	SourceRefund     SourceType = "REFUND"
	SourcePayroll    SourceType = "PAYROLL"
	SourceRecurring  SourceType = "RECURRING"
	SourceAdjustment SourceType = "ADJUSTMENT"
)

// EntrySource is a typed reference to the document that caused a journal
// entry. SourceID is empty for manual entries; for RECURRING it names the
// template, for ADJUSTMENT the reversed entry.
type EntrySource struct {
	Type     SourceType `json:"type"`
	SourceID string     `json:"sourceID,omitempty"`
}

// Valid reports whether the source type is one of the known document kinds.
func (s EntrySource) Valid() bool {
	switch s.Type {
	case SourceManual, SourceOrder, SourceExpense, SourcePurchase,
		SourceRefund, SourcePayroll, SourceRecurring, SourceAdjustment:
		return true
	}
	return false
}

// Describe renders the source for audit display, exhaustively per kind.
func (s EntrySource) Describe() string {
	switch s.Type {
	case SourceManual:
		return "manual entry"
	case SourceOrder:
		return "sales order " + s.SourceID
	case SourceExpense:
		return "expense " + s.SourceID
	case SourcePurchase:
		return "purchase " + s.SourceID
	case SourceRefund:
		return "refund " + s.SourceID
	case SourcePayroll:
		return "payroll run " + s.SourceID
	case SourceRecurring:
		return "recurring template " + s.SourceID
	case SourceAdjustment:
		return "adjustment of entry " + s.SourceID
	default:
		return "unknown source"
	}
}

// NumberPrefix returns the entry-number prefix allocated for entries of this
// source. Recurring-generated entries carry their own sequence so statements
// distinguish them from directly recorded ones.
func (s EntrySource) NumberPrefix() string {
	if s.Type == SourceRecurring {
		return "REC"
	}
	return "JE"
}
