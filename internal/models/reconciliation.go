package models

// Discrepancy is one customer whose cached balance disagrees with the sum of
// their ledger postings. Variance = systemBalance - realBalance.
type Discrepancy struct {
	CustomerID     int     `json:"customer_id"`
	CustomerName   string  `json:"customer_name"`
	SystemBalance  float64 `json:"system_balance"`
	RealBalance    float64 `json:"real_balance"`
	Variance       float64 `json:"variance"`
	BalanceVersion int     `json:"balance_version"`
}

// ReconciliationReport is the full result of one balance-consistency scan.
type ReconciliationReport struct {
	Discrepancies      []Discrepancy `json:"discrepancies"`
	TotalChecked       int           `json:"total_checked"`
	TotalDiscrepancies int           `json:"total_discrepancies"`
}

// RepairBalanceRequest overwrites a customer's cached balance with the value
// reported by a scan. ExpectedVersion must match the version seen at scan time.
type RepairBalanceRequest struct {
	CustomerID      int     `json:"customer_id"`
	CorrectBalance  float64 `json:"correct_balance"`
	ExpectedVersion int     `json:"expected_version"`
}
