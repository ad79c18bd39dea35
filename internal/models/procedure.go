package models

// ProcedureResult is the contract every database stored procedure returns:
// a JSON object with a boolean success flag and a human-readable message.
// Callers never inspect anything finer-grained.
type ProcedureResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
