package dto

import "time"

// StatementParams filters an account statement query. From/To default to the
// last 30 days when zero.
type StatementParams struct {
	From      time.Time
	To        time.Time
	Limit     int
	NextToken *string
}

// StatementResponse is a page of trail entries touching one account, newest
// first. NextToken is set when more pages remain.
type StatementResponse struct {
	AccountID    string                `json:"accountID"`
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
