package api

// RateResponse is returned by GET /api/rates/:from/:to
type RateResponse struct {
	Key     string `json:"key"`
	Rate    string `json:"rate"`
	Encoded string `json:"encoded"`
}

// TransferResponse is returned to JSON clients of POST /doTransfer
type TransferResponse struct {
	TransactionHash string `json:"transaction_hash"`
	TicketID        uint64 `json:"ticket_id"`
}
