package mock

import (
	"github.com/shopspring/decimal"

	"github.com/yusuketakei/tickets/internal/models"
)

const demoIssuer = "0x5a0b54d5dc17e0aadc383d2db43b0a0d3e029c4c"

// SeedDemo gives each address a few tickets so standalone mode has something to show
func SeedDemo(m *MockContract, addresses []string) {
	categories := []string{"ticket_category1", "ticket_category2", "ticket_category1"}
	issued := uint64(1609459200123)

	var id uint64
	for _, address := range addresses {
		for i, category := range categories {
			id++
			m.AddTicket(address, Ticket{
				ID:             id,
				InternalID:     uint64(i + 1),
				Category:       category,
				IPFSHashFirst:  "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpH",
				IPFSHashSecond: "dWEz79ojWnPbdG",
				Issuer:         demoIssuer,
				IssuedAt:       issued + id*60000,
			})
		}
	}

	m.AddTransaction(models.TransactionInfo{
		TransactionID:         1,
		TransactionStatus:     1,
		TransactionType:       0,
		FromAccountNo:         "1234567",
		ToAccountNo:           "7654321",
		FromAccountHolderName: "Taro",
		ToAccountHolderName:   "Hanako",
		FromCurrency:          "JPY",
		ToCurrency:            "JPY",
		Rate:                  decimal.NewFromInt(1),
		FromPrinc:             10000,
		ToPrinc:               10000,
		Timestamp:             int64(issued),
	})
}
