package portfolio

import "github.com/yusuketakei/tickets/internal/models"

// Aggregate groups tickets by category name. Categories keep the order in
// which they were first seen and ticket ids keep input order.
// ApprovedCount is never filled in.
func Aggregate(tickets []models.TicketInfo) *models.CategoryMap {
	categories := models.NewCategoryMap()
	for _, t := range tickets {
		if summary, ok := categories.Get(t.TicketCategoryName); ok {
			summary.OwnedCount++
			summary.TicketIDs = append(summary.TicketIDs, t.TicketID)
			continue
		}
		categories.Put(&models.CategorySummary{
			CategoryName:  t.TicketCategoryName,
			OwnedCount:    1,
			ApprovedCount: 0,
			TicketIDs:     []uint64{t.TicketID},
		})
	}
	return categories
}
