package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/pkordes/ourtrip/internal/domain"
	"github.com/pkordes/ourtrip/internal/repo"
)

// ExportService assembles a full flat export of all trips and their expenses.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per expense across all trips, trips in stored
// order and expenses in insertion order. Trips with no expenses contribute one
// row with empty expense fields.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(trips))
	for _, t := range trips {
		base := domain.ExportRow{
			TripID:        t.ID,
			TripName:      t.Name,
			TripCreatedAt: t.CreatedAt,
			SharedWith:    []string{},
		}
		if len(t.Expenses) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, e := range t.Expenses {
			row := base
			date := e.Date
			row.ExpenseDate = &date
			row.Description = e.Description
			row.Amount = e.Amount
			row.PaidBy = e.PaidBy
			row.SharedWith = slices.Clone(e.Participants)
			if row.SharedWith == nil {
				row.SharedWith = []string{}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
