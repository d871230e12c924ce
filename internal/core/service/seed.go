package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
)

// SampleData returns the demo users and expenses, timed relative to now.
func SampleData(now time.Time) ([]*domain.User, []*domain.Expense) {
	users := []*domain.User{
		{ID: "user-1", Name: "John Smith", Email: "john.smith@company.com", Role: domain.RoleAdmin, Department: "Finance"},
		{ID: "user-2", Name: "Sarah Johnson", Email: "sarah.johnson@company.com", Role: domain.RoleManager, Department: "Engineering", ManagerID: "user-1"},
		{ID: "user-3", Name: "Mike Davis", Email: "mike.davis@company.com", Role: domain.RoleEmployee, Department: "Engineering", ManagerID: "user-2"},
	}

	dayAgo := now.Add(-24 * time.Hour)
	approvedNow := now
	expenses := []*domain.Expense{
		{
			ID:          "exp-1",
			UserID:      "user-3",
			Title:       "Business Trip to NYC",
			Description: "Flight and hotel for client meeting",
			Amount:      decimal.NewFromInt(1250),
			Category:    domain.CategoryTravel,
			Status:      domain.StatusPending,
			SubmittedAt: now,
		},
		{
			ID:          "exp-2",
			UserID:      "user-3",
			Title:       "Team Lunch",
			Description: "Lunch with development team",
			Amount:      decimal.RequireFromString("85.50"),
			Category:    domain.CategoryMeals,
			Status:      domain.StatusApproved,
			SubmittedAt: dayAgo,
			ApprovedAt:  &approvedNow,
			ApprovedBy:  "user-2",
		},
		{
			ID:          "exp-3",
			UserID:      "user-2",
			Title:       "Office Supplies",
			Description: "Whiteboard markers and sticky notes",
			Amount:      decimal.RequireFromString("45.30"),
			Category:    domain.CategoryOffice,
			Status:      domain.StatusApproved,
			SubmittedAt: now.Add(-48 * time.Hour),
			ApprovedAt:  &dayAgo,
			ApprovedBy:  "user-1",
		},
	}
	return users, expenses
}

// SeedSampleData loads SampleData into seeder.
func SeedSampleData(ctx context.Context, seeder ports.Seeder, now time.Time, log zerolog.Logger) error {
	users, expenses := SampleData(now)
	if err := seeder.Seed(ctx, users, expenses); err != nil {
		return fmt.Errorf("seed sample data: %w", err)
	}
	log.Info().Int("users", len(users)).Int("expenses", len(expenses)).Msg("sample data seeded")
	return nil
}
