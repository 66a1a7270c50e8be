package repository

import (
	"context"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

// AWSRepository defines the interface for AWS API interactions.
type AWSRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Region Operations
	GetAccessibleRegions(ctx context.Context, profile string) ([]string, error)

	// Cost Operations
	GetCostTrend(ctx context.Context, profile string, query entity.TrendQuery) ([]entity.RawDatapoint, error)

	// Budget Operations
	GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error)

	// Inventory Operations
	GetInventorySnapshot(ctx context.Context, profile string, regions []string) (entity.ResourceSnapshot, error)
}
