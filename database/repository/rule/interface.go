package ruleRepo

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// RuleRepository persists admin-authored business rules. Config validation
// happens before Create/Update.
type RuleRepository interface {
	Create(ctx context.Context, rule *models.BusinessRule) error
	GetByID(ctx context.Context, id string) (*models.BusinessRule, error)
	ListActive(ctx context.Context) ([]models.BusinessRule, error)
	List(ctx context.Context) ([]models.BusinessRule, error)
	Update(ctx context.Context, rule *models.BusinessRule) error
	Delete(ctx context.Context, id string) error
}
