package treeRepo

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// TreeRepository persists decision trees. Structural validation happens
// before Create/Update; the repository stores what it is given.
type TreeRepository interface {
	Create(ctx context.Context, tree *models.DecisionTree) error
	GetByID(ctx context.Context, id string) (*models.DecisionTree, error)
	GetByServiceName(ctx context.Context, serviceName string) (*models.DecisionTree, error)
	ListActive(ctx context.Context) ([]models.DecisionTree, error)
	List(ctx context.Context) ([]models.DecisionTree, error)
	Update(ctx context.Context, tree *models.DecisionTree) error
	Delete(ctx context.Context, id string) error
}
