package repository

import (
	"context"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
)

type SettlementTransactionRepository interface {
	// Create fails with gorm.ErrDuplicatedKey if the proof was already used
	// for the same operation.
	Create(ctx context.Context, data *entity.SettlementTransaction) error
	UpdateClaimResult(ctx context.Context, id string, count int, amount int64) error
}

type settlementTransactionRepository struct{}

func NewSettlementTransactionRepository() *settlementTransactionRepository {
	return &settlementTransactionRepository{}
}

func (r *settlementTransactionRepository) Create(ctx context.Context, data *entity.SettlementTransaction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *settlementTransactionRepository) UpdateClaimResult(
	ctx context.Context, id string, count int, amount int64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.SettlementTransaction{}).
		Where("id=?", id).
		Updates(map[string]any{"count": count, "amount": amount})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
