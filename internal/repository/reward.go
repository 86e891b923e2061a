package repository

import (
	"context"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardShareFilter selects the unclaimed share of one party over the rewards
// of a kind. An empty AccountColumn selects the share regardless of account,
// which is how the platform share is addressed.
type RewardShareFilter struct {
	Kind          entity.RewardKind
	AccountColumn string
	AccountID     string
	AmountColumn  string
	ClaimedColumn string
}

type RewardRepository interface {
	Create(ctx context.Context, data *entity.Reward) error
	GetByID(ctx context.Context, id string) (*entity.Reward, error)

	// GetUnclaimedForUpdate locks and returns the rows whose share is still
	// claimable and positive.
	GetUnclaimedForUpdate(ctx context.Context, filter RewardShareFilter) ([]entity.Reward, error)

	// MarkClaimed flips the claimed flag of the given rows and returns how
	// many rows were actually flipped.
	MarkClaimed(ctx context.Context, filter RewardShareFilter, ids []string) (int64, error)

	// SumUnclaimed returns the number of claimable rows and their total share.
	SumUnclaimed(ctx context.Context, filter RewardShareFilter) (int64, int64, error)
}

type rewardRepository struct{}

func NewRewardRepository() *rewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx context.Context, data *entity.Reward) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *rewardRepository) GetByID(ctx context.Context, id string) (*entity.Reward, error) {
	var result entity.Reward
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardRepository) unclaimed(ctx context.Context, filter RewardShareFilter) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.Reward{}).
		Where("kind=?", filter.Kind).
		Where(filter.ClaimedColumn+"=?", false).
		Where(filter.AmountColumn + ">0")
	if filter.AccountColumn != "" {
		tx = tx.Where(filter.AccountColumn+"=?", filter.AccountID)
	}

	return tx
}

func (r *rewardRepository) GetUnclaimedForUpdate(
	ctx context.Context, filter RewardShareFilter,
) ([]entity.Reward, error) {
	var result []entity.Reward
	err := r.unclaimed(ctx, filter).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) MarkClaimed(
	ctx context.Context, filter RewardShareFilter, ids []string,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx := r.unclaimed(ctx, filter).
		Where("id IN (?)", ids).
		Update(filter.ClaimedColumn, true)
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *rewardRepository) SumUnclaimed(ctx context.Context, filter RewardShareFilter) (int64, int64, error) {
	var result struct {
		Count  int64
		Amount int64
	}

	err := r.unclaimed(ctx, filter).
		Select("COUNT(*) AS count, COALESCE(SUM(" + filter.AmountColumn + "),0) AS amount").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}

	return result.Count, result.Amount, nil
}
