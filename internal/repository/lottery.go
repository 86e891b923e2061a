package repository

import (
	"context"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LotteryRepository interface {
	// Contribute adds amount to the pool of (contentID, round), creating the
	// pool on the first contribution, and returns the pool afterwards.
	Contribute(ctx context.Context, contentID string, round int, amount int64) (*entity.LotteryPool, error)

	GetPoolByID(ctx context.Context, id string) (*entity.LotteryPool, error)
	GetPoolByContentRound(ctx context.Context, contentID string, round int) (*entity.LotteryPool, error)
	GetPoolsByContentID(ctx context.Context, contentID string) ([]entity.LotteryPool, error)

	// AssignWinner only succeeds on a pool without a winner.
	AssignWinner(ctx context.Context, poolID, winnerID string) error

	GetNotClaimedPoolsForUpdate(ctx context.Context, winnerID string) ([]entity.LotteryPool, error)
	ClaimPools(ctx context.Context, winnerID string, poolIDs []string) (int64, error)
	SumNotClaimed(ctx context.Context, winnerID string) (int64, int64, error)
}

type lotteryRepository struct{}

func NewLotteryRepository() *lotteryRepository {
	return &lotteryRepository{}
}

func (r *lotteryRepository) Contribute(
	ctx context.Context, contentID string, round int, amount int64,
) (*entity.LotteryPool, error) {
	pool := entity.LotteryPool{
		Base:      entity.Base{ID: uuid.NewString()},
		ContentID: contentID,
		Round:     round,
		Amount:    amount,
	}

	err := xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_id"}, {Name: "round"}},
		DoUpdates: clause.Assignments(map[string]any{"amount": gorm.Expr("amount+?", amount)}),
	}).Create(&pool).Error
	if err != nil {
		return nil, err
	}

	return r.GetPoolByContentRound(ctx, contentID, round)
}

func (r *lotteryRepository) GetPoolByID(ctx context.Context, id string) (*entity.LotteryPool, error) {
	var result entity.LotteryPool
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRepository) GetPoolByContentRound(
	ctx context.Context, contentID string, round int,
) (*entity.LotteryPool, error) {
	var result entity.LotteryPool
	err := xcontext.DB(ctx).Take(&result, "content_id=? AND round=?", contentID, round).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRepository) GetPoolsByContentID(ctx context.Context, contentID string) ([]entity.LotteryPool, error) {
	var result []entity.LotteryPool
	err := xcontext.DB(ctx).
		Where("content_id=?", contentID).
		Order("round DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) AssignWinner(ctx context.Context, poolID, winnerID string) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryPool{}).
		Where("id=? AND winner_id IS NULL", poolID).
		Update("winner_id", winnerID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) notClaimed(ctx context.Context, winnerID string) *gorm.DB {
	return xcontext.DB(ctx).Model(&entity.LotteryPool{}).
		Where("winner_id=? AND is_claimed=? AND amount>0", winnerID, false)
}

func (r *lotteryRepository) GetNotClaimedPoolsForUpdate(
	ctx context.Context, winnerID string,
) ([]entity.LotteryPool, error) {
	var result []entity.LotteryPool
	err := r.notClaimed(ctx, winnerID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) ClaimPools(ctx context.Context, winnerID string, poolIDs []string) (int64, error) {
	if len(poolIDs) == 0 {
		return 0, nil
	}

	tx := r.notClaimed(ctx, winnerID).
		Where("id IN (?)", poolIDs).
		Update("is_claimed", true)
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *lotteryRepository) SumNotClaimed(ctx context.Context, winnerID string) (int64, int64, error) {
	var result struct {
		Count  int64
		Amount int64
	}

	err := r.notClaimed(ctx, winnerID).
		Select("COUNT(*) AS count, COALESCE(SUM(amount),0) AS amount").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}

	return result.Count, result.Amount, nil
}
