package repository

import (
	"context"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
)

type BidRepository interface {
	Create(ctx context.Context, data *entity.Bid) error
	GetByAuctionHistoryID(ctx context.Context, auctionHistoryID string) ([]entity.Bid, error)

	// GetHighest returns the winning candidate of a round: the highest amount,
	// then the earliest bid, then the lowest id.
	GetHighest(ctx context.Context, auctionHistoryID string) (*entity.Bid, error)

	SetWinner(ctx context.Context, id int64) error
}

type bidRepository struct{}

func NewBidRepository() *bidRepository {
	return &bidRepository{}
}

func (r *bidRepository) Create(ctx context.Context, data *entity.Bid) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bidRepository) GetByAuctionHistoryID(ctx context.Context, auctionHistoryID string) ([]entity.Bid, error) {
	var result []entity.Bid
	err := xcontext.DB(ctx).
		Where("auction_history_id=?", auctionHistoryID).
		Order("amount DESC, created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *bidRepository) GetHighest(ctx context.Context, auctionHistoryID string) (*entity.Bid, error) {
	var result entity.Bid
	err := xcontext.DB(ctx).
		Where("auction_history_id=?", auctionHistoryID).
		Order("amount DESC, created_at ASC, id ASC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *bidRepository) SetWinner(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Bid{}).
		Where("id=? AND is_winner=?", id, false).
		Update("is_winner", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
