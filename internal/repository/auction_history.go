package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
)

type SettleAuctionData struct {
	State       entity.AuctionHistoryState
	FinalPrice  int64
	WinnerID    sql.NullString
	WinnerBidID sql.NullInt64
	RewardID    sql.NullString
	SettledAt   time.Time
}

type AuctionHistoryRepository interface {
	Create(ctx context.Context, data *entity.AuctionHistory) error
	GetByID(ctx context.Context, id string) (*entity.AuctionHistory, error)
	GetByContentID(ctx context.Context, contentID string) ([]entity.AuctionHistory, error)
	GetLastByContentID(ctx context.Context, contentID string) (*entity.AuctionHistory, error)

	// RaiseHighestBid moves the floor of an open round up to amount. It fails
	// with gorm.ErrRecordNotFound if the round is not open anymore or amount
	// does not exceed the current floor.
	RaiseHighestBid(ctx context.Context, id string, amount int64) error

	// Settle completes an open round. Only the first caller succeeds, the
	// others get gorm.ErrRecordNotFound.
	Settle(ctx context.Context, id string, data SettleAuctionData) error
}

type auctionHistoryRepository struct{}

func NewAuctionHistoryRepository() *auctionHistoryRepository {
	return &auctionHistoryRepository{}
}

func (r *auctionHistoryRepository) Create(ctx context.Context, data *entity.AuctionHistory) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *auctionHistoryRepository) GetByID(ctx context.Context, id string) (*entity.AuctionHistory, error) {
	var result entity.AuctionHistory
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *auctionHistoryRepository) GetByContentID(
	ctx context.Context, contentID string,
) ([]entity.AuctionHistory, error) {
	var result []entity.AuctionHistory
	err := xcontext.DB(ctx).
		Where("content_id=?", contentID).
		Order("seq DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *auctionHistoryRepository) GetLastByContentID(
	ctx context.Context, contentID string,
) (*entity.AuctionHistory, error) {
	var result entity.AuctionHistory
	err := xcontext.DB(ctx).
		Where("content_id=?", contentID).
		Order("seq DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *auctionHistoryRepository) RaiseHighestBid(ctx context.Context, id string, amount int64) error {
	tx := xcontext.DB(ctx).Model(&entity.AuctionHistory{}).
		Where("id=? AND state=? AND highest_bid<?", id, entity.AuctionHistoryOpen, amount).
		Updates(map[string]any{
			"highest_bid": amount,
			"bid_count":   gorm.Expr("bid_count+?", 1),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *auctionHistoryRepository) Settle(ctx context.Context, id string, data SettleAuctionData) error {
	tx := xcontext.DB(ctx).Model(&entity.AuctionHistory{}).
		Where("id=? AND state=?", id, entity.AuctionHistoryOpen).
		Updates(map[string]any{
			"state":         data.State,
			"final_price":   data.FinalPrice,
			"winner_id":     data.WinnerID,
			"winner_bid_id": data.WinnerBidID,
			"reward_id":     data.RewardID,
			"settled_at":    sql.NullTime{Valid: true, Time: data.SettledAt},
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
