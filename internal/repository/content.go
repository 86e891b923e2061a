package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OpenAuctionData struct {
	AuctionID  string
	Seq        int
	StartPrice int64
	DueTime    sql.NullTime
}

type ContentRepository interface {
	Create(ctx context.Context, data *entity.Content) error
	GetByID(ctx context.Context, id string) (*entity.Content, error)

	// GetByIDForUpdate locks the content row until the running transaction
	// ends. Databases without row locks (sqlite) serialize writers instead.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Content, error)

	// GetExpiredAuctions returns open contents whose due time is not after
	// now, oldest first.
	GetExpiredAuctions(ctx context.Context, now time.Time, limit int) ([]entity.Content, error)

	// OpenAuction only succeeds on a closed content.
	OpenAuction(ctx context.Context, id string, data OpenAuctionData) error

	// CloseAuction only succeeds on the open content whose current round is
	// auctionID.
	CloseAuction(ctx context.Context, id, auctionID string) error

	// TransferOwnership moves the content to newOwnerID, advances the
	// auction round and rotates the share code.
	TransferOwnership(ctx context.Context, id, newOwnerID, shareCode string) error

	// IncreaseLotteryRound only succeeds if the lottery round is still round.
	IncreaseLotteryRound(ctx context.Context, id string, round int) error
}

type contentRepository struct{}

func NewContentRepository() *contentRepository {
	return &contentRepository{}
}

func (r *contentRepository) Create(ctx context.Context, data *entity.Content) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*entity.Content, error) {
	var result entity.Content
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contentRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Content, error) {
	var result entity.Content
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contentRepository) GetExpiredAuctions(
	ctx context.Context, now time.Time, limit int,
) ([]entity.Content, error) {
	var result []entity.Content
	err := xcontext.DB(ctx).
		Where("auction_state=? AND due_time IS NOT NULL AND due_time<=?", entity.AuctionOpen, now).
		Order("due_time ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *contentRepository) OpenAuction(ctx context.Context, id string, data OpenAuctionData) error {
	tx := xcontext.DB(ctx).Model(&entity.Content{}).
		Where("id=? AND auction_state=?", id, entity.AuctionClosed).
		Updates(map[string]any{
			"auction_state":      entity.AuctionOpen,
			"auction_seq":        data.Seq,
			"start_price":        data.StartPrice,
			"due_time":           data.DueTime,
			"current_auction_id": sql.NullString{Valid: true, String: data.AuctionID},
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *contentRepository) CloseAuction(ctx context.Context, id, auctionID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Content{}).
		Where("id=? AND auction_state=? AND current_auction_id=?", id, entity.AuctionOpen, auctionID).
		Updates(map[string]any{
			"auction_state": entity.AuctionClosed,
			"start_price":   0,
			"due_time":      sql.NullTime{},
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *contentRepository) TransferOwnership(ctx context.Context, id, newOwnerID, shareCode string) error {
	tx := xcontext.DB(ctx).Model(&entity.Content{}).
		Where("id=?", id).
		Updates(map[string]any{
			"owner_id":      newOwnerID,
			"share_code":    shareCode,
			"auction_round": gorm.Expr("auction_round+?", 1),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *contentRepository) IncreaseLotteryRound(ctx context.Context, id string, round int) error {
	tx := xcontext.DB(ctx).Model(&entity.Content{}).
		Where("id=? AND lottery_round=?", id, round).
		Update("lottery_round", gorm.Expr("lottery_round+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
