package repository

import (
	"context"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/pkg/enum"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
)

// EarningColumn is a cumulative earnings counter of entity.Account.
type EarningColumn string

var (
	AuctionEarnings         = enum.New(EarningColumn("auction_earnings"))
	TipEarnings             = enum.New(EarningColumn("tip_earnings"))
	ReferredAuctionEarnings = enum.New(EarningColumn("referred_auction_earnings"))
	ReferredTipEarnings     = enum.New(EarningColumn("referred_tip_earnings"))
	LotteryEarnings         = enum.New(EarningColumn("lottery_earnings"))
	PlatformEarnings        = enum.New(EarningColumn("platform_earnings"))
)

type AccountRepository interface {
	Create(ctx context.Context, data *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByAddress(ctx context.Context, address string) (*entity.Account, error)
	IncreaseEarnings(ctx context.Context, id string, column EarningColumn, amount int64) error
}

type accountRepository struct{}

func NewAccountRepository() *accountRepository {
	return &accountRepository{}
}

func (r *accountRepository) Create(ctx context.Context, data *entity.Account) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	var result entity.Account
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *accountRepository) GetByAddress(ctx context.Context, address string) (*entity.Account, error) {
	var result entity.Account
	if err := xcontext.DB(ctx).Take(&result, "address=?", address).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *accountRepository) IncreaseEarnings(
	ctx context.Context, id string, column EarningColumn, amount int64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Account{}).
		Where("id=?", id).
		Update(string(column), gorm.Expr(string(column)+"+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
