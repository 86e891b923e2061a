package entity

import "database/sql"

type LotteryPool struct {
	Base

	ContentID string `gorm:"index:idx_lottery_pool_content_round,unique"`
	Round     int    `gorm:"index:idx_lottery_pool_content_round,unique"`

	Amount int64

	WinnerID  sql.NullString `gorm:"index"`
	IsClaimed bool
}
