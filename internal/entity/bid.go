package entity

import "database/sql"

type Bid struct {
	SnowFlakeBase

	ContentID        string `gorm:"index:idx_bid_content_round"`
	Round            int    `gorm:"index:idx_bid_content_round"`
	AuctionHistoryID string `gorm:"index"`

	BidderID string
	Bidder   Account `gorm:"foreignKey:BidderID"`

	ReferrerID sql.NullString

	Amount   int64
	IsWinner bool
}
