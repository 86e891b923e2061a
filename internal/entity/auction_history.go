package entity

import (
	"database/sql"

	"github.com/creatorx-lab/settlement/pkg/enum"
)

type AuctionHistoryState string

var (
	AuctionHistoryOpen    = enum.New(AuctionHistoryState("open"))
	AuctionHistorySettled = enum.New(AuctionHistoryState("settled"))
	AuctionHistoryUnsold  = enum.New(AuctionHistoryState("unsold"))
)

// AuctionHistory is the immutable record of one opened round. Only the row of
// the open round changes, and only through a conditional update on State.
type AuctionHistory struct {
	Base

	ContentID string  `gorm:"index:idx_auction_history_content_seq,unique"`
	Content   Content `gorm:"foreignKey:ContentID"`
	Seq       int     `gorm:"index:idx_auction_history_content_seq,unique"`
	Round     int

	SellerID string
	Seller   Account `gorm:"foreignKey:SellerID"`

	State      AuctionHistoryState
	StartPrice int64
	DueTime    sql.NullTime

	// HighestBid is the floor the next bid must exceed. It starts at
	// StartPrice.
	HighestBid int64
	BidCount   int

	FinalPrice  int64
	WinnerID    sql.NullString
	WinnerBidID sql.NullInt64
	RewardID    sql.NullString
	SettledAt   sql.NullTime
}
