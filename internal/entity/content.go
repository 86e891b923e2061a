package entity

import (
	"database/sql"

	"github.com/creatorx-lab/settlement/pkg/enum"
)

type AuctionState string

var (
	AuctionClosed = enum.New(AuctionState("closed"))
	AuctionOpen   = enum.New(AuctionState("open"))
)

type Content struct {
	Base

	CreatorID string
	Creator   Account `gorm:"foreignKey:CreatorID"`

	OwnerID string  `gorm:"index"`
	Owner   Account `gorm:"foreignKey:OwnerID"`

	Title     string
	ShareCode string

	AuctionState AuctionState `gorm:"index;default:closed"`

	// AuctionRound advances only when a round settles with a winner.
	AuctionRound int `gorm:"default:1"`

	// AuctionSeq counts every opened round, including unsold ones.
	AuctionSeq int

	// LotteryRound advances when the current pool gets a winner.
	LotteryRound int `gorm:"default:1"`

	StartPrice       int64
	DueTime          sql.NullTime `gorm:"index"`
	CurrentAuctionID sql.NullString
}
