package entity

import (
	"database/sql"

	"github.com/creatorx-lab/settlement/pkg/enum"
)

type RewardKind string

var (
	RewardTip     = enum.New(RewardKind("tip"))
	RewardAuction = enum.New(RewardKind("auction"))
)

// Reward is written once per tip or settled auction. Only the claimed flags
// may change afterwards, each from false to true.
type Reward struct {
	Base

	Kind      RewardKind `gorm:"index"`
	ContentID string     `gorm:"index"`
	Round     int

	SenderID    string
	RecipientID string `gorm:"index"`
	ReferrerID  sql.NullString `gorm:"index"`

	BidID         sql.NullInt64 `gorm:"unique"`
	LotteryPoolID string

	GrossAmount     int64
	RecipientAmount int64
	ReferrerAmount  int64
	PlatformAmount  int64
	LotteryAmount   int64

	RecipientClaimed bool
	ReferrerClaimed  bool
	PlatformClaimed  bool
	LotteryClaimed   bool
}
