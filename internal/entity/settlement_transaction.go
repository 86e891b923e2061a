package entity

import "github.com/creatorx-lab/settlement/pkg/enum"

type SettlementOperation string

var (
	SettlementOperationBid        = enum.New(SettlementOperation("bid"))
	SettlementOperationTip        = enum.New(SettlementOperation("tip"))
	SettlementOperationSettlement = enum.New(SettlementOperation("settlement"))
	SettlementOperationClaim      = enum.New(SettlementOperation("claim"))
)

type ClaimSource string

var (
	ClaimSourceReward  = enum.New(ClaimSource("reward"))
	ClaimSourceBid     = enum.New(ClaimSource("bid"))
	ClaimSourceLottery = enum.New(ClaimSource("lottery"))
)

type ClaimRole string

var (
	ClaimRoleRecipient = enum.New(ClaimRole("recipient"))
	ClaimRoleReferrer  = enum.New(ClaimRole("referrer"))
	ClaimRolePlatform  = enum.New(ClaimRole("platform"))
	ClaimRoleCreator   = enum.New(ClaimRole("creator"))
	ClaimRoleWinner    = enum.New(ClaimRole("winner"))
)

// SettlementTransaction is the append-only audit row binding an external
// settlement proof to the operation it finalized. (Proof, Operation) is
// unique, which makes every proof usable once per operation.
type SettlementTransaction struct {
	Base

	Proof     string              `gorm:"size:191;index:idx_settlement_transaction_proof_operation,unique"`
	Operation SettlementOperation `gorm:"size:32;index:idx_settlement_transaction_proof_operation,unique"`

	AccountID   string `gorm:"index"`
	ReferenceID string

	ClaimSource ClaimSource
	ClaimRole   ClaimRole
	Count       int
	Amount      int64
}
