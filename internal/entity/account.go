package entity

type Account struct {
	Base

	// Address is the checksummed external wallet address.
	Address string `gorm:"unique;size:42"`

	// Cumulative earnings, only ever increased by a claim batch.
	AuctionEarnings         int64
	TipEarnings             int64
	ReferredAuctionEarnings int64
	ReferredTipEarnings     int64
	LotteryEarnings         int64
	PlatformEarnings        int64
}
