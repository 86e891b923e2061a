package testutil

import (
	"context"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/repository"
)

var (
	Creator  = entity.Account{Base: entity.Base{ID: "creator"}, Address: "0x1000000000000000000000000000000000000001"}
	Bidder1  = entity.Account{Base: entity.Base{ID: "bidder1"}, Address: "0x2000000000000000000000000000000000000001"}
	Bidder2  = entity.Account{Base: entity.Base{ID: "bidder2"}, Address: "0x2000000000000000000000000000000000000002"}
	Bidder3  = entity.Account{Base: entity.Base{ID: "bidder3"}, Address: "0x2000000000000000000000000000000000000003"}
	Referrer = entity.Account{Base: entity.Base{ID: "referrer"}, Address: "0x3000000000000000000000000000000000000001"}
	Platform = entity.Account{Base: entity.Base{ID: "platform"}, Address: "0x9000000000000000000000000000000000000009"}

	Accounts = []entity.Account{Creator, Bidder1, Bidder2, Bidder3, Referrer, Platform}

	Content1 = entity.Content{
		Base:         entity.Base{ID: "content1"},
		CreatorID:    Creator.ID,
		OwnerID:      Creator.ID,
		Title:        "Content 1",
		ShareCode:    "shareCodeOne",
		AuctionState: entity.AuctionClosed,
		AuctionRound: 1,
		LotteryRound: 1,
	}

	Content2 = entity.Content{
		Base:         entity.Base{ID: "content2"},
		CreatorID:    Bidder1.ID,
		OwnerID:      Bidder1.ID,
		Title:        "Content 2",
		ShareCode:    "shareCodeTwo",
		AuctionState: entity.AuctionClosed,
		AuctionRound: 1,
		LotteryRound: 1,
	}

	Contents = []entity.Content{Content1, Content2}
)

// CreateFixtureDb inserts the fixture accounts and contents into the database
// of ctx.
func CreateFixtureDb(ctx context.Context) {
	accountRepo := repository.NewAccountRepository()
	for _, account := range Accounts {
		account := account
		if err := accountRepo.Create(ctx, &account); err != nil {
			panic(err)
		}
	}

	contentRepo := repository.NewContentRepository()
	for _, content := range Contents {
		content := content
		if err := contentRepo.Create(ctx, &content); err != nil {
			panic(err)
		}
	}
}
