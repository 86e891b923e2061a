package cron

import (
	"context"
	"time"

	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/internal/domain"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/creatorx-lab/settlement/pkg/xredis"
	"github.com/google/uuid"
)

const sweepBatchSize = 100

// AuctionSettlementCronJob settles every open auction whose due time has
// passed. Only one instance of the job sweeps at a time across processes,
// guarded by a redis lock.
type AuctionSettlementCronJob struct {
	contentRepo   repository.ContentRepository
	auctionDomain domain.AuctionDomain
	redisClient   xredis.Client
	owner         string
	interval      time.Duration
	lockTTL       time.Duration
}

func NewAuctionSettlementCronJob(
	ctx context.Context,
	contentRepo repository.ContentRepository,
	auctionDomain domain.AuctionDomain,
	redisClient xredis.Client,
) *AuctionSettlementCronJob {
	cfg := xcontext.Configs(ctx).Settlement
	return &AuctionSettlementCronJob{
		contentRepo:   contentRepo,
		auctionDomain: auctionDomain,
		redisClient:   redisClient,
		owner:         uuid.NewString(),
		interval:      cfg.SweepInterval.Duration,
		lockTTL:       cfg.SweepLockTTL.Duration,
	}
}

func (job *AuctionSettlementCronJob) Do(ctx context.Context) {
	locked, err := job.redisClient.TryLock(ctx, common.RedisKeySettlementSweep, job.owner, job.lockTTL)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot acquire sweep lock: %v", err)
		return
	}

	if !locked {
		xcontext.Logger(ctx).Debugf("Another instance is sweeping expired auctions")
		return
	}

	defer func() {
		if err := job.redisClient.Unlock(ctx, common.RedisKeySettlementSweep, job.owner); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot release sweep lock: %v", err)
		}
	}()

	contents, err := job.contentRepo.GetExpiredAuctions(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get expired auctions: %v", err)
		return
	}

	settled := 0
	for _, content := range contents {
		summary, err := job.auctionDomain.SettleExpired(ctx, content.ID)
		if err != nil {
			// A manual settlement may have won the race since the query.
			if errorx.CodeOf(err) == errorx.NotExpired {
				continue
			}

			xcontext.Logger(ctx).Warnf("Cannot settle auction of content %s: %v", content.ID, err)
			continue
		}

		if !summary.AlreadySettled {
			settled++
		}
	}

	if settled > 0 {
		xcontext.Logger(ctx).Infof("Settled %d expired auctions", settled)
	}
}

func (job *AuctionSettlementCronJob) RunNow() bool {
	return true
}

func (job *AuctionSettlementCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
