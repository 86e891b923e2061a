package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/creatorx-lab/settlement/internal/domain/cron"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	if err := s.loadPublisher(); err != nil {
		return err
	}
	if err := s.loadRedisClient(); err != nil {
		return err
	}
	s.loadRepos()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewAuctionSettlementCronJob(s.ctx, s.contentRepo, s.auctionDomain, s.redisClient))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		xcontext.Logger(s.ctx).Infof("Stopping cron jobs")
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
