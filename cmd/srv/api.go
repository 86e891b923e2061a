package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creatorx-lab/settlement/internal/middleware"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/pkg/prometheus"
	"github.com/creatorx-lab/settlement/pkg/router"
	"github.com/creatorx-lab/settlement/pkg/token"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	if err := s.loadPublisher(); err != nil {
		return err
	}
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx).ApiServer
	server := &http.Server{
		Addr:              cfg.Host + ":" + cfg.Port,
		Handler:           s.newRouter().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) newRouter() *router.Router {
	r := router.New(s.ctx)
	r.AddCloser(middleware.Logger())
	r.AddCloser(middleware.Prometheus())
	r.Handle("/metrics", prometheus.NewHandler())

	authVerifier := middleware.NewAuthVerifier(s.accountRepo,
		token.NewEngine[model.AccessToken](xcontext.Configs(s.ctx).Auth.TokenSecret))

	// These following APIs need an access token.
	authRouter := r.Branch()
	authRouter.Before(authVerifier.Middleware())
	{
		// Account API
		router.GET(authRouter, "/getMyAccount", s.accountDomain.GetMyAccount)

		// Content API
		router.POST(authRouter, "/createContent", s.contentDomain.Create)
		router.GET(authRouter, "/getReferralToken", s.rewardDomain.GetReferralToken)

		// Auction API
		router.POST(authRouter, "/startAuction", s.auctionDomain.Start)
		router.POST(authRouter, "/settleAuction", s.auctionDomain.Settle)
		router.POST(authRouter, "/placeBid", s.bidDomain.PlaceBid)

		// Reward API
		router.POST(authRouter, "/tip", s.rewardDomain.Tip)

		// Claim API
		router.POST(authRouter, "/claim", s.claimDomain.Claim)
		router.GET(authRouter, "/getClaimable", s.claimDomain.GetClaimable)

		// Lottery API
		router.POST(authRouter, "/assignLotteryWinner", s.lotteryDomain.AssignWinner)
	}

	// Public API.
	router.GET(r, "/getContent", s.contentDomain.Get)
	router.GET(r, "/getBids", s.bidDomain.GetBids)
	router.GET(r, "/getAuctionHistory", s.auctionDomain.GetHistory)
	router.GET(r, "/getLotteryPools", s.lotteryDomain.GetPools)

	return r
}
