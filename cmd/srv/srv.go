package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/creatorx-lab/settlement/config"
	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/internal/domain"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/kafka"
	"github.com/creatorx-lab/settlement/pkg/logger"
	"github.com/creatorx-lab/settlement/pkg/pubsub"
	"github.com/creatorx-lab/settlement/pkg/token"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/creatorx-lab/settlement/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context

	publisher   pubsub.Publisher
	redisClient xredis.Client

	accountRepo        repository.AccountRepository
	contentRepo        repository.ContentRepository
	auctionHistoryRepo repository.AuctionHistoryRepository
	bidRepo            repository.BidRepository
	rewardRepo         repository.RewardRepository
	lotteryRepo        repository.LotteryRepository
	settlementTxRepo   repository.SettlementTransactionRepository

	accountDomain domain.AccountDomain
	contentDomain domain.ContentDomain
	auctionDomain domain.AuctionDomain
	bidDomain     domain.BidDomain
	rewardDomain  domain.RewardDomain
	lotteryDomain domain.LotteryDomain
	claimDomain   domain.ClaimDomain
}

// load prepares the context shared by every command: configs, logger,
// database and snowflake node.
func (s *srv) load(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return fmt.Errorf("cannot load configs: %w", err)
	}

	s.ctx = xcontext.WithConfigs(cctx.Context, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewRotateLogger(logger.ParseLevel(cfg.Log.Level), logger.RotateConfigs{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   true,
	}))

	db, err := s.newDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	s.ctx = xcontext.WithDB(s.ctx, db)

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)

	return nil
}

func (s *srv) newDatabase(cfg config.DatabaseConfigs) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch cfg.Driver {
	case "mysql":
		return gorm.Open(mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), gormCfg)
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.ConnectionString()), gormCfg)
		if err != nil {
			return nil, err
		}

		// sqlite has no row lock, a single connection serializes writers.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)

		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("Kafka is not configured, settlement events are dropped")
		s.publisher = pubsub.NewNopPublisher()
		return nil
	}

	publisher, err := kafka.NewPublisher("settlement", strings.Split(cfg.Addr, ","))
	if err != nil {
		return fmt.Errorf("cannot connect to kafka: %w", err)
	}

	s.publisher = publisher
	return nil
}

func (s *srv) loadRedisClient() error {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx, xcontext.Configs(s.ctx).Redis.Addr)
	if err != nil {
		return fmt.Errorf("cannot connect to redis: %w", err)
	}

	return nil
}

func (s *srv) loadRepos() {
	s.accountRepo = repository.NewAccountRepository()
	s.contentRepo = repository.NewContentRepository()
	s.auctionHistoryRepo = repository.NewAuctionHistoryRepository()
	s.bidRepo = repository.NewBidRepository()
	s.rewardRepo = repository.NewRewardRepository()
	s.lotteryRepo = repository.NewLotteryRepository()
	s.settlementTxRepo = repository.NewSettlementTransactionRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)
	referralVerifier := common.NewReferralVerifier(s.accountRepo,
		token.NewEngine[model.ReferralToken](cfg.Referral.TokenSecret))
	platformVerifier := common.NewPlatformVerifier(s.accountRepo)

	s.accountDomain = domain.NewAccountDomain(s.accountRepo)
	s.contentDomain = domain.NewContentDomain(s.contentRepo)
	s.auctionDomain = domain.NewAuctionDomain(s.contentRepo, s.auctionHistoryRepo, s.bidRepo,
		s.rewardRepo, s.lotteryRepo, s.settlementTxRepo, s.publisher)
	s.bidDomain = domain.NewBidDomain(s.contentRepo, s.auctionHistoryRepo, s.bidRepo,
		s.settlementTxRepo, referralVerifier)
	s.rewardDomain = domain.NewRewardDomain(s.accountRepo, s.contentRepo, s.rewardRepo,
		s.lotteryRepo, s.settlementTxRepo, referralVerifier, s.publisher)
	s.lotteryDomain = domain.NewLotteryDomain(s.accountRepo, s.contentRepo, s.lotteryRepo, platformVerifier)
	s.claimDomain = domain.NewClaimDomain(s.accountRepo, s.rewardRepo, s.lotteryRepo,
		s.settlementTxRepo, platformVerifier, s.publisher)
}
