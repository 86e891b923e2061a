package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	BidTotal                   = "bid_total"
	AuctionSettlementTotal     = "auction_settlement_total"
	RewardIssuedTotal          = "reward_issued_total"
	RewardIssuedAmount         = "reward_issued_amount"
	ClaimTotal                 = "claim_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		BidTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BidTotal,
			Help: "Count of placed bids by result",
		}, []string{"result"}),
		AuctionSettlementTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: AuctionSettlementTotal,
			Help: "Count of settled auction rounds by outcome and trigger",
		}, []string{"outcome", "trigger"}),
		RewardIssuedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RewardIssuedTotal,
			Help: "Count of written reward rows",
		}, []string{"kind"}),
		RewardIssuedAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RewardIssuedAmount,
			Help: "Sum of gross amount of written reward rows in minimal units",
		}, []string{"kind"}),
		ClaimTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ClaimTotal,
			Help: "Count of claim batches by source, role and result",
		}, []string{"source", "role", "result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)
