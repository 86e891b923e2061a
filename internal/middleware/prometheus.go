package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/router"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
)

// Prometheus counts requests and observes their latency by path and error
// code, 0 for a success.
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		code := "0"
		if err := xcontext.Error(ctx); err != nil {
			code = fmt.Sprint(errorx.CodeOf(err))
		}

		path := xcontext.HTTPRequest(ctx).URL.Path
		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(path, code).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(path, code).
			Observe(time.Since(xcontext.StartTime(ctx)).Seconds())
	}
}
