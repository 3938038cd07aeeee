package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/router"
	"github.com/versestream/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)

		req := xcontext.HTTPRequest(ctx)
		code := 0
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}

		// Route patterns keep the label cardinality bounded.
		path := xcontext.Route(ctx)
		if path == "" {
			path = req.URL.Path
		}

		for key, counter := range common.PromCounters {
			switch key {
			case common.HTTPRequestTotal:
				counter.WithLabelValues(req.Method, path, fmt.Sprint(code)).Inc()
			}
		}

		for key, histogram := range common.PromHistograms {
			switch key {
			case common.HTTPRequestDurationSeconds:
				histogram.WithLabelValues(req.Method, path, fmt.Sprint(code)).
					Observe(time.Since(startTime).Seconds())
			}
		}
	}
}
