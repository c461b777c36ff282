package command

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// TooManyRequests is the reply sent to a sender over its command limit.
const TooManyRequests = "Too many requests, try again later"

const (
	senderIdle  = 10 * time.Minute
	senderSweep = 5 * time.Minute
)

// WithSenderLimit allows each sender at most count invocations per window.
// A non-positive count or window disables the limit.
// Rejected requests are answered with TooManyRequests and never reach the command.
func WithSenderLimit(count int, window time.Duration) Middleware {
	if count <= 0 || window <= 0 {
		return func(c Command) Command { return c }
	}

	type sender struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu        sync.Mutex
		senders   = make(map[string]*sender)
		lastSweep = time.Now()
	)

	limit := rate.Limit(float64(count) / window.Seconds())

	allow := func(id string) bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		// Drop idle senders
		if now.Sub(lastSweep) > senderSweep {
			for key, s := range senders {
				if now.Sub(s.lastSeen) > senderIdle {
					delete(senders, key)
				}
			}
			lastSweep = now
		}

		s, found := senders[id]
		if !found {
			s = &sender{limiter: rate.NewLimiter(limit, count)}
			senders[id] = s
		}
		s.lastSeen = now

		return s.limiter.Allow()
	}

	return func(c Command) Command {
		return Wrap(c, func(ctx context.Context, req *Request) (*Response, error) {
			if !allow(req.SenderID) {
				log.Debug().Str("sender", req.SenderID).Str("command", c.Name()).Msg("Sender rate limited")
				return Text(TooManyRequests), nil
			}

			return c.Handle(ctx, req)
		})
	}
}
