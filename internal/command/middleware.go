package command

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Middleware wraps a command (logging, access checks, metrics).
type Middleware func(Command) Command

// wrapped runs a custom handle func while delegating identity to the inner command.
type wrapped struct {
	Command
	handle func(ctx context.Context, req *Request) (*Response, error)
}

func (w *wrapped) Handle(ctx context.Context, req *Request) (*Response, error) {
	return w.handle(ctx, req)
}

// Unwrap returns the inner command.
func (w *wrapped) Unwrap() Command { return w.Command }

// Wrap returns a command that runs handle instead of c.Handle.
func Wrap(c Command, handle func(ctx context.Context, req *Request) (*Response, error)) Command {
	return &wrapped{Command: c, handle: handle}
}

// WithLogger logs every execution of the command with its outcome.
func WithLogger() Middleware {
	return func(c Command) Command {
		return Wrap(c, func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			resp, err := c.Handle(ctx, req)

			event := log.Info()
			if err != nil {
				event = log.Warn().Err(err)
			}
			if resp != nil {
				event = event.Str("kind", string(resp.Kind)).Int("bytes", len(resp.Payload))
			}
			event.
				Str("command", c.Name()).
				Strs("args", req.Args).
				Str("sender", req.SenderID).
				Str("username", req.Username).
				Dur("duration", time.Since(start)).
				Msg("Command handled")

			return resp, err
		})
	}
}
