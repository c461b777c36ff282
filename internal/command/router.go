package command

import (
	"context"
	"sort"
	"strings"
)

// DefaultPrefix starts every command.
const DefaultPrefix = "/"

// Router maps command names to commands. It is filled once at startup
// and read-only afterwards, so it is safe for concurrent use.
type Router struct {
	prefix   string
	cmdIndex map[string]Command
}

// NewRouter returns an empty router for commands starting with prefix.
func NewRouter(prefix string) *Router {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Router{
		prefix:   prefix,
		cmdIndex: make(map[string]Command),
	}
}

// Register adds cmd wrapped by mws; the first middleware is the outermost.
func (r *Router) Register(cmd Command, mws ...Middleware) {
	for i := len(mws) - 1; i >= 0; i-- {
		cmd = mws[i](cmd)
	}
	r.cmdIndex[cmd.Name()] = cmd
}

// Resolve picks the handler for a message text:
// no text gives the unknown-command handler, text without the prefix gives the
// empty handler, otherwise the registered command or the unknown-command handler.
func (r *Router) Resolve(text string) Handler {
	token := firstToken(text)
	if token == "" {
		return unknownCommand
	}
	if !strings.HasPrefix(token, r.prefix) {
		return emptyHandler
	}

	cmd, ok := r.cmdIndex[strings.TrimPrefix(token, r.prefix)]
	if !ok {
		return unknownCommand
	}

	return cmd
}

// Dispatch parses req.Text into req.Command and req.Args and runs the resolved handler.
func (r *Router) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	fields := strings.Fields(req.Text)
	if len(fields) > 0 {
		req.Command = fields[0]
		req.Args = fields[1:]
	} else {
		req.Command = ""
		req.Args = nil
	}

	return r.Resolve(req.Text).Handle(ctx, req)
}

// Commands returns the registered commands sorted by name.
func (r *Router) Commands() []Command {
	list := make([]Command, 0, len(r.cmdIndex))
	for _, c := range r.cmdIndex {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})

	return list
}

func firstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// unknownCommand echoes the unrecognized command back to the sender.
var unknownCommand = HandlerFunc(func(_ context.Context, req *Request) (*Response, error) {
	return Text("unknown command: " + req.Command), nil
})

// emptyHandler ignores plain conversation.
var emptyHandler = HandlerFunc(func(context.Context, *Request) (*Response, error) {
	return &Response{Kind: KindText}, nil
})
