package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/woozymasta/wzbot/internal/render"
	"github.com/woozymasta/wzbot/internal/stats"
)

// Provider fetches the raw MW/WZ profile document of a player.
type Provider interface {
	FetchStats(ctx context.Context, handle, platform string) (json.RawMessage, error)
}

// invalidArgs reports malformed arguments together with the expected usage.
func invalidArgs(c Command, args []string) *Response {
	return Text(fmt.Sprintf("Error: invalid arguments: %v\nUsage: %s", args, c.Usage()))
}

// UserCommand replies with a text report of one player.
type UserCommand struct {
	provider Provider
}

// NewUserCommand returns the /user command.
func NewUserCommand(p Provider) *UserCommand {
	return &UserCommand{provider: p}
}

// Name implements Command.
func (c *UserCommand) Name() string { return "user" }

// Usage implements Command.
func (c *UserCommand) Usage() string { return "/user <platform> <handle>" }

// Handle implements Command.
func (c *UserCommand) Handle(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Args) != 2 {
		return invalidArgs(c, req.Args), nil
	}

	platform, handle := req.Args[0], req.Args[1]
	data, err := c.provider.FetchStats(ctx, handle, platform)
	if err != nil {
		return nil, err
	}

	rec, err := stats.Extract(data)
	if err != nil {
		return nil, err
	}

	return Markdown(render.Text(rec)), nil
}

// UserRawCommand replies with the unmodified provider document as a JSON file.
type UserRawCommand struct {
	provider Provider
}

// NewUserRawCommand returns the /userRaw command.
func NewUserRawCommand(p Provider) *UserRawCommand {
	return &UserRawCommand{provider: p}
}

// Name implements Command.
func (c *UserRawCommand) Name() string { return "userRaw" }

// Usage implements Command.
func (c *UserRawCommand) Usage() string { return "/userRaw <platform> <handle>" }

// Handle implements Command.
func (c *UserRawCommand) Handle(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Args) != 2 {
		return invalidArgs(c, req.Args), nil
	}

	platform, handle := req.Args[0], req.Args[1]
	data, err := c.provider.FetchStats(ctx, handle, platform)
	if err != nil {
		return nil, err
	}

	out, err := render.Raw(data)
	if err != nil {
		return nil, err
	}

	return File(render.RawFileName, render.RawContentType, out), nil
}

// UserCompareCommand replies with a CSV comparing several players side by side.
type UserCompareCommand struct {
	provider Provider
}

// NewUserCompareCommand returns the /userCompare command.
func NewUserCompareCommand(p Provider) *UserCompareCommand {
	return &UserCompareCommand{provider: p}
}

// Name implements Command.
func (c *UserCompareCommand) Name() string { return "userCompare" }

// Usage implements Command.
func (c *UserCompareCommand) Usage() string {
	return "/userCompare <platform1> <handle1> [<platform2> <handle2> ...]"
}

// Handle implements Command. Arguments are (platform, handle) pairs; players are
// fetched one by one in the given order and the first failure aborts the comparison.
func (c *UserCompareCommand) Handle(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Args) < 2 || len(req.Args)%2 != 0 {
		return invalidArgs(c, req.Args), nil
	}

	pairs := len(req.Args) / 2
	names := make([]string, 0, pairs)
	records := make([]*stats.Record, 0, pairs)

	for i := 0; i < len(req.Args); i += 2 {
		platform, handle := req.Args[i], req.Args[i+1]

		data, err := c.provider.FetchStats(ctx, handle, platform)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", handle, err)
		}

		rec, err := stats.Extract(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", handle, err)
		}

		names = append(names, handle)
		records = append(records, rec)
	}

	out, err := render.Compare(names, records)
	if err != nil {
		return nil, err
	}

	return File(render.CompareFileName, render.CompareContentType, out), nil
}
