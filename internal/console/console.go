// Package console runs commands typed in a terminal through the same router
// the chat transport uses, for local testing without a bot account.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/woozymasta/wzbot/internal/command"
)

// Prompt is printed before every line is read.
const Prompt = "Command: "

// LocalSender identifies console requests in logs.
const LocalSender = "local"

// Dispatcher runs a command request, usually a *command.Router.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *command.Request) (*command.Response, error)
}

// Run reads commands from in line by line and writes every response to out.
// It returns on an empty line, at end of input or when ctx is canceled,
// even while waiting for input. Handler errors are printed and do not stop the loop.
func Run(ctx context.Context, in io.Reader, out io.Writer, router Dispatcher) error {
	lines, readErr := readLines(ctx, in)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if _, err := fmt.Fprint(out, Prompt); err != nil {
			return err
		}

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			return <-readErr
		}
		if line == "" {
			return nil
		}

		resp, err := router.Dispatch(ctx, &command.Request{
			Text:     line,
			SenderID: LocalSender,
			Username: LocalSender,
		})
		if err != nil {
			if _, err := fmt.Fprintf(out, "Error: %v\n", err); err != nil {
				return err
			}
			continue
		}

		if err := write(out, resp); err != nil {
			return err
		}
	}
}

// readLines scans in on its own goroutine, since a blocked read cannot observe ctx.
// lines is closed at end of input, then the scan error is delivered on the second channel.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func write(out io.Writer, resp *command.Response) error {
	if resp.Empty() {
		_, err := fmt.Fprintln(out, "(no reply)")
		return err
	}

	if resp.Kind == command.KindFile {
		if _, err := fmt.Fprintf(out, "[%s %s, %d bytes]\n", resp.FileName, resp.ContentType, len(resp.Payload)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(out, resp.Payload)
	return err
}
