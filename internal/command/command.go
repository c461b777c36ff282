// Package command parses chat command lines and dispatches them to handlers.
package command

import "context"

// Kind tells the transport how to deliver a Response.
type Kind string

// Response kinds.
const (
	KindText Kind = "text"
	KindFile Kind = "file"
)

// Request is one command invocation.
type Request struct {
	// Text is the raw message text.
	Text string

	// Command is the first whitespace-delimited token of Text, as typed.
	Command string

	// Args are the remaining tokens.
	Args []string

	SenderID string
	Username string
}

// Response is produced once per invocation and consumed once by the transport.
type Response struct {
	Kind        Kind
	Payload     string
	FileName    string
	ContentType string

	// Markdown marks a text payload that is already MarkdownV2 formatted.
	Markdown bool
}

// Empty reports whether there is nothing to send back.
func (r *Response) Empty() bool {
	return r == nil || r.Payload == ""
}

// Text returns a plain text response.
func Text(payload string) *Response {
	return &Response{Kind: KindText, Payload: payload}
}

// Markdown returns a text response formatted as MarkdownV2.
func Markdown(payload string) *Response {
	return &Response{Kind: KindText, Payload: payload, Markdown: true}
}

// File returns a response delivered as a document attachment.
func File(name, contentType, payload string) *Response {
	return &Response{Kind: KindFile, Payload: payload, FileName: name, ContentType: contentType}
}

// Handler executes a request.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Command is a named handler registered in a Router.
type Command interface {
	Handler
	Name() string
	Usage() string
}
