// Package telegram connects the command router to a Telegram bot account.
// Updates are received by long polling and handed to a fixed pool of workers;
// each worker authorizes the sender, dispatches the command and sends the reply.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/wzbot/internal/auth"
	"github.com/woozymasta/wzbot/internal/command"
	"github.com/woozymasta/wzbot/internal/render"
)

// API is the part of *tgbotapi.BotAPI used by Bot.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher runs a command request, usually a *command.Router.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *command.Request) (*command.Response, error)
}

// Options configure a Bot.
type Options struct {
	// Workers is the number of messages handled concurrently.
	Workers int

	// PollTimeout is the long polling timeout of getUpdates.
	PollTimeout time.Duration
}

// Bot holds the transport, the router and the allow-list shared by all workers.
type Bot struct {
	api     API
	router  Dispatcher
	allowed *auth.AllowList

	// queue passes received messages to the workers.
	queue chan *tgbotapi.Message

	// wg waits for workers to drain the queue on shutdown.
	wg sync.WaitGroup

	workers     int
	pollTimeout time.Duration
}

// New creates a Bot. Messages of senders missing from allowed are dropped.
func New(api API, router Dispatcher, allowed *auth.AllowList, opts Options) *Bot {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 60 * time.Second
	}

	return &Bot{
		api:         api,
		router:      router,
		allowed:     allowed,
		workers:     opts.Workers,
		pollTimeout: opts.PollTimeout,
		queue:       make(chan *tgbotapi.Message, opts.Workers*4),
	}
}

// Start polls updates until ctx is canceled or the update channel is closed.
// Messages already queued are handled before Start returns.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.pollTimeout / time.Second)
	updates := b.api.GetUpdatesChan(u)

	// Queued messages outlive ctx so that accepted commands still get their reply
	b.startWorkers(context.WithoutCancel(ctx))
	defer b.stopWorkers()

	log.Info().Int("workers", b.workers).Msg("Telegram polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info().Msg("Telegram polling stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			select {
			case b.queue <- update.Message:
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				return nil
			}
		}
	}
}

// startWorkers launches the worker pool.
func (b *Bot) startWorkers(ctx context.Context) {
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.worker(ctx)
	}
}

// stopWorkers closes the queue and waits for workers to finish it.
func (b *Bot) stopWorkers() {
	close(b.queue)
	b.wg.Wait()
}

func (b *Bot) worker(ctx context.Context) {
	defer b.wg.Done()

	for msg := range b.queue {
		b.handle(ctx, msg)
	}
}

// handle processes one inbound message end to end. It never panics.
func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	senderID := strconv.FormatInt(msg.From.ID, 10)
	if !b.allowed.Allowed(senderID) {
		log.Debug().Str("sender", senderID).Str("username", msg.From.UserName).Msg("Dropped message from unauthorized sender")
		return
	}

	chatID := msg.Chat.ID

	if kind := messageType(msg); kind != "text" {
		b.sendText(chatID, "Unsupported type: "+kind)
		return
	}

	resp, err := b.dispatch(ctx, &command.Request{
		Text:     msg.Text,
		SenderID: senderID,
		Username: msg.From.UserName,
	})
	if err != nil {
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	b.reply(chatID, resp)
}

// dispatch runs the router and turns a panic into an error.
func (b *Bot) dispatch(ctx context.Context, req *command.Request) (resp *command.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("text", req.Text).Msg("Command handler panicked")
			resp, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	return b.router.Dispatch(ctx, req)
}

// reply delivers resp to the chat. An empty response sends nothing.
func (b *Bot) reply(chatID int64, resp *command.Response) {
	if resp.Empty() {
		return
	}

	switch resp.Kind {
	case command.KindFile:
		b.sendFile(chatID, resp)
	default:
		b.sendMarkdown(chatID, resp)
	}
}

// sendText sends text without any parse mode.
func (b *Bot) sendText(chatID int64, text string) {
	b.send(chatID, tgbotapi.NewMessage(chatID, text))
}

// sendMarkdown sends resp as MarkdownV2. Payloads not formatted as such are escaped.
func (b *Bot) sendMarkdown(chatID int64, resp *command.Response) {
	text := resp.Payload
	if !resp.Markdown {
		text = render.EscapeMarkdown(text)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	b.send(chatID, msg)
}

func (b *Bot) send(chatID int64, msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendFile(chatID int64, resp *command.Response) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  resp.FileName,
		Bytes: []byte(resp.Payload),
	})

	if _, err := b.api.Send(doc); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Str("file", resp.FileName).Msg("Failed to send document")
		return
	}

	log.Debug().
		Int64("chat", chatID).
		Str("file", resp.FileName).
		Str("content_type", resp.ContentType).
		Int("bytes", len(resp.Payload)).
		Msg("Document sent")
}
