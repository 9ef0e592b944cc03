package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/kpigpt/internal/config"
	"github.com/sandevgo/kpigpt/internal/service/chat"
	"github.com/sandevgo/kpigpt/pkg/conv"
	"github.com/sandevgo/kpigpt/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot          *tele.Bot
	orchestrator *chat.Orchestrator
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	orchestrator *chat.Orchestrator,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:          b,
		orchestrator: orchestrator,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle("/reset", bot.handleReset)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send("Hello! I'm KPI GPT, the assistant for Khulna Polytechnic Institute. Ask me about teachers, departments, or contact information.")
}

func (b *Bot) handleReset(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	if err := b.orchestrator.ResetSession(ctx, sessionID(c)); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to reset session")
		return c.Send("Couldn't reset the conversation, please try again.")
	}
	return c.Send("Conversation cleared. What would you like to know?")
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	result, err := b.orchestrator.HandleChatTurn(ctx, sessionID(c), c.Text())
	if err != nil {
		logger.Error().Err(err).Msg("chat turn failed")
		return c.Send("Sorry, I'm having trouble reaching the knowledge base right now. Please try again in a moment.")
	}

	htmlContent := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(result.Answer)))
	if htmlContent == "" {
		return nil
	}
	if err := c.Send(htmlContent, tele.ModeHTML); err != nil {
		logger.Error().Err(err).Msg("failed to send telegram message")
		return err
	}

	if len(result.SuggestedFollowups) > 0 {
		var sb strings.Builder
		sb.WriteString("You could also ask:\n")
		for _, q := range result.SuggestedFollowups {
			sb.WriteString("• " + q + "\n")
		}
		_ = c.Send(sb.String())
	}
	return nil
}

func sessionID(c tele.Context) string {
	return fmt.Sprintf("telegram-%d", c.Chat().ID)
}
