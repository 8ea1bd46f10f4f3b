package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rahul/wayfarer/internal/observability"
	"github.com/rahul/wayfarer/internal/task"
	"github.com/rahul/wayfarer/internal/travel"
)

// TelegramGateway accepts free-text trip requests over chat and renders the
// pipeline outcome as a Markdown reply. Every message becomes an
// unstructured travel payload.
type TelegramGateway struct {
	Bot    *tgbotapi.BotAPI
	Router *task.Router
	Logger *observability.Logger
}

func NewTelegramGateway(token string, router *task.Router, logger *observability.Logger) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:    bot,
		Router: router,
		Logger: logger,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		ctx := observability.WithRequestID(context.Background(), uuid.NewString())
		payload := map[string]any{"text": update.Message.Text}

		out, err := tg.Router.Dispatch(ctx, travel.TaskType, payload)
		response := formatOutcome(out, err)

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, response)
		msg.ParseMode = "Markdown"
		if _, err := tg.Bot.Send(msg); err != nil {
			log.Printf("Error sending reply: %v", err)
		}
	}
	return nil
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}

func formatOutcome(out any, err error) string {
	if err != nil {
		return "I couldn't plan that trip right now. Please try again in a bit."
	}

	switch v := out.(type) {
	case *travel.Outcome:
		plan := v.FinalItinerary.FinalPlan
		var b strings.Builder
		fmt.Fprintf(&b, "*Trip to %s* (%s days)\n\n", plan.Destination, plan.Duration)
		for _, line := range plan.ItinerarySteps {
			fmt.Fprintf(&b, "• %s\n", line)
		}
		fmt.Fprintf(&b, "\nEstimated cost: %.0f (%s)\n", plan.TotalEstimatedCost, plan.BudgetStatus)
		fmt.Fprintf(&b, "_%s_", plan.AgentNotes)
		return b.String()
	case travel.Analysis:
		switch v.Status {
		case travel.StatusNeedsInfo:
			return fmt.Sprintf("I need a bit more detail: %s. Try something like \"Plan a 3-day trip to Goa under 15000\".",
				strings.Join(v.MissingFields, ", "))
		default:
			return "I couldn't understand that request. Tell me where you want to go, for how long, and your budget."
		}
	default:
		return "Done, but I don't know how to display this result."
	}
}
