package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/client-portal/internal/api/dto"
	"github.com/spec-kit/client-portal/internal/chatbot"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// ChatbotHandler answers FAQ questions.
type ChatbotHandler struct {
	bot *chatbot.Bot
}

// NewChatbotHandler constructs handler.
func NewChatbotHandler(bot *chatbot.Bot) *ChatbotHandler {
	return &ChatbotHandler{bot: bot}
}

// Message POST /chatbot/ask.
func (h *ChatbotHandler) Message(c *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.bot.Reply(req.Message)})
}
