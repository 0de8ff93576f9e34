package handlers

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voice2action/civic-service/internal/domain"
	"github.com/voice2action/civic-service/internal/service"
)

const titleMaxLen = 60

var locationPattern = regexp.MustCompile(`(?i)loc:(.*)$`)

// WebhooksHandler adapts telephony provider callbacks (Twilio/Vonage style
// form posts) into issue reports. Failures reply with an apology rather than
// an error envelope so the provider does not retry indefinitely.
type WebhooksHandler struct {
	service *service.IssueService
	logger  *zap.Logger
}

// NewWebhooksHandler constructs handler.
func NewWebhooksHandler(issueService *service.IssueService, logger *zap.Logger) *WebhooksHandler {
	return &WebhooksHandler{service: issueService, logger: logger}
}

// SMS POST /api/sms.
func (h *WebhooksHandler) SMS(c *fiber.Ctx) error {
	body := firstNonEmpty(c.FormValue("Body"), c.FormValue("text"))
	from := firstNonEmpty(c.FormValue("From"), c.FormValue("msisdn"))
	return h.textReport(c, body, from, "SMS Report", "sms")
}

// WhatsApp POST /api/whatsapp.
func (h *WebhooksHandler) WhatsApp(c *fiber.Ctx) error {
	return h.textReport(c, c.FormValue("Body"), c.FormValue("From"), "WhatsApp Report", "whatsapp")
}

// IVR POST /api/ivr. Prompts the caller and records their message.
func (h *WebhooksHandler) IVR(c *fiber.Ctx) error {
	return twiml(c, `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say>Please record your message after the beep. Press pound to finish.</Say>
  <Record action="/api/ivr/recording" maxLength="60" finishOnKey="#"/>
</Response>`)
}

// IVRRecording POST /api/ivr/recording.
func (h *WebhooksHandler) IVRRecording(c *fiber.Ctx) error {
	from := c.FormValue("From")
	description := strings.TrimSpace(c.FormValue("TranscriptionText"))
	if description == "" {
		description = "Voice message: " + c.FormValue("RecordingUrl")
	}

	issue, err := h.createFromWebhook(c, "Voice Report", description, from, nil, "ivr")
	if err != nil {
		h.logger.Error("ivr recording intake failed", zap.Error(err))
		return twiml(c, `<Response><Say>Sorry, something went wrong.</Say></Response>`)
	}
	return twiml(c, `<Response><Say>Thank you. Your tracking ID is `+issue.TrackingID+`. Goodbye.</Say></Response>`)
}

func (h *WebhooksHandler) textReport(c *fiber.Ctx, body, from, fallbackTitle, channel string) error {
	var locationText *string
	if m := locationPattern.FindStringSubmatch(body); m != nil {
		loc := strings.TrimSpace(m[1])
		locationText = &loc
	}

	title := body
	if title == "" {
		title = fallbackTitle
	}
	if runes := []rune(title); len(runes) > titleMaxLen {
		title = string(runes[:titleMaxLen])
	}
	description := body
	if description == "" {
		description = "(no description)"
	}

	issue, err := h.createFromWebhook(c, title, description, from, locationText, channel)
	if err != nil {
		h.logger.Error("webhook intake failed", zap.String("channel", channel), zap.Error(err))
		return twiml(c, `<Response><Message>Sorry, failed. Try again.</Message></Response>`)
	}
	return twiml(c, `<Response><Message>Thanks! Tracking ID: `+issue.TrackingID+`</Message></Response>`)
}

func (h *WebhooksHandler) createFromWebhook(c *fiber.Ctx, title, description, from string, locationText *string, channel string) (*domain.Issue, error) {
	input := service.IssueCreateInput{
		Title:        title,
		Description:  description,
		LocationText: locationText,
		Channel:      channel,
	}
	if from != "" {
		input.CitizenContact = &from
	}
	return h.service.CreateIssue(c.Context(), input)
}

func twiml(c *fiber.Ctx, payload string) error {
	c.Set(fiber.HeaderContentType, "text/xml")
	return c.SendString(payload)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
