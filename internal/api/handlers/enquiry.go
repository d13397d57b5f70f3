package handlers

import (
	"context"
	"net/http"
	"net/mail"

	"github.com/knottin/enquiry-api/internal/api/dto/v1/enquiry"
	"github.com/knottin/enquiry-api/internal/api/validation"
	"github.com/knottin/enquiry-api/internal/interfaces"
	"github.com/knottin/enquiry-api/internal/logging"
	"github.com/knottin/enquiry-api/internal/service"
	"github.com/knottin/enquiry-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// EnquiryConfig holds the fixed addressing for enquiry emails
type EnquiryConfig struct {
	Inbox         string
	Subject       string
	SenderName    string
	SenderAddress string
	TemplatePath  string
}

type EnquiryHandler struct {
	cfg        EnquiryConfig
	validate   *validator.Validate
	validator  interfaces.EmailValidator
	renderer   interfaces.TemplateRenderer
	dispatcher interfaces.MailDispatcher
	logger     *logging.Logger
}

func NewEnquiryHandler(
	cfg EnquiryConfig,
	emailValidator interfaces.EmailValidator,
	renderer interfaces.TemplateRenderer,
	dispatcher interfaces.MailDispatcher,
	logger *logging.Logger,
) *EnquiryHandler {
	return &EnquiryHandler{
		cfg:        cfg,
		validate:   validation.New(),
		validator:  emailValidator,
		renderer:   renderer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Submit handles POST /api/enquire
func (h *EnquiryHandler) Submit(c *gin.Context) {
	// Bots fill the hidden field; pretend success and drop the submission.
	// A body that fails here is left to the full decode below.
	var trap enquiry.Honeypot
	if err := c.ShouldBindBodyWith(&trap, binding.JSON); err == nil && trap.IsFilled() {
		h.logger.Info("Honeypot filled by %s, discarding enquiry", utils.GetRealIP(c))
		utils.HandleMessage(c, enquiry.MsgSent)
		return
	}

	var req enquiry.EnquiryRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, enquiry.MsgInvalidBody)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.logger.Debug("Enquiry rejected, missing fields: %v", validation.FieldNames(err))
		utils.HandleError(c, http.StatusBadRequest, enquiry.MsgFieldsRequired)
		return
	}

	// Outbound calls keep request values (trace, request ID) but are not cancelled by client disconnects
	ctx := context.WithoutCancel(c.Request.Context())

	verdict := h.validator.Validate(ctx, req.Email)
	if !verdict.Valid {
		h.logger.Info("Enquiry email %s rejected: %s", req.Email, verdict.Reason)
		utils.HandleError(c, http.StatusBadRequest, enquiry.RejectionMessage(string(verdict.Reason)))
		return
	}

	if len(verdict.Warnings) > 0 {
		h.logger.Warn("Suspicious lead: %s %v", req.Email, verdict.Warnings)
	}

	body, err := h.renderer.Render(h.cfg.TemplatePath, req.TemplateVariables())
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, err.Error())
		return
	}

	msg := service.OutboundMessage{
		From:     h.sender(),
		To:       h.cfg.Inbox,
		Subject:  h.cfg.Subject,
		HTMLBody: body,
	}

	// The provider's message is passed through to the caller
	if err := h.dispatcher.Send(ctx, msg); err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, err.Error())
		return
	}

	utils.HandleMessage(c, enquiry.MsgSent)
}

// sender formats the From header, e.g. "Knottin Website" <website@example.com>
func (h *EnquiryHandler) sender() string {
	addr := mail.Address{Name: h.cfg.SenderName, Address: h.cfg.SenderAddress}
	return addr.String()
}
