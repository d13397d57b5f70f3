package enquiry

import (
	"strings"
)

// Response messages
const (
	MsgSent           = "Enquiry sent successfully"
	MsgFieldsRequired = "All fields are required"
	MsgInvalidBody    = "Invalid request body"
	MsgInvalidEmail   = "Invalid email address."
)

// rejectionMessages maps validator reasons to user-facing text.
// The undeliverable entry is keyed "UNDELIVERABLE" while the validator reports
// "UNDELIVERABLE_EMAIL", so undeliverable addresses get MsgInvalidEmail. Kept as
// deployed; changing it changes the copy users see.
var rejectionMessages = map[string]string{
	"INVALID_FORMAT":   "Please enter a valid email address.",
	"DISPOSABLE_EMAIL": "Please use a permanent email address (temporary emails are not allowed).",
	"UNDELIVERABLE":    "This email address cannot receive emails. Please check and try again.",
	"ROLE_EMAIL":       "Please use a personal email address so we can contact you directly.",
}

// RejectionMessage returns the user-facing message for a rejection reason
func RejectionMessage(reason string) string {
	if msg, ok := rejectionMessages[reason]; ok {
		return msg
	}
	return MsgInvalidEmail
}

// EnquiryRequest represents an enquiry form submission
type EnquiryRequest struct {
	ParentName       string   `json:"parentName" validate:"required"`
	Email            string   `json:"email" validate:"required"`
	MobileNumber     string   `json:"mobileNumber" validate:"required"`
	SelectedPrograms []string `json:"selectedPrograms" validate:"required,min=1"`
	Message          string   `json:"message" validate:"required"`
	// Website is a hidden honeypot field; people leave it empty
	Website string `json:"website"`
}

// Honeypot is decoded before the full request so that bots sending
// mistyped fields are still discarded silently
type Honeypot struct {
	Website string `json:"website"`
}

// IsFilled reports whether the hidden website field was filled in
func (h *Honeypot) IsFilled() bool {
	return strings.TrimSpace(h.Website) != ""
}

// Programs returns the selected programs joined for display
func (r *EnquiryRequest) Programs() string {
	return strings.Join(r.SelectedPrograms, ", ")
}

// TemplateVariables returns the values substituted into the email template
func (r *EnquiryRequest) TemplateVariables() map[string]any {
	return map[string]any{
		"parentName":   r.ParentName,
		"email":        r.Email,
		"mobileNumber": r.MobileNumber,
		"programs":     r.Programs(),
		"message":      r.Message,
	}
}
