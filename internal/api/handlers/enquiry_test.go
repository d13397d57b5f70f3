package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/dto/common"
	"github.com/knottin/enquiry-api/internal/logging"
	"github.com/knottin/enquiry-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	verdict service.Verdict
	calls   int
}

func (s *stubValidator) Validate(ctx context.Context, email string) service.Verdict {
	s.calls++
	return s.verdict
}

type stubRenderer struct {
	body  string
	err   error
	vars  map[string]any
	calls int
}

func (s *stubRenderer) Render(path string, variables map[string]any) (string, error) {
	s.calls++
	s.vars = variables
	return s.body, s.err
}

type stubDispatcher struct {
	err  error
	sent []service.OutboundMessage
}

func (s *stubDispatcher) Send(ctx context.Context, msg service.OutboundMessage) error {
	s.sent = append(s.sent, msg)
	return s.err
}

type failingChecker struct{}

func (failingChecker) Check(ctx context.Context, email string) (*service.ReputationReport, error) {
	return nil, errors.New("Get \"https://emailreputation.abstractapi.com/v1/\": context deadline exceeded")
}

var testEnquiryConfig = EnquiryConfig{
	Inbox:         "inbox@example.com",
	Subject:       "New Enquiry Received",
	SenderName:    "Knottin Website",
	SenderAddress: "website@example.com",
	TemplatePath:  "emailTemplateEnquire.html",
}

func testLogger() *logging.Logger {
	return logging.NewWriterLogger(io.Discard, logging.LevelError)
}

func validBody() map[string]any {
	return map[string]any{
		"parentName":       "Jane Doe",
		"email":            "jane@example.com",
		"mobileNumber":     "0400111222",
		"selectedPrograms": []string{"Playgroup", "After School Care"},
		"message":          "Looking for Tuesday spots",
		"website":          "",
	}
}

func newTestRouter(h *EnquiryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/enquire", h.Submit)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/enquire", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp common.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestSubmitSuccess(t *testing.T) {
	v := &stubValidator{verdict: service.Verdict{Valid: true}}
	r := &stubRenderer{body: "<p>rendered</p>"}
	d := &stubDispatcher{}
	router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, v, r, d, testLogger()))

	rec := postJSON(t, router, validBody())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Enquiry sent successfully", decodeMessage(t, rec))
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, map[string]any{
		"parentName":   "Jane Doe",
		"email":        "jane@example.com",
		"mobileNumber": "0400111222",
		"programs":     "Playgroup, After School Care",
		"message":      "Looking for Tuesday spots",
	}, r.vars)

	require.Len(t, d.sent, 1)
	assert.Equal(t, service.OutboundMessage{
		From:     `"Knottin Website" <website@example.com>`,
		To:       "inbox@example.com",
		Subject:  "New Enquiry Received",
		HTMLBody: "<p>rendered</p>",
	}, d.sent[0])
}

func TestSubmitHoneypot(t *testing.T) {
	bodies := map[string]map[string]any{
		"filled":               {"website": "http://spam.example"},
		"filled with padding":  {"website": "  x  "},
		"filled full form":     validBody(),
		"filled missing email": {"parentName": "Bot", "website": "bot"},
	}
	bodies["filled full form"]["website"] = "https://seo.example"

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			v := &stubValidator{verdict: service.Verdict{Valid: true}}
			r := &stubRenderer{}
			d := &stubDispatcher{}
			router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, v, r, d, testLogger()))

			rec := postJSON(t, router, body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "Enquiry sent successfully", decodeMessage(t, rec))
			assert.Zero(t, v.calls, "validator must not run")
			assert.Zero(t, r.calls, "renderer must not run")
			assert.Empty(t, d.sent, "dispatcher must not run")
		})
	}
}

func TestSubmitHoneypotWithMistypedFields(t *testing.T) {
	bodies := map[string]string{
		"numeric mobile":    `{"parentName":"Bot","mobileNumber":412345678,"website":"http://spam.example"}`,
		"programs as text":  `{"selectedPrograms":"everything","website":"spam"}`,
		"object as message": `{"message":{"html":"<a>"},"website":"spam"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			v := &stubValidator{verdict: service.Verdict{Valid: true}}
			d := &stubDispatcher{}
			router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, v, &stubRenderer{}, d, testLogger()))

			rec := postJSON(t, router, body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "Enquiry sent successfully", decodeMessage(t, rec))
			assert.Zero(t, v.calls)
			assert.Empty(t, d.sent)
		})
	}
}

func TestSubmitBlankHoneypotIsIgnored(t *testing.T) {
	v := &stubValidator{verdict: service.Verdict{Valid: true}}
	d := &stubDispatcher{}
	router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, v, &stubRenderer{}, d, testLogger()))

	body := validBody()
	body["website"] = " \t "
	rec := postJSON(t, router, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, v.calls)
	assert.Len(t, d.sent, 1)
}

func TestSubmitMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(b map[string]any)
	}{
		{"no parent name", func(b map[string]any) { delete(b, "parentName") }},
		{"empty parent name", func(b map[string]any) { b["parentName"] = "" }},
		{"no email", func(b map[string]any) { b["email"] = "" }},
		{"no mobile", func(b map[string]any) { delete(b, "mobileNumber") }},
		{"no programs", func(b map[string]any) { delete(b, "selectedPrograms") }},
		{"empty programs", func(b map[string]any) { b["selectedPrograms"] = []string{} }},
		{"no message", func(b map[string]any) { b["message"] = "" }},
		{"everything missing", func(b map[string]any) {
			for k := range b {
				delete(b, k)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &stubValidator{verdict: service.Verdict{Valid: true}}
			d := &stubDispatcher{}
			router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, v, &stubRenderer{}, d, testLogger()))

			body := validBody()
			tt.modify(body)
			rec := postJSON(t, router, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "All fields are required", decodeError(t, rec))
			assert.Zero(t, v.calls)
			assert.Empty(t, d.sent)
		})
	}
}

func TestSubmitMalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":    "parentName=Jane",
		"empty":       "",
		"wrong type":  `{"selectedPrograms": "Playgroup"}`,
		"truncated":   `{"parentName": "Jane"`,
		"odd website": `{"parentName": "Jane", "website": 42}`,
	} {
		t.Run(name, func(t *testing.T) {
			v := &stubValidator{verdict: service.Verdict{Valid: true}}
			d := &stubDispatcher{}
			router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, v, &stubRenderer{}, d, testLogger()))

			rec := postJSON(t, router, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid request body", decodeError(t, rec))
			assert.Zero(t, v.calls)
			assert.Empty(t, d.sent)
		})
	}
}

func TestSubmitRejectedEmail(t *testing.T) {
	tests := []struct {
		reason  service.RejectReason
		message string
	}{
		{service.ReasonInvalidFormat, "Please enter a valid email address."},
		{service.ReasonDisposable, "Please use a permanent email address (temporary emails are not allowed)."},
		{service.ReasonRole, "Please use a personal email address so we can contact you directly."},
		// The message table has no UNDELIVERABLE_EMAIL key, so this falls back to the generic text
		{service.ReasonUndeliverable, "Invalid email address."},
		{service.ReasonCheckFailed, "Invalid email address."},
		{service.RejectReason("SOMETHING_NEW"), "Invalid email address."},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			v := &stubValidator{verdict: service.Verdict{Valid: false, Reason: tt.reason}}
			r := &stubRenderer{}
			d := &stubDispatcher{}
			router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, v, r, d, testLogger()))

			rec := postJSON(t, router, validBody())

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec))
			assert.Zero(t, r.calls)
			assert.Empty(t, d.sent)
		})
	}
}

func TestSubmitWarningsDoNotBlock(t *testing.T) {
	v := &stubValidator{verdict: service.Verdict{
		Valid:    true,
		Warnings: []service.Warning{service.WarningHighRisk, service.WarningLowScore},
	}}
	d := &stubDispatcher{}
	router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, v, &stubRenderer{body: "x"}, d, testLogger()))

	rec := postJSON(t, router, validBody())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, d.sent, 1)
}

func TestSubmitValidatorFailureFailsOpen(t *testing.T) {
	emailValidator := service.NewEmailValidationService(failingChecker{}, service.FailOpen, testLogger())
	d := &stubDispatcher{}
	router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, emailValidator, &stubRenderer{body: "x"}, d, testLogger()))

	rec := postJSON(t, router, validBody())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Enquiry sent successfully", decodeMessage(t, rec))
	assert.Len(t, d.sent, 1)
}

func TestSubmitValidatorFailureFailClosed(t *testing.T) {
	emailValidator := service.NewEmailValidationService(failingChecker{}, service.FailClosed, testLogger())
	d := &stubDispatcher{}
	router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, emailValidator, &stubRenderer{body: "x"}, d, testLogger()))

	rec := postJSON(t, router, validBody())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email address.", decodeError(t, rec))
	assert.Empty(t, d.sent)
}

func TestSubmitMissingTemplateStillSends(t *testing.T) {
	cfg := testEnquiryConfig
	cfg.TemplatePath = filepath.Join(t.TempDir(), "does-not-exist.html")
	d := &stubDispatcher{}
	handler := NewEnquiryHandler(cfg, &stubValidator{verdict: service.Verdict{Valid: true}},
		service.NewTemplateService(testLogger()), d, testLogger())

	rec := postJSON(t, newTestRouter(handler), validBody())

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, d.sent, 1)
	assert.Equal(t, "", d.sent[0].HTMLBody)
}

func TestSubmitRendersTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emailTemplateEnquire.html")
	require.NoError(t, os.WriteFile(path, []byte(
		"<p>{{parentName}}</p><p>{{email}}</p><p>{{mobileNumber}}</p><p>{{programs}}</p><p>{{message}}</p>",
	), 0o644))

	cfg := testEnquiryConfig
	cfg.TemplatePath = path
	d := &stubDispatcher{}
	handler := NewEnquiryHandler(cfg, &stubValidator{verdict: service.Verdict{Valid: true}},
		service.NewTemplateService(testLogger()), d, testLogger())

	rec := postJSON(t, newTestRouter(handler), validBody())

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, d.sent, 1)
	body := d.sent[0].HTMLBody
	assert.Equal(t, "<p>Jane Doe</p><p>jane@example.com</p><p>0400111222</p><p>Playgroup, After School Care</p><p>Looking for Tuesday spots</p>", body)
	for _, value := range []string{"Jane Doe", "jane@example.com", "0400111222", "Playgroup, After School Care", "Looking for Tuesday spots"} {
		assert.Equal(t, 1, strings.Count(body, value))
	}
}

func TestSubmitTemplateError(t *testing.T) {
	d := &stubDispatcher{}
	r := &stubRenderer{err: errors.New("template error: unterminated \"if\" block")}
	router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, &stubValidator{verdict: service.Verdict{Valid: true}}, r, d, testLogger()))

	rec := postJSON(t, router, validBody())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "template error: unterminated \"if\" block", decodeError(t, rec))
	assert.Empty(t, d.sent)
}

func TestSubmitDispatchError(t *testing.T) {
	d := &stubDispatcher{err: &service.DispatchError{
		Transport: "smtp",
		Err:       errors.New("Invalid login: 535-5.7.8 Username and Password not accepted"),
	}}
	router := newTestRouter(NewEnquiryHandler(testEnquiryConfig, &stubValidator{verdict: service.Verdict{Valid: true}}, &stubRenderer{}, d, testLogger()))

	rec := postJSON(t, router, validBody())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Invalid login: 535-5.7.8 Username and Password not accepted", decodeError(t, rec))
}
