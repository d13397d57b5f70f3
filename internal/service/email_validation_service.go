package service

import (
	"context"
	"fmt"

	"github.com/knottin/enquiry-api/internal/logging"
)

// RejectReason explains why an address was refused
type RejectReason string

const (
	ReasonInvalidFormat RejectReason = "INVALID_FORMAT"
	ReasonUndeliverable RejectReason = "UNDELIVERABLE_EMAIL"
	ReasonDisposable    RejectReason = "DISPOSABLE_EMAIL"
	ReasonRole          RejectReason = "ROLE_EMAIL"
	ReasonCheckFailed   RejectReason = "CHECK_FAILED"
)

// Warning flags an accepted address that still looks questionable
type Warning string

const (
	WarningSuspiciousUsername Warning = "SUSPICIOUS_USERNAME"
	WarningHighRisk           Warning = "HIGH_RISK"
	WarningLowScore           Warning = "LOW_SCORE"
)

// lowQualityScore is the quality score under which a LOW_SCORE warning is raised
const lowQualityScore = 40

// Verdict is the validator's decision for a single address
type Verdict struct {
	Valid    bool         `json:"valid"`
	Reason   RejectReason `json:"reason,omitempty"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// FailurePolicy decides the verdict when the reputation lookup itself fails
type FailurePolicy int

const (
	// FailOpen accepts the address so an unreachable provider never blocks an enquiry
	FailOpen FailurePolicy = iota
	// FailClosed rejects the address with ReasonCheckFailed
	FailClosed
)

func (p FailurePolicy) String() string {
	if p == FailClosed {
		return "fail-closed"
	}
	return "fail-open"
}

// ReputationChecker looks up the reputation report of an address
type ReputationChecker interface {
	Check(ctx context.Context, email string) (*ReputationReport, error)
}

// EmailValidationService turns reputation reports into verdicts
type EmailValidationService struct {
	checker ReputationChecker
	policy  FailurePolicy
	logger  *logging.Logger
}

// NewEmailValidationService creates a validator with the given failure policy
func NewEmailValidationService(checker ReputationChecker, policy FailurePolicy, logger *logging.Logger) *EmailValidationService {
	return &EmailValidationService{
		checker: checker,
		policy:  policy,
		logger:  logger,
	}
}

// Policy returns the configured failure policy
func (s *EmailValidationService) Policy() FailurePolicy {
	return s.policy
}

// Validate checks an address against the reputation provider
func (s *EmailValidationService) Validate(ctx context.Context, email string) Verdict {
	report, err := s.checker.Check(ctx, email)
	if err != nil {
		s.logger.Error("Email reputation check failed (%s): %v", s.policy, err)
		return s.onFailure()
	}

	verdict, err := Classify(report)
	if err != nil {
		s.logger.Error("Email reputation report unusable (%s): %v", s.policy, err)
		return s.onFailure()
	}
	return verdict
}

func (s *EmailValidationService) onFailure() Verdict {
	if s.policy == FailClosed {
		return Verdict{Valid: false, Reason: ReasonCheckFailed}
	}
	return Verdict{Valid: true}
}

// Classify applies the rejection rules in order; the first match wins.
// A report section is only required once a rule needs it, so a bad format is
// reported even when quality and risk are absent.
func Classify(report *ReputationReport) (Verdict, error) {
	deliverability := report.Deliverability
	if deliverability == nil {
		return Verdict{}, fmt.Errorf("%w: missing email_deliverability", ErrMalformedResponse)
	}

	if !deliverability.IsFormatValid {
		return Verdict{Valid: false, Reason: ReasonInvalidFormat}, nil
	}

	if deliverability.Status != "deliverable" {
		return Verdict{Valid: false, Reason: ReasonUndeliverable}, nil
	}

	quality := report.Quality
	if quality == nil {
		return Verdict{}, fmt.Errorf("%w: missing email_quality", ErrMalformedResponse)
	}

	if quality.IsDisposable {
		return Verdict{Valid: false, Reason: ReasonDisposable}, nil
	}

	if quality.IsRole {
		return Verdict{Valid: false, Reason: ReasonRole}, nil
	}

	var warnings []Warning
	if quality.IsUsernameSuspicious {
		warnings = append(warnings, WarningSuspiciousUsername)
	}
	if report.Risk == nil {
		return Verdict{}, fmt.Errorf("%w: missing email_risk", ErrMalformedResponse)
	}
	if report.Risk.AddressRiskStatus == "high" {
		warnings = append(warnings, WarningHighRisk)
	}
	if quality.Score.Below(lowQualityScore) {
		warnings = append(warnings, WarningLowScore)
	}

	return Verdict{Valid: true, Warnings: warnings}, nil
}
