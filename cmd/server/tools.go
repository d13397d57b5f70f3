package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/knottin/enquiry-api/internal/api/dto/v1/enquiry"
	"github.com/knottin/enquiry-api/internal/service"
	"github.com/spf13/cobra"
)

var checkEmailCmd = &cobra.Command{
	Use:   "check-email <address>",
	Short: "Screen an email address the way the enquiry endpoint does",
	Long: `Looks the address up with the email reputation API and prints the verdict.

Example:
  enquiry-api check-email parent@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reputation := service.NewReputationService(service.ReputationConfig{
			APIKey:  cfg.AbstractAPIKey,
			BaseURL: cfg.ReputationURL,
			Timeout: cfg.ReputationTimeout,
		})

		// Report lookup failures instead of masking them
		validator := service.NewEmailValidationService(reputation, service.FailClosed, logger)

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = " Checking " + args[0] + "..."
		s.Start()
		verdict := validator.Validate(context.WithoutCancel(cmd.Context()), args[0])
		s.Stop()

		out := cmd.OutOrStdout()
		if !verdict.Valid {
			fmt.Fprintf(out, "✗ %s rejected: %s\n", args[0], verdict.Reason)
			fmt.Fprintf(out, "  visitor sees: %q\n", enquiry.RejectionMessage(string(verdict.Reason)))
			return nil
		}

		fmt.Fprintf(out, "✓ %s accepted\n", args[0])
		if len(verdict.Warnings) > 0 {
			warnings := make([]string, 0, len(verdict.Warnings))
			for _, w := range verdict.Warnings {
				warnings = append(warnings, string(w))
			}
			fmt.Fprintf(out, "  warnings: %s\n", strings.Join(warnings, ", "))
		}
		return nil
	},
}

var renderTemplateCmd = &cobra.Command{
	Use:   "render-template",
	Short: "Render the enquiry email template to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("template")
		if path == "" {
			path = cfg.EnquiryTemplatePath
		}

		req := &enquiry.EnquiryRequest{}
		req.ParentName, _ = cmd.Flags().GetString("parent-name")
		req.Email, _ = cmd.Flags().GetString("email")
		req.MobileNumber, _ = cmd.Flags().GetString("mobile")
		req.SelectedPrograms, _ = cmd.Flags().GetStringSlice("program")
		req.Message, _ = cmd.Flags().GetString("message")

		body, err := service.NewTemplateService(logger).Render(path, req.TemplateVariables())
		if err != nil {
			return err
		}
		if body == "" {
			return fmt.Errorf("template %s rendered empty", path)
		}

		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	},
}
