package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/knottin/enquiry-api/internal/logging"
	"github.com/osteele/liquid"
)

// htmlEscaper escapes the same characters as a Handlebars {{ }} expression
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// TemplateService renders HTML email templates from disk
type TemplateService struct {
	engine *liquid.Engine
	logger *logging.Logger
}

// NewTemplateService creates a new template renderer
func NewTemplateService(logger *logging.Logger) *TemplateService {
	return &TemplateService{
		engine: liquid.NewEngine(),
		logger: logger,
	}
}

// Render reads the template at path and substitutes {{name}} placeholders.
//
// The file is read on every call. If it cannot be read the failure is logged and
// an empty body is returned without error. Missing variables render empty and
// string values are HTML-escaped.
func (s *TemplateService) Render(path string, variables map[string]any) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("Error reading email template file %s: %v", path, err)
		return "", nil
	}

	bindings := make(liquid.Bindings, len(variables))
	for name, value := range variables {
		if str, ok := value.(string); ok {
			bindings[name] = htmlEscaper.Replace(str)
			continue
		}
		bindings[name] = value
	}

	out, srcErr := s.engine.ParseAndRenderString(string(source), bindings)
	if srcErr != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, path, srcErr)
	}

	return out, nil
}
