package lexdoc

import (
	"fmt"
	"regexp"
	"strings"
)

// CELEXPattern matches CELEX numbers such as 32024R0001 or 52023PC0123.
var CELEXPattern = regexp.MustCompile(`^[0-9CE]\d{4}[A-Z]{1,2}\d{1,4}[0-9A-Z()_.\-]*$`)

// Violation describes one rule a document breaks.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationResult is either accepted, holding the document, or rejected,
// holding every violation found.
type ValidationResult struct {
	Document   *Document
	Violations []Violation
}

// Accepted reports whether the document passed validation.
func (r *ValidationResult) Accepted() bool {
	return len(r.Violations) == 0
}

// Err returns an EINVALID error listing all violations, or nil if accepted.
func (r *ValidationResult) Err() error {
	if r.Accepted() {
		return nil
	}
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.String()
	}
	return Errorf(EINVALID, "document rejected: %s", strings.Join(msgs, "; "))
}

// Validator checks documents against the required-field contract.
type Validator struct {
	// IDPattern is the format the stable identifier must match.
	IDPattern *regexp.Regexp
}

// NewValidator returns a Validator for CELEX identifiers.
func NewValidator() *Validator {
	return &Validator{IDPattern: CELEXPattern}
}

// Validate checks doc and accumulates every violation into the result.
// A missing reference number is not a violation; some act types have none.
func (v *Validator) Validate(doc *Document) *ValidationResult {
	var violations []Violation
	add := func(field, format string, args ...any) {
		violations = append(violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case strings.TrimSpace(doc.ID) == "":
		add("id", "stable identifier required")
	case v.IDPattern != nil && !v.IDPattern.MatchString(doc.ID):
		add("id", "identifier %q does not match %s", doc.ID, v.IDPattern)
	}
	if strings.TrimSpace(doc.Title) == "" {
		add("title", "title required")
	}
	if strings.TrimSpace(doc.Content) == "" {
		add("content", "content required")
	}
	if len(doc.URLs) == 0 {
		add("urls", "at least one reference URL required")
	}
	if doc.DocumentDate != nil && doc.EffectiveDate != nil && doc.EffectiveDate.Before(*doc.DocumentDate) {
		add("effective_date/document_date", "effective date %s is before document date %s",
			doc.EffectiveDate.Format(DateLayout), doc.DocumentDate.Format(DateLayout))
	}

	if len(violations) > 0 {
		return &ValidationResult{Violations: violations}
	}
	return &ValidationResult{Document: doc}
}
