// Package validation checks projects before they are rendered or exported.
//
// Lint never blocks anything: a project with warnings still renders and
// packs normally. Warnings point at values that are likely to produce a weak
// prompt or a KDP listing that will be rejected (too many keywords, an empty
// main idea, an image that is not an image).
//
// CheckPatch is stricter. It is used by the CLI on user-typed flag values,
// where an unknown enum value is almost always a typo, and reports errors.
package validation

import (
	"fmt"
	"strings"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
)

// MaxKeywords is the number of keywords KDP accepts per listing
const MaxKeywords = 7

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid    bool                `json:"valid" yaml:"valid"`
	Errors   []ValidationError   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field" yaml:"field"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

// ValidationWarning represents a field validation warning
type ValidationWarning struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Rule inspects a project and records warnings on result
type Rule struct {
	Name  string
	Check func(p models.Project, result *ValidationResult)
}

// Validator runs a list of lint rules
type Validator struct {
	rules []Rule
}

// NewValidator creates a validator with the built-in rules
func NewValidator() *Validator {
	v := &Validator{}
	v.registerBuiltinRules()
	return v
}

// RegisterRule appends a rule; rules run in registration order
func (v *Validator) RegisterRule(rule Rule) {
	v.rules = append(v.rules, rule)
}

// Lint runs every rule against p. The result is always Valid.
func (v *Validator) Lint(p models.Project) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Warnings: []ValidationWarning{},
	}
	for _, rule := range v.rules {
		rule.Check(p, result)
	}
	return result
}

func (r *ValidationResult) warn(field, message, value string) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Message: message, Value: value})
}

func (r *ValidationResult) fail(field, code, message, value string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: message, Value: value})
}

func (v *Validator) registerBuiltinRules() {
	v.RegisterRule(Rule{
		Name: "required_text",
		Check: func(p models.Project, result *ValidationResult) {
			if strings.TrimSpace(p.Title) == "" {
				result.warn("title", "Title is empty", "")
			}
			if strings.TrimSpace(p.BookPrompt.MainIdea) == "" {
				result.warn("bookPrompt.mainIdea", "Main idea is empty; the book prompt will have nothing to expand", "")
			}
		},
	})

	v.RegisterRule(Rule{
		Name: "keyword_limit",
		Check: func(p models.Project, result *ValidationResult) {
			if n := len(p.Metadata.Keywords); n > MaxKeywords {
				result.warn("metadata.keywords",
					fmt.Sprintf("KDP accepts %d keywords, project has %d", MaxKeywords, n),
					strings.Join(p.Metadata.Keywords[MaxKeywords:], ", "))
			}
		},
	})

	v.RegisterRule(Rule{
		Name: "custom_style",
		Check: func(p models.Project, result *ValidationResult) {
			if p.BookPrompt.WritingStyle == models.WritingStyleCustom && strings.TrimSpace(p.BookPrompt.CustomStyle) == "" {
				result.warn("bookPrompt.customStyle", "Writing style is custom but no custom style is described", "")
			}
		},
	})

	v.RegisterRule(Rule{
		Name: "enum_values",
		Check: func(p models.Project, result *ValidationResult) {
			for _, f := range enumFields(p) {
				if f.value != "" && !f.valid {
					result.warn(f.field, fmt.Sprintf("Unknown value; expected one of: %s", strings.Join(f.options, ", ")), f.value)
				}
			}
		},
	})

	v.RegisterRule(Rule{
		Name: "reference_images",
		Check: func(p models.Project, result *ValidationResult) {
			primaries := 0
			for _, img := range p.ReferenceImages {
				if img.IsPrimary {
					primaries++
				}
				mediaType := models.ImageMediaType(img.DataURL)
				if !strings.HasPrefix(mediaType, "image/") {
					result.warn("referenceImages", fmt.Sprintf("%s does not hold image data", img.Name), mediaType)
				}
			}
			if primaries > 1 {
				result.warn("referenceImages", fmt.Sprintf("%d images are marked primary; prompts list each as PRIMARY", primaries), "")
			}
		},
	})
}

type enumField struct {
	field   string
	value   string
	valid   bool
	options []string
}

func enumFields(p models.Project) []enumField {
	return []enumField{
		{"language", string(p.Language), p.Language.Valid(), models.Strings(models.AllLanguages())},
		{"tone", string(p.Tone), p.Tone.Valid(), models.Strings(models.AllTones())},
		{"desiredOutput", string(p.DesiredOutput), p.DesiredOutput.Valid(), models.Strings(models.AllDesiredOutputs())},
		{"bookPrompt.writingStyle", string(p.BookPrompt.WritingStyle), p.BookPrompt.WritingStyle.Valid(), models.Strings(models.AllWritingStyles())},
		{"bookPrompt.outputFormat", string(p.BookPrompt.OutputFormat), p.BookPrompt.OutputFormat.Valid(), models.Strings(models.AllOutputFormats())},
		{"coverPrompt.visualStyle", string(p.CoverPrompt.VisualStyle), p.CoverPrompt.VisualStyle.Valid(), models.Strings(models.AllVisualStyles())},
		{"coverPrompt.mood", string(p.CoverPrompt.Mood), p.CoverPrompt.Mood.Valid(), models.Strings(models.AllMoods())},
		{"coverPrompt.trimSize", string(p.CoverPrompt.TrimSize), p.CoverPrompt.TrimSize.Valid(), models.Strings(models.AllTrimSizes())},
		{"interiorPrompt.interiorType", string(p.InteriorPrompt.InteriorType), p.InteriorPrompt.InteriorType.Valid(), models.Strings(models.AllInteriorTypes())},
		{"interiorPrompt.pageSize", string(p.InteriorPrompt.PageSize), p.InteriorPrompt.PageSize.Valid(), models.Strings(models.AllTrimSizes())},
		{"interiorPrompt.margins", string(p.InteriorPrompt.Margins), p.InteriorPrompt.Margins.Valid(), models.Strings(models.AllMargins())},
		{"interiorPrompt.layoutStyle", string(p.InteriorPrompt.LayoutStyle), p.InteriorPrompt.LayoutStyle.Valid(), models.Strings(models.AllLayoutStyles())},
	}
}

// CheckPatch rejects enum values in pp that are not in their closed set.
// The check applies the patch to a default project so sub-records are
// inspected the same way Lint sees them.
func CheckPatch(pp models.ProjectPatch) *ValidationResult {
	result := &ValidationResult{Valid: true}
	p := models.ApplyPatch(models.Defaults(), pp)
	for _, f := range enumFields(p) {
		if f.value != "" && !f.valid {
			result.fail(f.field, "INVALID_OPTION",
				fmt.Sprintf("'%s' is not valid for %s (options: %s)", f.value, f.field, strings.Join(f.options, ", ")),
				f.value)
		}
	}
	return result
}

// ToAppError converts validation result to AppError
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}

	if len(result.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	// Use the first error as the primary error
	firstError := result.Errors[0]
	appErr := errors.ValidationError(firstError.Message)

	var details []string
	for _, validationErr := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}

	appErr.WithDetails(strings.Join(details, "; "))
	appErr.WithContext("validation_errors", result.Errors)
	if len(result.Warnings) > 0 {
		appErr.WithContext("validation_warnings", result.Warnings)
	}

	return appErr
}
