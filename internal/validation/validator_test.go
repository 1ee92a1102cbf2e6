package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
)

func fields(result *ValidationResult) []string {
	out := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		out = append(out, w.Field)
	}
	return out
}

func healthyProject() models.Project {
	p := models.NewProject()
	p.Title = "The Sharing Fox"
	p.BookPrompt.MainIdea = "A fox learns to share"
	p.Metadata.Keywords = []string{"fox", "sharing"}
	return p
}

func TestLintHealthyProject(t *testing.T) {
	result := NewValidator().Lint(healthyProject())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Errors)
}

func TestLintWarnings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *models.Project)
		field  string
	}{
		{"empty title", func(p *models.Project) { p.Title = "  " }, "title"},
		{"empty main idea", func(p *models.Project) { p.BookPrompt.MainIdea = "" }, "bookPrompt.mainIdea"},
		{"too many keywords", func(p *models.Project) {
			p.Metadata.Keywords = []string{"1", "2", "3", "4", "5", "6", "7", "8"}
		}, "metadata.keywords"},
		{"custom style without text", func(p *models.Project) {
			p.BookPrompt.WritingStyle = models.WritingStyleCustom
		}, "bookPrompt.customStyle"},
		{"unknown tone", func(p *models.Project) { p.Tone = "grumpy" }, "tone"},
		{"unknown trim size", func(p *models.Project) { p.CoverPrompt.TrimSize = "4x4" }, "coverPrompt.trimSize"},
		{"non-image data", func(p *models.Project) {
			p.ReferenceImages = []models.ReferenceImage{{Name: "notes.pdf", DataURL: "data:application/pdf;base64,AAAA"}}
		}, "referenceImages"},
		{"two primaries", func(p *models.Project) {
			p.ReferenceImages = []models.ReferenceImage{
				{Name: "a.png", DataURL: "data:image/png;base64,AAAA", IsPrimary: true},
				{Name: "b.png", DataURL: "data:image/png;base64,AAAA", IsPrimary: true},
			}
		}, "referenceImages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := healthyProject()
			tt.modify(&p)
			result := NewValidator().Lint(p)
			assert.True(t, result.Valid)
			assert.Equal(t, []string{tt.field}, fields(result))
		})
	}
}

func TestLintKeywordOverflowValue(t *testing.T) {
	p := healthyProject()
	p.Metadata.Keywords = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
	result := NewValidator().Lint(p)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "8, 9", result.Warnings[0].Value)
}

func TestLintIgnoresUnsetOptionalEnums(t *testing.T) {
	p := healthyProject()
	p.CoverPrompt.VisualStyle = ""
	p.CoverPrompt.Mood = ""
	p.InteriorPrompt.InteriorType = ""
	assert.Empty(t, NewValidator().Lint(p).Warnings)
}

func TestRegisterRule(t *testing.T) {
	v := NewValidator()
	v.RegisterRule(Rule{
		Name: "audience",
		Check: func(p models.Project, result *ValidationResult) {
			if p.TargetAudience == "" {
				result.warn("targetAudience", "Audience is empty", "")
			}
		},
	})
	assert.Equal(t, []string{"targetAudience"}, fields(v.Lint(healthyProject())))
}

func TestCheckPatch(t *testing.T) {
	ok := CheckPatch(models.ProjectPatch{Tone: models.Ptr(models.ToneHumorous)})
	assert.True(t, ok.Valid)
	assert.Nil(t, ok.ToAppError())

	bad := CheckPatch(models.ProjectPatch{
		Tone:        models.Ptr(models.Tone("grumpy")),
		CoverPrompt: &models.CoverPromptData{Mood: "sleepy", TrimSize: models.Trim6x9},
	})
	assert.False(t, bad.Valid)
	require.Len(t, bad.Errors, 2)
	assert.Equal(t, "tone", bad.Errors[0].Field)
	assert.Equal(t, "coverPrompt.mood", bad.Errors[1].Field)

	appErr := bad.ToAppError()
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "coverPrompt.mood")
}
