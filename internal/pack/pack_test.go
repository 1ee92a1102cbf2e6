package pack

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
	"github.com/dpshade/pocket-kdp/internal/version"
)

func richProject() models.Project {
	p := models.NewProject()
	p.Title = "The Sharing Fox"
	p.BookCategory = "children"
	p.Tone = models.ToneFriendly
	p.BookPrompt.MainIdea = "A fox learns to share"
	p.BookPrompt.KeyPoints = []string{"Sharing", "Sharing", "Friendship"}
	p.BookPrompt.Chapters = []models.ChapterInfo{{Title: "One", Description: "Start"}}
	p.Metadata.Keywords = []string{"fox"}
	p.ReferenceImages = []models.ReferenceImage{
		{ID: "img-1", Name: "fox.png", DataURL: "data:image/png;base64,AAAA", Tags: []string{"Style"}, IsPrimary: true},
	}
	return p
}

func TestRoundTrip(t *testing.T) {
	p := richProject()
	snap := models.PromptsSnapshot{Book: "b", Cover: "c", Interior: "i"}

	data, err := Serialize(MakePack(p, snap))
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, p, got.Project)
	assert.Equal(t, snap, got.PromptsSnapshot)
	assert.Equal(t, models.PackSchemaVersion, got.SchemaVersion)
	assert.Equal(t, version.Version, got.AppVersion)
}

func TestMakePack(t *testing.T) {
	at := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	prev := models.Now
	models.Now = func() time.Time { return at }
	t.Cleanup(func() { models.Now = prev })

	prevVersion := version.Version
	version.Version = ""
	t.Cleanup(func() { version.Version = prevVersion })

	pk := MakePack(richProject(), models.PromptsSnapshot{})
	assert.Equal(t, 1, pk.SchemaVersion)
	assert.Equal(t, "dev", pk.AppVersion)
	assert.Equal(t, at, pk.ExportedAt)
}

func TestSerializeIndentsTwoSpaces(t *testing.T) {
	data, err := Serialize(MakePack(richProject(), models.PromptsSnapshot{}))
	require.NoError(t, err)
	assert.Contains(t, string(data), "{\n  \"schemaVersion\": 1,\n")
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.ErrorCode
	}{
		{"not json", `{"schemaVersion": 1`, errors.ErrCodeMalformedDocument},
		{"empty", ``, errors.ErrCodeMalformedDocument},
		{"array", `[1,2]`, errors.ErrCodeUnsupportedSchema},
		{"null", `null`, errors.ErrCodeUnsupportedSchema},
		{"missing version", `{"project":{"id":"a","title":"t"}}`, errors.ErrCodeUnsupportedSchema},
		{"version 2", `{"schemaVersion":2,"project":{"id":"a","title":"t"}}`, errors.ErrCodeUnsupportedSchema},
		{"version as string", `{"schemaVersion":"1","project":{"id":"a","title":"t"}}`, errors.ErrCodeUnsupportedSchema},
		{"missing project", `{"schemaVersion":1}`, errors.ErrCodeInvalidPack},
		{"missing id", `{"schemaVersion":1,"project":{"title":"t"}}`, errors.ErrCodeInvalidPack},
		{"empty id", `{"schemaVersion":1,"project":{"id":"","title":"t"}}`, errors.ErrCodeInvalidPack},
		{"missing title", `{"schemaVersion":1,"project":{"id":"a"}}`, errors.ErrCodeInvalidPack},
		{"project not object", `{"schemaVersion":1,"project":"a"}`, errors.ErrCodeInvalidPack},
		{"keywords wrong type", `{"schemaVersion":1,"project":{"id":"a","title":"t","metadata":{"keywords":"fox"}}}`, errors.ErrCodeInvalidPack},
		{"flag wrong type", `{"schemaVersion":1,"project":{"id":"a","title":"t","bookPrompt":{"autoGenerateOutline":"yes"}}}`, errors.ErrCodeInvalidPack},
		{"image tags wrong type", `{"schemaVersion":1,"project":{"id":"a","title":"t","referenceImages":[{"id":"i","tags":[1]}]}}`, errors.ErrCodeInvalidPack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestDeserializeMessages(t *testing.T) {
	_, err := Deserialize([]byte(`nope`))
	assert.Equal(t, "Invalid JSON file.", errors.GetAppError(err).Message)

	_, err = Deserialize([]byte(`{"schemaVersion":3}`))
	assert.Equal(t, "Unsupported pack schemaVersion. Expected schemaVersion = 1.", errors.GetAppError(err).Message)

	_, err = Deserialize([]byte(`{"schemaVersion":1,"project":{}}`))
	assert.Equal(t, "Invalid pack: missing project fields.", errors.GetAppError(err).Message)

	_, err = Deserialize([]byte(`{"schemaVersion":1,"project":null}`))
	assert.Equal(t, "Invalid pack: missing project fields.", errors.GetAppError(err).Message)

	_, err = Deserialize([]byte(`{"schemaVersion":1,"project":{"id":"a","title":"t","metadata":{"keywords":"fox"}}}`))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPack))
	assert.Equal(t, "Invalid pack: project fields have the wrong type.", errors.GetAppError(err).Message)

	_, err = Deserialize([]byte(`{"schemaVersion":1,"project":{"id":"a","title":"t","createdAt":"yesterday"}}`))
	assert.Equal(t, "Invalid pack: project fields have the wrong type.", errors.GetAppError(err).Message)
}

func TestDeserializeEmptyTimestamps(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty createdAt", `{"schemaVersion":1,"project":{"id":"a","title":"T","createdAt":""}}`},
		{"empty updatedAt", `{"schemaVersion":1,"project":{"id":"a","title":"T","updatedAt":""}}`},
		{"null createdAt", `{"schemaVersion":1,"project":{"id":"a","title":"T","createdAt":null}}`},
		{"empty exportedAt", `{"schemaVersion":1,"exportedAt":"","project":{"id":"a","title":"T"}}`},
		{"null exportedAt", `{"schemaVersion":1,"exportedAt":null,"project":{"id":"a","title":"T"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Deserialize([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, "a", got.Project.ID)
			assert.Equal(t, "T", got.Project.Title)
			assert.True(t, got.Project.CreatedAt.IsZero())
			assert.True(t, got.ExportedAt.IsZero())
		})
	}

	got, err := Deserialize([]byte(`{"schemaVersion":1,"project":{"id":"a","title":"T","createdAt":"2025-01-02T03:04:05Z","updatedAt":""}}`))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), got.Project.CreatedAt.UTC())
}

func TestDeserializeBackfillsDefaults(t *testing.T) {
	doc := `{
		"schemaVersion": 1,
		"appVersion": "0.3.0",
		"project": {
			"id": "abc",
			"title": "Minimal",
			"bookPrompt": {"mainIdea": "Idea"}
		}
	}`

	got, err := Deserialize([]byte(doc))
	require.NoError(t, err)

	p := got.Project
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "Minimal", p.Title)
	assert.Equal(t, "Idea", p.BookPrompt.MainIdea)
	assert.True(t, p.BookPrompt.AutoGenerateOutline)
	assert.Equal(t, models.OutputMarkdown, p.BookPrompt.OutputFormat)
	assert.Equal(t, models.LanguageEN, p.Language)
	assert.Equal(t, models.DefaultConstraints, p.Constraints)
	assert.Equal(t, models.Trim6x9, p.CoverPrompt.TrimSize)
	assert.Equal(t, models.MarginsStandard, p.InteriorPrompt.Margins)
	assert.NotNil(t, p.ReferenceImages)
	assert.True(t, p.CreatedAt.IsZero())
	assert.Equal(t, "0.3.0", got.AppVersion)

	assert.Equal(t, models.PromptsSnapshot{}, got.PromptsSnapshot)
}

func TestDeserializeLegacyName(t *testing.T) {
	got, err := Deserialize([]byte(`{"schemaVersion":1,"project":{"id":"old","name":"Legacy Book"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Legacy Book", got.Project.Title)

	got, err = Deserialize([]byte(`{"schemaVersion":1,"project":{"id":"old","title":"New","name":"Legacy"}}`))
	require.NoError(t, err)
	assert.Equal(t, "New", got.Project.Title)
}

func TestDeserializeKeepsUnknownEnumValues(t *testing.T) {
	got, err := Deserialize([]byte(`{"schemaVersion":1,"project":{"id":"x","title":"t","tone":"grumpy"},"promptsSnapshot":null}`))
	require.NoError(t, err)
	assert.Equal(t, models.Tone("grumpy"), got.Project.Tone)
}

func TestEnsureUniqueProjectID(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	prev := models.Now
	models.Now = func() time.Time { return at }
	t.Cleanup(func() { models.Now = prev })

	p := richProject()
	p.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt

	t.Run("no collision", func(t *testing.T) {
		out := EnsureUniqueProjectID(p, map[string]struct{}{"other": {}})
		assert.Equal(t, p, out)
	})

	t.Run("collision", func(t *testing.T) {
		out := EnsureUniqueProjectID(p, map[string]struct{}{p.ID: {}})
		assert.NotEqual(t, p.ID, out.ID)
		assert.NotEmpty(t, out.ID)
		assert.Equal(t, "The Sharing Fox (imported)", out.Title)
		assert.Equal(t, p.CreatedAt, out.CreatedAt)
		assert.Equal(t, at, out.UpdatedAt)
		assert.Equal(t, p.BookPrompt, out.BookPrompt)
		assert.Equal(t, "The Sharing Fox", p.Title)
	})
}

func TestFilename(t *testing.T) {
	tests := []struct{ title, want string }{
		{"The Sharing Fox", "project_pack_the-sharing-fox.json"},
		{"  Kids 4–6 — Illustrated ", "project_pack_kids-4-6-illustrated.json"},
		{"***", "project_pack_project.json"},
		{"", "project_pack_project.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(models.Project{Title: tt.title}), tt.title)
	}
}

func TestSchemaCompiles(t *testing.T) {
	schema, err := compileSchema()
	require.NoError(t, err)

	var doc any
	data, err := Serialize(MakePack(richProject(), models.PromptsSnapshot{}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NoError(t, schema.Validate(doc))
}
