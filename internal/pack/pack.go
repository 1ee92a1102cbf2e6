// Package pack reads and writes project packs: a versioned JSON envelope
// holding one project and the prompts rendered when it was exported.
//
// Deserialize validates a document completely before returning it, so an
// import that fails here never reaches the project store.
package pack

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
	"github.com/dpshade/pocket-kdp/internal/version"
)

// ImportedSuffix is appended to the title of a pack whose ID collided on import
const ImportedSuffix = " (imported)"

//go:embed pack.schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("pack.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load pack schema: %w", err)
	}
	schema, err := compiler.Compile("pack.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile pack schema: %w", err)
	}
	return schema, nil
})

// MakePack wraps project and snapshot in a version 1 envelope stamped with
// the application version and the current time
func MakePack(project models.Project, snapshot models.PromptsSnapshot) models.ProjectPack {
	appVersion := version.Version
	if appVersion == "" {
		appVersion = "dev"
	}
	return models.ProjectPack{
		SchemaVersion:   models.PackSchemaVersion,
		AppVersion:      appVersion,
		ExportedAt:      models.Now(),
		Project:         project.Clone(),
		PromptsSnapshot: snapshot,
	}
}

// Serialize renders the pack as JSON indented with two spaces
func Serialize(p models.ProjectPack) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pack: %w", err)
	}
	return data, nil
}

// envelope mirrors ProjectPack with the parts that need inspection left raw
type envelope struct {
	SchemaVersion   json.RawMessage         `json:"schemaVersion"`
	AppVersion      string                  `json:"appVersion"`
	ExportedAt      *time.Time              `json:"exportedAt"`
	Project         json.RawMessage         `json:"project"`
	PromptsSnapshot *models.PromptsSnapshot `json:"promptsSnapshot"`
}

// identity holds the fields a pack's project must carry. Name is the title
// key used by older exports.
type identity struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Name  string `json:"name"`
}

// Deserialize parses and validates a pack document. Failures carry one of the
// codes MALFORMED_DOCUMENT, UNSUPPORTED_SCHEMA or INVALID_PACK. Fields absent
// from the project are filled with default values.
func Deserialize(data []byte) (models.ProjectPack, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.ProjectPack{}, errors.MalformedDocumentError(err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return models.ProjectPack{}, errors.UnsupportedSchemaError()
	}
	if v, ok := obj["schemaVersion"].(float64); !ok || v != models.PackSchemaVersion {
		return models.ProjectPack{}, errors.UnsupportedSchemaError()
	}

	dropAbsent(obj)
	cleaned, err := json.Marshal(obj)
	if err != nil {
		return models.ProjectPack{}, errors.Wrap(err, errors.ErrCodeInternalError, "Failed to re-encode pack")
	}

	schema, err := compileSchema()
	if err != nil {
		return models.ProjectPack{}, errors.Wrap(err, errors.ErrCodeInternalError, "Pack schema unavailable")
	}
	if err := schema.Validate(doc); err != nil {
		return models.ProjectPack{}, errors.PackFieldTypeError(err.Error())
	}

	var env envelope
	if err := json.Unmarshal(cleaned, &env); err != nil {
		return models.ProjectPack{}, errors.PackFieldTypeError(err.Error())
	}

	var id identity
	if len(env.Project) > 0 {
		if err := json.Unmarshal(env.Project, &id); err != nil {
			return models.ProjectPack{}, errors.PackFieldTypeError(err.Error())
		}
	}
	if id.ID == "" {
		return models.ProjectPack{}, errors.InvalidPackError("project.id is required")
	}
	if id.Title == "" && id.Name == "" {
		return models.ProjectPack{}, errors.InvalidPackError("project.title is required")
	}

	project := models.Defaults()
	if err := json.Unmarshal(env.Project, &project); err != nil {
		return models.ProjectPack{}, errors.PackFieldTypeError(err.Error())
	}
	if id.Title == "" {
		project.Title = id.Name
	}

	out := models.ProjectPack{
		SchemaVersion: models.PackSchemaVersion,
		AppVersion:    env.AppVersion,
		Project:       project,
	}
	if env.ExportedAt != nil {
		out.ExportedAt = *env.ExportedAt
	}
	if env.PromptsSnapshot != nil {
		out.PromptsSnapshot = *env.PromptsSnapshot
	}

	return out, nil
}

// dropAbsent deletes values that older exports write in place of a missing
// field: a null project, and null or empty timestamps. A project without
// createdAt is stamped when it is imported.
func dropAbsent(obj map[string]any) {
	dropEmpty(obj, "exportedAt")
	if obj["project"] == nil {
		delete(obj, "project")
	}
	if project, ok := obj["project"].(map[string]any); ok {
		dropEmpty(project, "createdAt", "updatedAt")
	}
}

func dropEmpty(obj map[string]any, keys ...string) {
	for _, key := range keys {
		if v, ok := obj[key]; ok && (v == nil || v == "") {
			delete(obj, key)
		}
	}
}

// EnsureUniqueProjectID returns project unchanged unless its ID is already in
// existing. A colliding project gets a fresh ID, the imported suffix on its
// title and a new updatedAt; createdAt is kept.
func EnsureUniqueProjectID(project models.Project, existing map[string]struct{}) models.Project {
	if _, taken := existing[project.ID]; !taken {
		return project
	}

	out := project.Clone()
	out.ID = models.NewID()
	out.Title = project.Title + ImportedSuffix
	out.UpdatedAt = models.Now()
	return out
}

var slugSanitizePattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases input and collapses every run of other characters to "-"
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = slugSanitizePattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Filename is the suggested file name for a project's pack
func Filename(project models.Project) string {
	slug := Slugify(project.Title)
	if slug == "" {
		slug = "project"
	}
	return "project_pack_" + slug + ".json"
}
