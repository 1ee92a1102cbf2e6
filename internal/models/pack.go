package models

import "time"

// PackSchemaVersion is the only pack envelope version this build reads and writes
const PackSchemaVersion = 1

// ProjectPack is the portable export of a single project together with the
// prompts rendered at export time
type ProjectPack struct {
	SchemaVersion   int             `json:"schemaVersion" yaml:"schema_version"`
	AppVersion      string          `json:"appVersion" yaml:"app_version"`
	ExportedAt      time.Time       `json:"exportedAt" yaml:"exported_at"`
	Project         Project         `json:"project" yaml:"project"`
	PromptsSnapshot PromptsSnapshot `json:"promptsSnapshot" yaml:"prompts_snapshot"`
}

// PromptsSnapshot is informational only. Importing never re-renders from it.
type PromptsSnapshot struct {
	Book     string `json:"book" yaml:"book"`
	Cover    string `json:"cover" yaml:"cover"`
	Interior string `json:"interior" yaml:"interior"`
}
