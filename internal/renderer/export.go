package renderer

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/dpshade/pocket-kdp/internal/models"
)

// RedactedImageData replaces embedded image data in the full JSON export
const RedactedImageData = "[base64 omitted]"

var whitespaceRun = regexp.MustCompile(`\s+`)

func underscored(title string) string {
	return whitespaceRun.ReplaceAllString(title, "_")
}

// TextFilename names the plain-text export of kind, e.g. "My_Book_cover.txt"
func TextFilename(project models.Project, kind Kind) string {
	return fmt.Sprintf("%s_%s.txt", underscored(project.Title), kind)
}

// JSONFilename names the full project JSON export
func JSONFilename(project models.Project) string {
	return underscored(project.Title) + "_full.json"
}

// ProjectJSON renders the whole project as indented JSON with image payloads
// replaced by a placeholder. It is meant for reading, not for re-import.
func ProjectJSON(project models.Project) (string, error) {
	redacted := project.Clone()
	for i := range redacted.ReferenceImages {
		redacted.ReferenceImages[i].DataURL = RedactedImageData
	}

	data, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal project: %w", err)
	}
	return string(data), nil
}
