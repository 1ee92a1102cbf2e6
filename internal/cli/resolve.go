package cli

import (
	"fmt"
	"strings"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
	"github.com/dpshade/pocket-kdp/internal/service"
)

// resolveProject finds a project by exact ID, unique ID prefix or
// case-insensitive title. An empty ref means the active project.
func resolveProject(svc *service.Service, ref string) (models.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		p, ok := svc.Active()
		if !ok {
			return models.Project{}, errors.NotFoundError("active project").
				WithDetails("pass a project ID or run `pocket-kdp select <project>`")
		}
		return p, nil
	}

	if p, ok := svc.Get(ref); ok {
		return p, nil
	}

	var matches []models.Project
	for _, p := range svc.List() {
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Title, ref) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return models.Project{}, errors.NotFoundError(fmt.Sprintf("project %q", ref))
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, p := range matches {
			ids[i] = shortID(p.ID)
		}
		return models.Project{}, errors.InvalidInputError(fmt.Sprintf("%q matches %d projects", ref, len(matches))).
			WithDetails("candidates: " + strings.Join(ids, ", "))
	}
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
