package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
	"github.com/dpshade/pocket-kdp/internal/pack"
	"github.com/dpshade/pocket-kdp/internal/renderer"
	"github.com/dpshade/pocket-kdp/internal/storage"
)

// Service owns the project collection and the active-project pointer.
// Every mutation is written through to the key-value store before it
// becomes visible; a failed write leaves memory as it was.
type Service struct {
	kv     storage.KeyValue
	logger *zap.Logger

	mu       sync.RWMutex // Protects projects and activeID
	projects []models.Project
	activeID string
}

// New loads the collection and the active pointer from kv. A projects value
// that cannot be parsed is logged and treated as an empty collection.
func New(kv storage.KeyValue, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		kv:       kv,
		logger:   logger,
		projects: []models.Project{},
	}

	raw, ok, err := kv.Get(storage.KeyProjects)
	if err != nil {
		return nil, errors.StorageError("read projects", err)
	}
	if ok && strings.TrimSpace(raw) != "" {
		var loaded []models.Project
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			logger.Error("stored projects are unreadable, starting empty", zap.Error(err))
		} else {
			for _, p := range loaded {
				s.projects = append(s.projects, models.Backfill(p))
			}
		}
	}

	active, ok, err := kv.Get(storage.KeyActiveProject)
	if err != nil {
		return nil, errors.StorageError("read active project", err)
	}
	if ok {
		s.activeID = active
	}

	logger.Debug("project store loaded",
		zap.Int("projects", len(s.projects)),
		zap.String("active", s.activeID))

	return s, nil
}

// List returns copies of all projects, newest first
func (s *Service) List() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.projects)
}

// Get returns a copy of the project with id
func (s *Service) Get(id string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.projects[i].Clone(), true
	}
	return models.Project{}, false
}

// ActiveID returns the raw active pointer. It may name a project that no
// longer exists, or be empty.
func (s *Service) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns the project the active pointer refers to
func (s *Service) Active() (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeID == "" {
		return models.Project{}, false
	}
	if i := s.indexOf(s.activeID); i >= 0 {
		return s.projects[i].Clone(), true
	}
	return models.Project{}, false
}

// SetActive makes id the active project and persists the pointer
func (s *Service) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return errors.NotFoundError(fmt.Sprintf("project %s", id))
	}
	if err := s.persistActive(id); err != nil {
		return err
	}
	s.activeID = id
	s.logger.Debug("active project changed", zap.String("id", id))
	return nil
}

// Create builds a project from the defaults plus overrides, prepends it and
// makes it active
func (s *Service) Create(overrides models.ProjectPatch) (models.Project, error) {
	p := models.ApplyPatch(models.NewProject(), overrides)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(prepend(s.projects, p), p.ID); err != nil {
		return models.Project{}, err
	}
	s.logger.Debug("project created", zap.String("id", p.ID), zap.String("title", p.Title))
	return p.Clone(), nil
}

// Update merges patch into the project with id and refreshes updatedAt.
// It reports false, and changes nothing, when id is unknown.
func (s *Service) Update(id string, patch models.ProjectPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	if err := s.replaceAt(i, models.ApplyPatch(s.projects[i], patch)); err != nil {
		return false, err
	}
	s.logger.Debug("project updated", zap.String("id", id))
	return true, nil
}

// Delete removes the project with id. Deleting the active project clears the
// pointer in memory only; the stored pointer keeps its old value.
func (s *Service) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]models.Project, 0, len(s.projects)-1)
	next = append(next, s.projects[:i]...)
	next = append(next, s.projects[i+1:]...)

	if err := s.persistProjects(next); err != nil {
		return false, err
	}
	s.projects = next
	if s.activeID == id {
		s.activeID = ""
	}
	s.logger.Debug("project deleted", zap.String("id", id))
	return true, nil
}

// Duplicate copies the project with id under a fresh ID and a " (Copy)"
// title, prepends the copy and makes it active
func (s *Service) Duplicate(id string) (models.Project, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Project{}, false, nil
	}

	dup := s.projects[i].Clone()
	dup.ID = models.NewID()
	dup.Title = dup.Title + " (Copy)"
	now := models.Now()
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if err := s.commit(prepend(s.projects, dup), dup.ID); err != nil {
		return models.Project{}, false, err
	}
	s.logger.Debug("project duplicated", zap.String("source", id), zap.String("id", dup.ID))
	return dup.Clone(), true, nil
}

// ImportFromPack adds the pack's project, renaming its ID on collision,
// prepends it and makes it active. The snapshot is ignored.
func (s *Service) ImportFromPack(p models.ProjectPack) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.projects))
	for _, proj := range s.projects {
		existing[proj.ID] = struct{}{}
	}

	incoming := models.Backfill(pack.EnsureUniqueProjectID(p.Project, existing))
	now := models.Now()
	if incoming.CreatedAt.IsZero() {
		incoming.CreatedAt = now
	}
	incoming.UpdatedAt = now

	if err := s.commit(prepend(s.projects, incoming), incoming.ID); err != nil {
		return models.Project{}, err
	}
	s.logger.Debug("project imported",
		zap.String("id", incoming.ID),
		zap.Bool("renamed", incoming.ID != p.Project.ID))
	return incoming.Clone(), nil
}

// ImportPackData parses a pack document and imports it. Invalid documents
// leave the store untouched.
func (s *Service) ImportPackData(data []byte) (models.Project, error) {
	p, err := pack.Deserialize(data)
	if err != nil {
		return models.Project{}, err
	}
	return s.ImportFromPack(p)
}

// ExportPack renders the project's prompts and wraps both in a pack
func (s *Service) ExportPack(id string) (models.ProjectPack, error) {
	p, ok := s.Get(id)
	if !ok {
		return models.ProjectPack{}, errors.NotFoundError(fmt.Sprintf("project %s", id))
	}
	return pack.MakePack(p, renderer.NewRenderer(p).Snapshot()), nil
}

// Search fuzzy-matches query against title, category, audience and keywords.
// Results are ordered best match first; an empty query returns List().
func (s *Service) Search(query string) []models.Project {
	projects := s.List()
	if strings.TrimSpace(query) == "" {
		return projects
	}

	searchStrings := make([]string, len(projects))
	for i, p := range projects {
		searchStrings[i] = fmt.Sprintf("%s %s %s %s",
			p.Title,
			p.BookCategory,
			p.TargetAudience,
			strings.Join(p.Metadata.Keywords, " "))
	}

	matches := fuzzy.Find(query, searchStrings)

	results := make([]models.Project, 0, len(matches))
	for _, match := range matches {
		results = append(results, projects[match.Index])
	}
	return results
}

// AddImage appends img to the project's reference images
func (s *Service) AddImage(id string, img models.ReferenceImage) (bool, error) {
	return s.editImages(id, func(images []models.ReferenceImage) ([]models.ReferenceImage, bool) {
		return append(images, img), true
	})
}

// RemoveImage drops the image with imageID. It reports false when either ID
// is unknown.
func (s *Service) RemoveImage(id, imageID string) (bool, error) {
	return s.editImages(id, func(images []models.ReferenceImage) ([]models.ReferenceImage, bool) {
		for i, img := range images {
			if img.ID == imageID {
				return models.RemoveAt(images, i), true
			}
		}
		return images, false
	})
}

// TogglePrimary flips the primary flag of one image. Other images keep
// their flags.
func (s *Service) TogglePrimary(id, imageID string) (bool, error) {
	return s.editImages(id, func(images []models.ReferenceImage) ([]models.ReferenceImage, bool) {
		for i := range images {
			if images[i].ID == imageID {
				images[i].IsPrimary = !images[i].IsPrimary
				return images, true
			}
		}
		return images, false
	})
}

// UpdateImage replaces the notes and tags of one image
func (s *Service) UpdateImage(id, imageID, notes string, tags []string) (bool, error) {
	return s.editImages(id, func(images []models.ReferenceImage) ([]models.ReferenceImage, bool) {
		for i := range images {
			if images[i].ID == imageID {
				images[i].Notes = notes
				images[i].Tags = append([]string{}, tags...)
				return images, true
			}
		}
		return images, false
	})
}

// editImages runs edit and the write under one lock so concurrent image
// edits on the same project cannot drop each other
func (s *Service) editImages(id string, edit func([]models.ReferenceImage) ([]models.ReferenceImage, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	updated := s.projects[i].Clone()
	images, changed := edit(updated.ReferenceImages)
	if !changed {
		return false, nil
	}
	updated.ReferenceImages = images

	if err := s.replaceAt(i, updated); err != nil {
		return false, err
	}
	s.logger.Debug("reference images updated", zap.String("id", id), zap.Int("images", len(images)))
	return true, nil
}

// replaceAt stores updated at index i with a fresh updatedAt. The caller
// holds s.mu.
func (s *Service) replaceAt(i int, updated models.Project) error {
	updated.UpdatedAt = models.Now()
	next := cloneAll(s.projects)
	next[i] = updated
	return s.commit(next, s.activeID)
}

// commit persists a new collection and pointer, then swaps them in
func (s *Service) commit(next []models.Project, activeID string) error {
	if err := s.persistProjects(next); err != nil {
		return err
	}
	if activeID != "" && activeID != s.activeID {
		if err := s.persistActive(activeID); err != nil {
			// put the stored collection back so disk matches memory
			if restoreErr := s.persistProjects(s.projects); restoreErr != nil {
				s.logger.Error("failed to restore projects after pointer write failure", zap.Error(restoreErr))
			}
			return err
		}
	}
	s.projects = next
	s.activeID = activeID
	return nil
}

func (s *Service) persistProjects(projects []models.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to encode projects")
	}
	if err := s.kv.Set(storage.KeyProjects, string(data)); err != nil {
		s.logger.Error("failed to write projects", zap.Error(err))
		return errors.StorageError("write projects", err)
	}
	return nil
}

func (s *Service) persistActive(id string) error {
	if err := s.kv.Set(storage.KeyActiveProject, id); err != nil {
		s.logger.Error("failed to write active project", zap.Error(err))
		return errors.StorageError("write active project", err)
	}
	return nil
}

func (s *Service) indexOf(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func prepend(projects []models.Project, p models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects)+1)
	out = append(out, p)
	return append(out, projects...)
}

func cloneAll(projects []models.Project) []models.Project {
	out := make([]models.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}
