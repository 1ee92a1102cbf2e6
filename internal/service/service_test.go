package service

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
	"github.com/dpshade/pocket-kdp/internal/pack"
	"github.com/dpshade/pocket-kdp/internal/storage"
)

// steppingClock makes every models.Now call one second later than the last
func steppingClock(t *testing.T) {
	t.Helper()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := models.Now
	models.Now = func() time.Time {
		at = at.Add(time.Second)
		return at
	}
	t.Cleanup(func() { models.Now = prev })
}

func newService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	svc, err := New(kv, zap.NewNop())
	require.NoError(t, err)
	return svc, kv
}

func storedProjects(t *testing.T, kv storage.KeyValue) []models.Project {
	t.Helper()
	raw, ok, err := kv.Get(storage.KeyProjects)
	require.NoError(t, err)
	require.True(t, ok)
	var out []models.Project
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func storedActive(t *testing.T, kv storage.KeyValue) string {
	t.Helper()
	v, _, err := kv.Get(storage.KeyActiveProject)
	require.NoError(t, err)
	return v
}

func TestCreatePrependsAndSelects(t *testing.T) {
	steppingClock(t)
	svc, kv := newService(t)

	a, err := svc.Create(models.ProjectPatch{})
	require.NoError(t, err)
	b, err := svc.Create(models.ProjectPatch{Title: models.Ptr("Second"), Tone: models.Ptr(models.ToneHumorous)})
	require.NoError(t, err)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
	assert.Equal(t, models.DefaultTitle, a.Title)
	assert.Equal(t, "Second", b.Title)
	assert.Equal(t, models.ToneHumorous, b.Tone)
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)

	active, ok := svc.Active()
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)

	assert.Equal(t, list, storedProjects(t, kv))
	assert.Equal(t, b.ID, storedActive(t, kv))
}

func TestUpdate(t *testing.T) {
	steppingClock(t)
	svc, kv := newService(t)
	p, err := svc.Create(models.ProjectPatch{})
	require.NoError(t, err)

	ok, err := svc.Update(p.ID, models.ProjectPatch{USP: models.Ptr("Only fox book")})
	require.NoError(t, err)
	assert.True(t, ok)

	got, found := svc.Get(p.ID)
	require.True(t, found)
	assert.Equal(t, "Only fox book", got.USP)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Only fox book", storedProjects(t, kv)[0].USP)

	ok, err = svc.Update("missing", models.ProjectPatch{USP: models.Ptr("x")})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, svc.List(), 1)
}

func TestDeleteActiveClearsPointerInMemoryOnly(t *testing.T) {
	svc, kv := newService(t)
	a, err := svc.Create(models.ProjectPatch{Title: models.Ptr("A")})
	require.NoError(t, err)
	b, err := svc.Create(models.ProjectPatch{Title: models.Ptr("B")})
	require.NoError(t, err)

	ok, err := svc.Delete(b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok = svc.Active()
	assert.False(t, ok)
	assert.Empty(t, svc.ActiveID())
	assert.Equal(t, b.ID, storedActive(t, kv), "stored pointer keeps the deleted id")

	list := storedProjects(t, kv)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	// a reload sees the dangling pointer and no active project
	reloaded, err := New(kv, nil)
	require.NoError(t, err)
	assert.Equal(t, b.ID, reloaded.ActiveID())
	_, ok = reloaded.Active()
	assert.False(t, ok)
}

func TestDeleteInactiveKeepsPointer(t *testing.T) {
	svc, _ := newService(t)
	a, _ := svc.Create(models.ProjectPatch{})
	b, _ := svc.Create(models.ProjectPatch{})

	ok, err := svc.Delete(a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, b.ID, svc.ActiveID())

	ok, err = svc.Delete("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDuplicate(t *testing.T) {
	steppingClock(t)
	svc, _ := newService(t)
	src, err := svc.Create(models.ProjectPatch{
		Title:      models.Ptr("Fox"),
		BookPrompt: &models.BookPromptData{KeyPoints: []string{"share"}},
	})
	require.NoError(t, err)

	dup, ok, err := svc.Duplicate(src.ID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "Fox (Copy)", dup.Title)
	assert.True(t, dup.CreatedAt.After(src.CreatedAt))
	assert.Equal(t, src.BookPrompt, dup.BookPrompt)
	assert.Equal(t, dup.ID, svc.ActiveID())
	assert.Equal(t, dup.ID, svc.List()[0].ID)

	// the copy shares no lists with its source
	_, err = svc.Update(dup.ID, models.ProjectPatch{BookPrompt: &models.BookPromptData{KeyPoints: []string{"hoard"}}})
	require.NoError(t, err)
	orig, _ := svc.Get(src.ID)
	assert.Equal(t, []string{"share"}, orig.BookPrompt.KeyPoints)

	_, ok, err = svc.Duplicate("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetActive(t *testing.T) {
	svc, kv := newService(t)
	a, _ := svc.Create(models.ProjectPatch{})
	_, _ = svc.Create(models.ProjectPatch{})

	require.NoError(t, svc.SetActive(a.ID))
	assert.Equal(t, a.ID, svc.ActiveID())
	assert.Equal(t, a.ID, storedActive(t, kv))

	err := svc.SetActive("missing")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Equal(t, a.ID, svc.ActiveID())
}

func TestImportFromPack(t *testing.T) {
	steppingClock(t)
	svc, _ := newService(t)
	existing, err := svc.Create(models.ProjectPatch{Title: models.Ptr("Fox")})
	require.NoError(t, err)

	t.Run("colliding id is renamed", func(t *testing.T) {
		pk, err := svc.ExportPack(existing.ID)
		require.NoError(t, err)

		imported, err := svc.ImportFromPack(pk)
		require.NoError(t, err)

		assert.NotEqual(t, existing.ID, imported.ID)
		assert.Equal(t, "Fox (imported)", imported.Title)
		assert.Equal(t, existing.CreatedAt, imported.CreatedAt)
		assert.True(t, imported.UpdatedAt.After(existing.UpdatedAt))
		assert.Equal(t, imported.ID, svc.ActiveID())
		assert.Equal(t, imported.ID, svc.List()[0].ID)
	})

	t.Run("fresh id is kept and gaps are filled", func(t *testing.T) {
		pk := models.ProjectPack{
			SchemaVersion: 1,
			Project:       models.Project{ID: "from-elsewhere", Title: "Bare"},
		}
		imported, err := svc.ImportFromPack(pk)
		require.NoError(t, err)

		assert.Equal(t, "from-elsewhere", imported.ID)
		assert.False(t, imported.CreatedAt.IsZero())
		assert.Equal(t, imported.CreatedAt, imported.UpdatedAt)
		assert.Equal(t, models.DefaultConstraints, imported.Constraints)
		assert.NotNil(t, imported.BookPrompt.KeyPoints)
	})
}

func TestImportPackDataRejectsInvalidWithoutMutation(t *testing.T) {
	svc, kv := newService(t)
	p, _ := svc.Create(models.ProjectPatch{})
	before := storedProjects(t, kv)

	for _, doc := range []string{`{`, `{"schemaVersion":2}`, `{"schemaVersion":1,"project":{"title":"x"}}`} {
		_, err := svc.ImportPackData([]byte(doc))
		require.Error(t, err, doc)
	}

	assert.Equal(t, before, storedProjects(t, kv))
	assert.Len(t, svc.List(), 1)
	assert.Equal(t, p.ID, svc.ActiveID())
}

func TestImportPackDataStampsEmptyCreatedAt(t *testing.T) {
	steppingClock(t)
	svc, kv := newService(t)

	imported, err := svc.ImportPackData([]byte(`{"schemaVersion":1,"exportedAt":"","project":{"id":"legacy","title":"Old Book","createdAt":"","updatedAt":""}}`))
	require.NoError(t, err)
	assert.Equal(t, "legacy", imported.ID)
	assert.False(t, imported.CreatedAt.IsZero())
	assert.Equal(t, imported.CreatedAt, imported.UpdatedAt)
	assert.Equal(t, "legacy", svc.ActiveID())
	assert.Equal(t, imported.CreatedAt, storedProjects(t, kv)[0].CreatedAt)
}

func TestExportImportRoundTripThroughBytes(t *testing.T) {
	source, _ := newService(t)
	p, err := source.Create(models.ProjectPatch{
		Title:    models.Ptr("Round Trip"),
		Metadata: &models.AmazonMetadata{Keywords: []string{"a", "b"}, BulletPoints: []string{}},
	})
	require.NoError(t, err)

	pk, err := source.ExportPack(p.ID)
	require.NoError(t, err)
	assert.Contains(t, pk.PromptsSnapshot.Book, "- **Title**: Round Trip")
	assert.Contains(t, pk.PromptsSnapshot.Cover, `- Title: "Round Trip"`)
	assert.NotEmpty(t, pk.PromptsSnapshot.Interior)

	data, err := pack.Serialize(pk)
	require.NoError(t, err)

	target, _ := newService(t)
	imported, err := target.ImportPackData(data)
	require.NoError(t, err)
	assert.Equal(t, p.ID, imported.ID)
	assert.Equal(t, p.Metadata, imported.Metadata)
	assert.Equal(t, p.CreatedAt, imported.CreatedAt)

	_, err = source.ExportPack("missing")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestStorageFailureRollsBack(t *testing.T) {
	svc, kv := newService(t)
	p, err := svc.Create(models.ProjectPatch{Title: models.Ptr("Kept")})
	require.NoError(t, err)

	kv.FailWrites = stderrors.New("quota exceeded")

	_, err = svc.Create(models.ProjectPatch{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageFailure))

	_, err = svc.Update(p.ID, models.ProjectPatch{Title: models.Ptr("Lost")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageFailure))

	_, err = svc.Delete(p.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageFailure))

	list := svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Kept", list[0].Title)
	assert.Equal(t, p.ID, svc.ActiveID())
}

func TestCorruptProjectsLoadAsEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(storage.KeyProjects, "{not json"))
	require.NoError(t, kv.Set(storage.KeyActiveProject, "ghost"))

	svc, err := New(kv, nil)
	require.NoError(t, err)
	assert.Empty(t, svc.List())
	assert.Equal(t, "ghost", svc.ActiveID())
	_, ok := svc.Active()
	assert.False(t, ok)
}

func TestPersistenceAcrossReload(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	svc, err := New(kv, nil)
	require.NoError(t, err)
	a, err := svc.Create(models.ProjectPatch{Title: models.Ptr("Persisted")})
	require.NoError(t, err)

	reloaded, err := New(kv, nil)
	require.NoError(t, err)
	assert.Equal(t, svc.List(), reloaded.List())
	active, ok := reloaded.Active()
	require.True(t, ok)
	assert.Equal(t, a.ID, active.ID)
}

func TestListReturnsCopies(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(models.ProjectPatch{})
	require.NoError(t, err)

	list := svc.List()
	list[0].Title = "mutated"
	list[0].Constraints[0] = "mutated"

	fresh := svc.List()
	assert.Equal(t, models.DefaultTitle, fresh[0].Title)
	assert.Equal(t, "No copyrighted names", fresh[0].Constraints[0])
}

func TestSearch(t *testing.T) {
	svc, _ := newService(t)
	_, _ = svc.Create(models.ProjectPatch{Title: models.Ptr("Garden Journal"), BookCategory: models.Ptr("journal")})
	_, _ = svc.Create(models.ProjectPatch{
		Title:    models.Ptr("Fox Tales"),
		Metadata: &models.AmazonMetadata{Keywords: []string{"woodland"}},
	})

	assert.Len(t, svc.Search(""), 2)

	results := svc.Search("garden")
	require.Len(t, results, 1)
	assert.Equal(t, "Garden Journal", results[0].Title)

	results = svc.Search("woodland")
	require.Len(t, results, 1)
	assert.Equal(t, "Fox Tales", results[0].Title)

	assert.Empty(t, svc.Search("zzzz"))
}

func TestImageOperations(t *testing.T) {
	svc, _ := newService(t)
	p, _ := svc.Create(models.ProjectPatch{})

	img := models.ReferenceImage{ID: "img-1", Name: "fox.png", DataURL: "data:image/png;base64,AAAA", Tags: []string{}}
	ok, err := svc.AddImage(p.ID, img)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.TogglePrimary(p.ID, "img-1")
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ := svc.Get(p.ID)
	require.Len(t, got.ReferenceImages, 1)
	assert.True(t, got.ReferenceImages[0].IsPrimary)

	ok, err = svc.UpdateImage(p.ID, "img-1", "hero shot", []string{"Style"})
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ = svc.Get(p.ID)
	assert.Equal(t, "hero shot", got.ReferenceImages[0].Notes)
	assert.Equal(t, []string{"Style"}, got.ReferenceImages[0].Tags)
	assert.Equal(t, img.DataURL, got.ReferenceImages[0].DataURL)

	ok, err = svc.TogglePrimary(p.ID, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.RemoveImage(p.ID, "img-1")
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ = svc.Get(p.ID)
	assert.Empty(t, got.ReferenceImages)

	ok, err = svc.AddImage("missing", img)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentImageEditsAreKept(t *testing.T) {
	svc, kv := newService(t)
	p, _ := svc.Create(models.ProjectPatch{})

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img := models.ReferenceImage{ID: fmt.Sprintf("img-%d", i), Name: "fox.png", DataURL: "data:image/png;base64,AAAA", Tags: []string{}}
			_, err := svc.AddImage(p.ID, img)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, _ := svc.Get(p.ID)
	assert.Len(t, got.ReferenceImages, n)
	assert.Len(t, storedProjects(t, kv)[0].ReferenceImages, n)
}
