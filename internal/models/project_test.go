package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/pocket-kdp/internal/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return at }
	t.Cleanup(func() { Now = prev })
}

func TestNewProjectDefaults(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fixedClock(t, at)

	p := NewProject()

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, LanguageEN, p.Language)
	assert.Equal(t, ToneProfessional, p.Tone)
	assert.Equal(t, DefaultConstraints, p.Constraints)
	assert.Equal(t, DesiredFullChapters, p.DesiredOutput)
	assert.True(t, p.BookPrompt.AutoGenerateOutline)
	assert.Equal(t, OutputMarkdown, p.BookPrompt.OutputFormat)
	assert.Equal(t, Trim6x9, p.CoverPrompt.TrimSize)
	assert.Equal(t, Trim6x9, p.InteriorPrompt.PageSize)
	assert.Equal(t, MarginsStandard, p.InteriorPrompt.Margins)
	assert.Equal(t, LayoutMinimal, p.InteriorPrompt.LayoutStyle)
	assert.Empty(t, p.ReferenceImages)
	assert.Equal(t, at, p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	other := NewProject()
	assert.NotEqual(t, p.ID, other.ID)
}

func TestDefaultsDoNotShareConstraints(t *testing.T) {
	a := Defaults()
	a.Constraints[0] = "changed"

	assert.Equal(t, "No copyrighted names", Defaults().Constraints[0])
	assert.Equal(t, "No copyrighted names", DefaultConstraints[0])
}

func TestCloneIsDeep(t *testing.T) {
	p := NewProject()
	p.BookPrompt.KeyPoints = []string{"one"}
	p.BookPrompt.Chapters = []ChapterInfo{{Title: "Intro"}}
	p.ReferenceImages = []ReferenceImage{{ID: "img", Tags: []string{"Style"}}}

	c := p.Clone()
	c.BookPrompt.KeyPoints[0] = "two"
	c.BookPrompt.Chapters[0].Title = "Changed"
	c.ReferenceImages[0].Tags[0] = "Colors"
	c.Constraints[0] = "x"

	assert.Equal(t, "one", p.BookPrompt.KeyPoints[0])
	assert.Equal(t, "Intro", p.BookPrompt.Chapters[0].Title)
	assert.Equal(t, "Style", p.ReferenceImages[0].Tags[0])
	assert.Equal(t, "No copyrighted names", p.Constraints[0])
}

func TestBackfillFillsNilLists(t *testing.T) {
	p := Project{ID: "x", Title: "Bare", ReferenceImages: []ReferenceImage{{ID: "i"}}}

	out := Backfill(p)

	assert.Equal(t, DefaultConstraints, out.Constraints)
	assert.NotNil(t, out.Metadata.Keywords)
	assert.NotNil(t, out.Metadata.BulletPoints)
	assert.NotNil(t, out.BookPrompt.KeyPoints)
	assert.NotNil(t, out.BookPrompt.WhatToAvoid)
	assert.NotNil(t, out.BookPrompt.Chapters)
	assert.NotNil(t, out.InteriorPrompt.RecurringElements)
	assert.NotNil(t, out.ReferenceImages[0].Tags)
	assert.Nil(t, p.ReferenceImages[0].Tags, "input must not be modified")

	// an explicitly empty list is kept empty
	p.Constraints = []string{}
	assert.Empty(t, Backfill(p).Constraints)
}

func TestApplyPatch(t *testing.T) {
	p := NewProject()
	p.CoverPrompt.MainElements = "fox"

	t.Run("sets only given fields", func(t *testing.T) {
		out := ApplyPatch(p, ProjectPatch{Title: Ptr("Renamed"), Tone: Ptr(ToneFriendly)})

		assert.Equal(t, "Renamed", out.Title)
		assert.Equal(t, ToneFriendly, out.Tone)
		assert.Equal(t, p.Language, out.Language)
		assert.Equal(t, "fox", out.CoverPrompt.MainElements)
		assert.Equal(t, DefaultTitle, p.Title)
	})

	t.Run("replaces sub-records wholesale", func(t *testing.T) {
		out := ApplyPatch(p, ProjectPatch{CoverPrompt: &CoverPromptData{Mood: MoodCalm}})

		assert.Equal(t, MoodCalm, out.CoverPrompt.Mood)
		assert.Empty(t, out.CoverPrompt.MainElements)
		assert.Empty(t, out.CoverPrompt.TrimSize)
	})

	t.Run("keeps identity and timestamps", func(t *testing.T) {
		out := ApplyPatch(p, ProjectPatch{Title: Ptr("x")})
		assert.Equal(t, p.ID, out.ID)
		assert.Equal(t, p.CreatedAt, out.CreatedAt)
		assert.Equal(t, p.UpdatedAt, out.UpdatedAt)
	})

	t.Run("result does not alias the patch", func(t *testing.T) {
		keywords := []string{"a"}
		out := ApplyPatch(p, ProjectPatch{Metadata: &AmazonMetadata{Keywords: keywords}})
		keywords[0] = "b"
		assert.Equal(t, "a", out.Metadata.Keywords[0])
	})
}

func TestProjectPatchIsEmpty(t *testing.T) {
	assert.True(t, ProjectPatch{}.IsEmpty())
	assert.False(t, ProjectPatch{USP: Ptr("")}.IsEmpty())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, Tone("friendly").Valid())
	assert.False(t, Tone("grumpy").Valid())
	assert.True(t, TrimSize("8.5x11").Valid())
	assert.False(t, TrimSize("9x12").Valid())
	assert.True(t, DesiredOutput("outline + chapters").Valid())
	assert.Equal(t, "Italian", LanguageIT.DisplayName())
	assert.Equal(t, "English", LanguageCode("FR").DisplayName())
	assert.Len(t, Strings(AllMoods()), 8)
}

func TestPresets(t *testing.T) {
	presets := Presets()
	require.Len(t, presets, 5)

	for _, preset := range presets {
		t.Run(preset.Name, func(t *testing.T) {
			p := ApplyPatch(NewProject(), preset.Patch)
			assert.True(t, p.Tone.Valid())
			assert.True(t, p.CoverPrompt.TrimSize.Valid())
			assert.True(t, p.InteriorPrompt.InteriorType.Valid())
			assert.LessOrEqual(t, len(p.Metadata.Keywords), 7)
		})
	}

	kids, ok := PresetByName("  kids 7–9 — illustrated ")
	require.True(t, ok)
	assert.Equal(t, "Children (7-9)", *kids.Patch.TargetAudience)

	// mutating one result does not leak into the next call
	presets[0].Patch.BookPrompt.KeyPoints[0] = "changed"
	assert.Equal(t, "Friendship", Presets()[0].Patch.BookPrompt.KeyPoints[0])

	_, ok = PresetByName("nope")
	assert.False(t, ok)
}

func TestNewReferenceImage(t *testing.T) {
	img, err := NewReferenceImage("cover.png", pngHeader)
	require.NoError(t, err)

	assert.NotEmpty(t, img.ID)
	assert.Equal(t, "cover.png", img.Name)
	assert.True(t, strings.HasPrefix(img.DataURL, "data:image/png;base64,"), img.DataURL)
	assert.Equal(t, "image/png", ImageMediaType(img.DataURL))
	assert.NotNil(t, img.Tags)
	assert.False(t, img.IsPrimary)

	_, err = NewReferenceImage("notes.txt", []byte("just some text"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = NewReferenceImage("empty.png", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	assert.Equal(t, "", ImageMediaType("not a data url"))
}

func TestAppendUnique(t *testing.T) {
	list := []string{"Exercises"}
	list = AppendUnique(list, "Exercises")
	list = AppendUnique(list, "  Quotes ")
	list = AppendUnique(list, "   ")

	assert.Equal(t, []string{"Exercises", "Quotes"}, list)
	assert.Equal(t, []string{"Quotes"}, RemoveAt(list, 0))
	assert.Equal(t, list, RemoveAt(list, 5))
}

func TestPrimaryImage(t *testing.T) {
	p := NewProject()
	_, ok := p.PrimaryImage()
	assert.False(t, ok)

	p.ReferenceImages = []ReferenceImage{{ID: "a"}, {ID: "b", IsPrimary: true}, {ID: "c", IsPrimary: true}}
	img, ok := p.PrimaryImage()
	require.True(t, ok)
	assert.Equal(t, "b", img.ID)
}
