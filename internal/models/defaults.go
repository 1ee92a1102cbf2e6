package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is given to projects created without a title
const DefaultTitle = "Untitled Project"

// DefaultConstraints are the compliance constraints every new project starts with
var DefaultConstraints = []string{
	"No copyrighted names",
	"No registered trademarks",
	"Safe content only",
}

// Now is the clock used for project timestamps. Values are UTC with millisecond
// precision so they survive a JSON round trip unchanged. Tests may replace it.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NewID returns a fresh opaque identifier
func NewID() string {
	return uuid.NewString()
}

// Defaults returns a project holding every default value with an empty ID and
// zero timestamps. It is the base that imported documents are decoded onto.
func Defaults() Project {
	return Project{
		Title:         DefaultTitle,
		Language:      LanguageEN,
		Tone:          ToneProfessional,
		Constraints:   cloneStrings(DefaultConstraints),
		DesiredOutput: DesiredFullChapters,
		Metadata: AmazonMetadata{
			Keywords:     []string{},
			BulletPoints: []string{},
		},
		BookPrompt: BookPromptData{
			KeyPoints:           []string{},
			WhatToAvoid:         []string{},
			WritingStyle:        WritingStyleProfessional,
			AutoGenerateOutline: true,
			Chapters:            []ChapterInfo{},
			OutputFormat:        OutputMarkdown,
		},
		CoverPrompt: CoverPromptData{
			TrimSize: Trim6x9,
		},
		InteriorPrompt: InteriorPromptData{
			PageSize:          Trim6x9,
			Margins:           MarginsStandard,
			RecurringElements: []string{},
			LayoutStyle:       LayoutMinimal,
		},
		ReferenceImages: []ReferenceImage{},
	}
}

// NewProject returns a default project with a fresh ID and both timestamps set
// to the same instant
func NewProject() Project {
	p := Defaults()
	p.ID = NewID()
	now := Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p
}

// Backfill replaces missing lists with their default values. Scalars are left
// alone because an empty string is a legitimate value.
func Backfill(p Project) Project {
	p = p.Clone()
	d := Defaults()
	if p.Constraints == nil {
		p.Constraints = d.Constraints
	}
	if p.Metadata.Keywords == nil {
		p.Metadata.Keywords = d.Metadata.Keywords
	}
	if p.Metadata.BulletPoints == nil {
		p.Metadata.BulletPoints = d.Metadata.BulletPoints
	}
	if p.BookPrompt.KeyPoints == nil {
		p.BookPrompt.KeyPoints = d.BookPrompt.KeyPoints
	}
	if p.BookPrompt.WhatToAvoid == nil {
		p.BookPrompt.WhatToAvoid = d.BookPrompt.WhatToAvoid
	}
	if p.BookPrompt.Chapters == nil {
		p.BookPrompt.Chapters = d.BookPrompt.Chapters
	}
	if p.InteriorPrompt.RecurringElements == nil {
		p.InteriorPrompt.RecurringElements = d.InteriorPrompt.RecurringElements
	}
	if p.ReferenceImages == nil {
		p.ReferenceImages = d.ReferenceImages
	}
	for i := range p.ReferenceImages {
		if p.ReferenceImages[i].Tags == nil {
			p.ReferenceImages[i].Tags = []string{}
		}
	}
	return p
}
