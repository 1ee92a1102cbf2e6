package models

import (
	"strings"
	"time"
)

// ChapterInfo is one entry of an explicit chapter outline
type ChapterInfo struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// ReferenceImage is an uploaded image attached to a project.
// DataURL is carried as an opaque blob and never decoded.
type ReferenceImage struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	DataURL   string   `json:"dataUrl" yaml:"data_url"`
	Notes     string   `json:"notes" yaml:"notes"`
	Tags      []string `json:"tags" yaml:"tags"`
	IsPrimary bool     `json:"isPrimary" yaml:"is_primary"`
}

// AmazonMetadata holds the listing metadata used by the metadata pack
type AmazonMetadata struct {
	Title         string   `json:"title" yaml:"title"`
	Subtitle      string   `json:"subtitle" yaml:"subtitle"`
	Keywords      []string `json:"keywords" yaml:"keywords"` // soft cap of 7, see validation
	BisacCategory string   `json:"bisacCategory" yaml:"bisac_category"`
	Description   string   `json:"description" yaml:"description"`
	BulletPoints  []string `json:"bulletPoints" yaml:"bullet_points"`
}

// BookPromptData drives the book writing prompt
type BookPromptData struct {
	MainIdea             string        `json:"mainIdea" yaml:"main_idea"`
	ReaderTransformation string        `json:"readerTransformation" yaml:"reader_transformation"`
	KeyPoints            []string      `json:"keyPoints" yaml:"key_points"`
	WhatToAvoid          []string      `json:"whatToAvoid" yaml:"what_to_avoid"`
	WritingStyle         WritingStyle  `json:"writingStyle" yaml:"writing_style"`
	CustomStyle          string        `json:"customStyle" yaml:"custom_style"` // used when WritingStyle is custom
	AutoGenerateOutline  bool          `json:"autoGenerateOutline" yaml:"auto_generate_outline"`
	Chapters             []ChapterInfo `json:"chapters" yaml:"chapters"`
	WriteLikeInspiration string        `json:"writeLikeInspiration" yaml:"write_like_inspiration"`
	OutputFormat         OutputFormat  `json:"outputFormat" yaml:"output_format"`
}

// CoverPromptData drives the cover generation prompt
type CoverPromptData struct {
	VisualStyle     VisualStyle `json:"visualStyle" yaml:"visual_style"`
	Mood            Mood        `json:"mood" yaml:"mood"`
	MainElements    string      `json:"mainElements" yaml:"main_elements"`
	ColorPalette    string      `json:"colorPalette" yaml:"color_palette"`
	TypographyStyle string      `json:"typographyStyle" yaml:"typography_style"`
	TrimSize        TrimSize    `json:"trimSize" yaml:"trim_size"`
	CoverTitle      string      `json:"coverTitle" yaml:"cover_title"`
	CoverSubtitle   string      `json:"coverSubtitle" yaml:"cover_subtitle"`
	AuthorName      string      `json:"authorName" yaml:"author_name"`
	NegativePrompt  string      `json:"negativePrompt" yaml:"negative_prompt"`
}

// InteriorPromptData drives the interior layout prompt
type InteriorPromptData struct {
	InteriorType      InteriorType `json:"interiorType" yaml:"interior_type"`
	PageSize          TrimSize     `json:"pageSize" yaml:"page_size"`
	Margins           Margins      `json:"margins" yaml:"margins"`
	RecurringElements []string     `json:"recurringElements" yaml:"recurring_elements"`
	LayoutStyle       LayoutStyle  `json:"layoutStyle" yaml:"layout_style"`
}

// Project is the root record describing one book's generation parameters
type Project struct {
	ID              string             `json:"id" yaml:"id"`
	Title           string             `json:"title" yaml:"title"`
	Language        LanguageCode       `json:"language" yaml:"language"`
	BookCategory    string             `json:"bookCategory" yaml:"book_category"`
	TargetAudience  string             `json:"targetAudience" yaml:"target_audience"`
	USP             string             `json:"usp" yaml:"usp"`
	TargetLength    string             `json:"targetLength" yaml:"target_length"`
	Tone            Tone               `json:"tone" yaml:"tone"`
	Constraints     []string           `json:"constraints" yaml:"constraints"`
	DesiredOutput   DesiredOutput      `json:"desiredOutput" yaml:"desired_output"`
	Metadata        AmazonMetadata     `json:"metadata" yaml:"metadata"`
	BookPrompt      BookPromptData     `json:"bookPrompt" yaml:"book_prompt"`
	CoverPrompt     CoverPromptData    `json:"coverPrompt" yaml:"cover_prompt"`
	InteriorPrompt  InteriorPromptData `json:"interiorPrompt" yaml:"interior_prompt"`
	ReferenceImages []ReferenceImage   `json:"referenceImages" yaml:"reference_images"`
	CreatedAt       time.Time          `json:"createdAt" yaml:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" yaml:"updated_at"`
}

// Clone returns a deep copy so the result shares no slices with p
func (p Project) Clone() Project {
	c := p
	c.Constraints = cloneStrings(p.Constraints)
	c.Metadata.Keywords = cloneStrings(p.Metadata.Keywords)
	c.Metadata.BulletPoints = cloneStrings(p.Metadata.BulletPoints)
	c.BookPrompt.KeyPoints = cloneStrings(p.BookPrompt.KeyPoints)
	c.BookPrompt.WhatToAvoid = cloneStrings(p.BookPrompt.WhatToAvoid)
	if p.BookPrompt.Chapters != nil {
		c.BookPrompt.Chapters = append([]ChapterInfo{}, p.BookPrompt.Chapters...)
	}
	c.InteriorPrompt.RecurringElements = cloneStrings(p.InteriorPrompt.RecurringElements)
	if p.ReferenceImages != nil {
		c.ReferenceImages = make([]ReferenceImage, len(p.ReferenceImages))
		for i, img := range p.ReferenceImages {
			img.Tags = cloneStrings(img.Tags)
			c.ReferenceImages[i] = img
		}
	}
	return c
}

// DisplayTitle returns the title, falling back to the ID for untitled records
func (p Project) DisplayTitle() string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	return p.ID
}

// PrimaryImage returns the first image flagged as primary
func (p Project) PrimaryImage() (ReferenceImage, bool) {
	for _, img := range p.ReferenceImages {
		if img.IsPrimary {
			return img, true
		}
	}
	return ReferenceImage{}, false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
