package models

// ProjectPatch is a partial update. A nil field is left untouched; a set field
// replaces the whole attribute, sub-records included. Identity and timestamps
// are not patchable.
type ProjectPatch struct {
	Title           *string             `json:"title,omitempty" yaml:"title,omitempty"`
	Language        *LanguageCode       `json:"language,omitempty" yaml:"language,omitempty"`
	BookCategory    *string             `json:"bookCategory,omitempty" yaml:"book_category,omitempty"`
	TargetAudience  *string             `json:"targetAudience,omitempty" yaml:"target_audience,omitempty"`
	USP             *string             `json:"usp,omitempty" yaml:"usp,omitempty"`
	TargetLength    *string             `json:"targetLength,omitempty" yaml:"target_length,omitempty"`
	Tone            *Tone               `json:"tone,omitempty" yaml:"tone,omitempty"`
	Constraints     *[]string           `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	DesiredOutput   *DesiredOutput      `json:"desiredOutput,omitempty" yaml:"desired_output,omitempty"`
	Metadata        *AmazonMetadata     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	BookPrompt      *BookPromptData     `json:"bookPrompt,omitempty" yaml:"book_prompt,omitempty"`
	CoverPrompt     *CoverPromptData    `json:"coverPrompt,omitempty" yaml:"cover_prompt,omitempty"`
	InteriorPrompt  *InteriorPromptData `json:"interiorPrompt,omitempty" yaml:"interior_prompt,omitempty"`
	ReferenceImages *[]ReferenceImage   `json:"referenceImages,omitempty" yaml:"reference_images,omitempty"`
}

// Ptr returns a pointer to v. Handy when building patches.
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether the patch sets no field at all
func (pp ProjectPatch) IsEmpty() bool {
	return pp == ProjectPatch{}
}

// ApplyPatch returns p with the patch merged in. p is not modified and the
// result shares no slices with either argument.
func ApplyPatch(p Project, pp ProjectPatch) Project {
	out := p.Clone()
	if pp.Title != nil {
		out.Title = *pp.Title
	}
	if pp.Language != nil {
		out.Language = *pp.Language
	}
	if pp.BookCategory != nil {
		out.BookCategory = *pp.BookCategory
	}
	if pp.TargetAudience != nil {
		out.TargetAudience = *pp.TargetAudience
	}
	if pp.USP != nil {
		out.USP = *pp.USP
	}
	if pp.TargetLength != nil {
		out.TargetLength = *pp.TargetLength
	}
	if pp.Tone != nil {
		out.Tone = *pp.Tone
	}
	if pp.DesiredOutput != nil {
		out.DesiredOutput = *pp.DesiredOutput
	}

	// Sub-records go through a scratch project so Clone does the deep copy
	var src Project
	if pp.Constraints != nil {
		src.Constraints = *pp.Constraints
	}
	if pp.Metadata != nil {
		src.Metadata = *pp.Metadata
	}
	if pp.BookPrompt != nil {
		src.BookPrompt = *pp.BookPrompt
	}
	if pp.InteriorPrompt != nil {
		src.InteriorPrompt = *pp.InteriorPrompt
	}
	if pp.ReferenceImages != nil {
		src.ReferenceImages = *pp.ReferenceImages
	}
	src = src.Clone()

	if pp.Constraints != nil {
		out.Constraints = src.Constraints
	}
	if pp.Metadata != nil {
		out.Metadata = src.Metadata
	}
	if pp.BookPrompt != nil {
		out.BookPrompt = src.BookPrompt
	}
	if pp.CoverPrompt != nil {
		out.CoverPrompt = *pp.CoverPrompt
	}
	if pp.InteriorPrompt != nil {
		out.InteriorPrompt = src.InteriorPrompt
	}
	if pp.ReferenceImages != nil {
		out.ReferenceImages = src.ReferenceImages
	}
	return out
}
