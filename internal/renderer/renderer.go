package renderer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dpshade/pocket-kdp/internal/models"
)

// Kind selects one of the generated documents
type Kind string

const (
	KindBook     Kind = "book"
	KindCover    Kind = "cover"
	KindInterior Kind = "interior"
	KindMetadata Kind = "metadata"
)

// AllKinds lists every document kind in display order
func AllKinds() []Kind {
	return []Kind{KindBook, KindCover, KindInterior, KindMetadata}
}

// ParseKind accepts a kind name in any case
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown prompt kind %q (want one of book, cover, interior, metadata)", s)
}

// Renderer turns a project into prompt documents. It holds a private copy of
// the project so rendering never observes later edits.
type Renderer struct {
	project models.Project
}

// NewRenderer creates a new renderer instance
func NewRenderer(project models.Project) *Renderer {
	return &Renderer{project: project.Clone()}
}

// Render returns the document for kind
func (r *Renderer) Render(kind Kind) (string, error) {
	switch kind {
	case KindBook:
		return r.BookPrompt(), nil
	case KindCover:
		return r.CoverPrompt(), nil
	case KindInterior:
		return r.InteriorPrompt(), nil
	case KindMetadata:
		return r.MetadataPack(), nil
	default:
		return "", fmt.Errorf("unknown prompt kind %q", kind)
	}
}

// Snapshot renders the three prompts stored alongside an exported pack
func (r *Renderer) Snapshot() models.PromptsSnapshot {
	return models.PromptsSnapshot{
		Book:     r.BookPrompt(),
		Cover:    r.CoverPrompt(),
		Interior: r.InteriorPrompt(),
	}
}

// RenderMessages renders kind as a JSON message array for LLM APIs
func (r *Renderer) RenderMessages(kind Kind) (string, error) {
	text, err := r.Render(kind)
	if err != nil {
		return "", err
	}

	messages := []Message{
		{
			Role:    "user",
			Content: text,
		},
	}

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	return string(jsonBytes), nil
}

// Message represents a chat message for LLM APIs
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// lines accumulates output; String joins with "\n" and adds no trailing newline
type lines []string

func (l *lines) add(format string, args ...any) {
	*l = append(*l, fmt.Sprintf(format, args...))
}

// text appends s verbatim; user text may contain '%'
func (l *lines) text(s string) { *l = append(*l, s) }

func (l *lines) blank() { *l = append(*l, "") }

func (l lines) String() string { return strings.Join(l, "\n") }

// BookPrompt renders the instructions for writing the manuscript
func (r *Renderer) BookPrompt() string {
	p := r.project
	b := p.BookPrompt
	var out lines

	category := p.BookCategory
	if category == "" {
		category = "non-fiction"
	}
	language := p.Language.DisplayName()

	out.add("# BOOK WRITING PROMPT")
	out.blank()
	out.add("## ROLE")
	out.add("You are a professional book author and content strategist specializing in %s books. You write in %s. Your writing is %s, engaging, and tailored for the target audience.",
		category, language, p.Tone)
	out.blank()

	out.add("## PROJECT OVERVIEW")
	out.add("- **Title**: %s", p.Title)
	out.add("- **Category**: %s", p.BookCategory)
	out.add("- **Language**: %s", p.Language)
	out.add("- **Target Audience**: %s", p.TargetAudience)
	out.add("- **Unique Selling Point**: %s", p.USP)
	out.add("- **Target Length**: %s", p.TargetLength)
	out.add("- **Tone**: %s", p.Tone)
	out.blank()

	out.add("## MAIN IDEA")
	out.text(b.MainIdea)
	out.blank()

	if b.ReaderTransformation != "" {
		out.add("## READER TRANSFORMATION")
		out.add("After reading this book, the reader should: %s", b.ReaderTransformation)
		out.blank()
	}

	if len(b.KeyPoints) > 0 {
		out.add("## KEY POINTS TO INCLUDE")
		for i, pt := range b.KeyPoints {
			out.add("%d. %s", i+1, pt)
		}
		out.blank()
	}

	if len(b.WhatToAvoid) > 0 {
		out.add("## WHAT TO AVOID")
		for _, a := range b.WhatToAvoid {
			out.add("- ❌ %s", a)
		}
		out.blank()
	}

	out.add("## WRITING STYLE")
	if b.WritingStyle == models.WritingStyleCustom && b.CustomStyle != "" {
		out.add("Style: %s — %s", b.WritingStyle, b.CustomStyle)
	} else {
		out.add("Style: %s", b.WritingStyle)
	}
	if b.WriteLikeInspiration != "" {
		out.add("Inspiration: Write in a style similar to %s", b.WriteLikeInspiration)
	}
	out.blank()

	switch {
	case len(b.Chapters) > 0:
		out.add("## CHAPTER STRUCTURE")
		for i, ch := range b.Chapters {
			out.add("### Chapter %d: %s", i+1, ch.Title)
			out.text(ch.Description)
		}
		out.blank()
	case b.AutoGenerateOutline:
		out.add("## STRUCTURE")
		out.add("Auto-generate a logical chapter outline based on the main idea and key points above.")
		out.blank()
	}

	if len(p.Constraints) > 0 {
		out.add("## CONSTRAINTS & COMPLIANCE")
		for _, c := range p.Constraints {
			out.add("- ⚠️ %s", c)
		}
		out.blank()
	}

	out.add("## DESIRED OUTPUT")
	out.add("Produce: %s", p.DesiredOutput)
	out.add("Format: %s", b.OutputFormat)
	out.blank()

	out.add("## FORMATTING RULES")
	out.add("- Use clear headings and subheadings")
	out.add("- Keep paragraphs short and readable")
	out.add("- Include transitions between sections")
	out.add("- Use bullet points for lists when appropriate")
	out.blank()

	if len(p.ReferenceImages) > 0 {
		out.add("## REFERENCE IMAGES")
		for _, img := range p.ReferenceImages {
			primary := ""
			if img.IsPrimary {
				primary = " ⭐ PRIMARY"
			}
			out.add("- **%s**: %s [Tags: %s]%s", img.Name, img.Notes, strings.Join(img.Tags, ", "), primary)
		}
		out.blank()
	}

	out.add("## FINAL VERIFICATION CHECKLIST")
	out.add("Before delivering, verify:")
	out.add("- [ ] Content matches the specified tone (%s)", p.Tone)
	out.add("- [ ] Target audience needs are addressed (%s)", p.TargetAudience)
	out.add("- [ ] All constraints are respected")
	out.add("- [ ] Content length is appropriate (%s)", p.TargetLength)
	out.add("- [ ] No copyrighted material is used")
	out.add("- [ ] Language is %s", language)

	return out.String()
}

// CoverPrompt renders the image generation prompt for the front cover
func (r *Renderer) CoverPrompt() string {
	c := r.project.CoverPrompt
	var out lines

	title := c.CoverTitle
	if title == "" {
		title = r.project.Title
	}

	out.add("# BOOK COVER GENERATION PROMPT")
	out.blank()
	out.add("## IMAGE GENERATION PROMPT")
	out.add("Create a %s style book cover illustration.", c.VisualStyle)
	out.add("Mood: %s", c.Mood)
	out.add("Main elements: %s", c.MainElements)
	out.add("Color palette: %s", c.ColorPalette)
	out.add("Trim size: %s inches", c.TrimSize)
	out.blank()

	out.add("## TYPOGRAPHY")
	out.add(`- Title: "%s"`, title)
	if c.CoverSubtitle != "" {
		out.add(`- Subtitle: "%s"`, c.CoverSubtitle)
	}
	if c.AuthorName != "" {
		out.add(`- Author: "%s"`, c.AuthorName)
	}
	out.add("- Typography style: %s", c.TypographyStyle)
	out.blank()

	var combined strings.Builder
	fmt.Fprintf(&combined, `Design a complete %s" book cover in %s style. The mood is %s. Feature %s. Use a %s color palette. Typography style: %s. Title: "%s"`,
		c.TrimSize, c.VisualStyle, c.Mood, c.MainElements, c.ColorPalette, c.TypographyStyle, title)
	if c.CoverSubtitle != "" {
		fmt.Fprintf(&combined, `, Subtitle: "%s"`, c.CoverSubtitle)
	}
	if c.AuthorName != "" {
		fmt.Fprintf(&combined, `, Author: "%s"`, c.AuthorName)
	}
	combined.WriteString(".")

	out.add("## IMAGE + TYPOGRAPHY COMBINED PROMPT")
	out.text(combined.String())
	out.blank()

	if c.NegativePrompt != "" {
		out.add("## NEGATIVE PROMPT (What to Avoid)")
		out.text(c.NegativePrompt)
		out.blank()
	}

	out.add("## KDP COVER SPECIFICATIONS")
	out.add(`- Trim size: %s"`, c.TrimSize)
	out.add("- Resolution: 300 DPI minimum")
	out.add("- Color space: RGB (convert to CMYK for print)")
	out.add(`- Bleed: 0.125" on all sides`)
	out.add(`- Safe zone: Keep text 0.25" from trim edge`)

	return out.String()
}

// InteriorPrompt renders the page layout instructions
func (r *Renderer) InteriorPrompt() string {
	i := r.project.InteriorPrompt
	var out lines

	out.add("# INTERIOR DESIGN PROMPT")
	out.blank()
	out.add("## LAYOUT SPECIFICATIONS")
	out.add("- Interior type: %s", i.InteriorType)
	out.add(`- Page size: %s"`, i.PageSize)
	out.add("- Margins: %s", i.Margins)
	out.add("- Layout style: %s", i.LayoutStyle)
	out.blank()

	if len(i.RecurringElements) > 0 {
		out.add("## RECURRING ELEMENTS")
		for _, el := range i.RecurringElements {
			out.add("- %s", el)
		}
		out.blank()
	}

	out.add("## DESIGN PROMPT")
	out.add(`Design the interior layout for a %s (%s"). Style: %s. Include: %s. Use %s margins with proper bleed settings for KDP print.`,
		i.InteriorType, i.PageSize, i.LayoutStyle, strings.Join(i.RecurringElements, ", "), i.Margins)
	out.blank()

	out.add("## KDP PRE-PUBLICATION CHECKLIST")
	out.add(`- [ ] Page size matches KDP requirements (%s")`, i.PageSize)
	out.add("- [ ] Margins meet KDP minimum requirements")
	out.add("- [ ] Bleed settings are correct (if applicable)")
	out.add("- [ ] Fonts are embedded in PDF")
	out.add("- [ ] Images are 300 DPI minimum")
	out.add("- [ ] No content in bleed area")
	out.add("- [ ] Page count is within KDP limits")
	out.add("- [ ] File format: PDF/X-1a or PDF/X-3")

	return out.String()
}

// MetadataPack renders the listing metadata in a copy-friendly layout
func (r *Renderer) MetadataPack() string {
	m := r.project.Metadata
	var out lines

	title := m.Title
	if title == "" {
		title = r.project.Title
	}

	out.add("# KDP METADATA PACK")
	out.blank()
	out.add("**Title**: %s", title)
	out.add("**Subtitle**: %s", m.Subtitle)
	out.add("**BISAC Category**: %s", m.BisacCategory)
	out.blank()
	out.add("## Keywords")
	for i, kw := range m.Keywords {
		out.add("%d. %s", i+1, kw)
	}
	out.blank()
	out.add("## Description")
	out.text(m.Description)
	out.blank()
	out.add("## Bullet Points")
	for _, bp := range m.BulletPoints {
		out.add("• %s", bp)
	}

	return out.String()
}
