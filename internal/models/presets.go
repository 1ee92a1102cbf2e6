package models

import "strings"

// Preset is a named starting point for a new project
type Preset struct {
	Name        string
	Description string
	Patch       ProjectPatch
}

// Presets returns the built-in starters. Each call builds fresh values so a
// caller may modify the result freely.
func Presets() []Preset {
	kids46 := kidsPreset("Kids 4–6 — Illustrated", "Picture book for early readers")

	kids79 := kidsPreset("Kids 7–9 — Illustrated", "Chapter book with more plot and light humor")
	kids79.Patch.TargetAudience = Ptr("Children (7-9)")
	kids79.Patch.TargetLength = Ptr("12 chapters")
	kids79.Patch.BookPrompt.CustomStyle = "Slightly longer sentences, more plot, light humor, vivid scenes"

	journal := kidsPreset("Low Content — Journal", "Guided journal with minimal text")
	journal.Patch.BookCategory = Ptr("journal")
	journal.Patch.TargetAudience = Ptr("Adults")
	journal.Patch.TargetLength = Ptr("120 pages")
	journal.Patch.DesiredOutput = Ptr(DesiredExercises)
	journal.Patch.BookPrompt.CustomStyle = "Minimal text; prompts for journaling; clean layout"
	journal.Patch.InteriorPrompt.InteriorType = InteriorJournal
	journal.Patch.InteriorPrompt.PageSize = Trim6x9
	journal.Patch.InteriorPrompt.LayoutStyle = LayoutMinimal
	journal.Patch.InteriorPrompt.RecurringElements = []string{"Clean minimalist interior layout prompts", "Page numbers"}
	journal.Patch.CoverPrompt.TrimSize = Trim6x9

	coloring := kidsPreset("Coloring Book — Kids", "Black-and-white line art pages")
	coloring.Patch.BookCategory = Ptr("coloring book")
	coloring.Patch.TargetLength = Ptr("40 pages")
	coloring.Patch.BookPrompt.CustomStyle = "Short captions + black-and-white line art prompts"
	coloring.Patch.InteriorPrompt.InteriorType = InteriorColoringBook
	coloring.Patch.InteriorPrompt.PageSize = Trim85x11
	coloring.Patch.InteriorPrompt.RecurringElements = []string{"Line-art, high contrast, no shading, thick outlines"}
	coloring.Patch.CoverPrompt.TrimSize = Trim85x11

	guide := kidsPreset("Short Non-fiction — Guide", "Practical how-to guide for adults")
	guide.Patch.BookCategory = Ptr("non-fiction")
	guide.Patch.TargetAudience = Ptr("Adults")
	guide.Patch.TargetLength = Ptr("8 chapters")
	guide.Patch.Tone = Ptr(ToneProfessional)
	guide.Patch.Constraints = Ptr(cloneStrings(DefaultConstraints))
	guide.Patch.BookPrompt.CustomStyle = "Structured headings, bullet points, examples, actionable steps"
	guide.Patch.BookPrompt.KeyPoints = []string{"Practical examples", "Checklists", "Chapter summaries"}
	guide.Patch.CoverPrompt = &CoverPromptData{
		VisualStyle:     VisualMinimal,
		Mood:            MoodProfessional,
		MainElements:    "Simple symbolic icon, generous negative space",
		ColorPalette:    "Two-tone, high contrast",
		TypographyStyle: "Bold sans-serif title, clean subtitle",
		TrimSize:        Trim6x9,
	}
	guide.Patch.InteriorPrompt.InteriorType = InteriorTextBook
	guide.Patch.InteriorPrompt.PageSize = Trim6x9
	guide.Patch.InteriorPrompt.LayoutStyle = LayoutModern
	guide.Patch.InteriorPrompt.RecurringElements = []string{"Headers", "Page numbers", "Boxes"}
	guide.Patch.Metadata = &AmazonMetadata{
		Keywords:      []string{"practical guide", "self-help", "how to"},
		BisacCategory: "Self-Help / General",
		Description:   "A short, practical guide with clear steps and real examples.",
		BulletPoints:  []string{},
	}

	return []Preset{kids46, kids79, journal, coloring, guide}
}

// PresetByName finds a preset by name, ignoring case and surrounding spaces
func PresetByName(name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

func kidsPreset(name, description string) Preset {
	return Preset{
		Name:        name,
		Description: description,
		Patch: ProjectPatch{
			Language:       Ptr(LanguageEN),
			BookCategory:   Ptr("children"),
			TargetAudience: Ptr("Children (4-6)"),
			TargetLength:   Ptr("20 short chapters"),
			Tone:           Ptr(TonePlayful),
			Constraints: Ptr([]string{
				"No copyrighted characters/brands",
				"Avoid sensitive content",
				"Keep it age-appropriate",
			}),
			DesiredOutput: Ptr(DesiredFullChapters),
			Metadata: &AmazonMetadata{
				Keywords:      []string{"children's book", "picture book", "friendship", "kindness", "courage"},
				BisacCategory: "Juvenile Fiction",
				Description:   "A warm and playful story for young readers, filled with kindness and gentle adventure.",
				BulletPoints:  []string{},
			},
			BookPrompt: &BookPromptData{
				KeyPoints:           []string{"Friendship", "Courage", "Kindness"},
				WhatToAvoid:         []string{},
				WritingStyle:        WritingStyleCustom,
				CustomStyle:         "Simple language, short sentences, repetition, strong visuals",
				AutoGenerateOutline: true,
				Chapters:            []ChapterInfo{},
				OutputFormat:        OutputMarkdown,
			},
			CoverPrompt: &CoverPromptData{
				VisualStyle:     VisualFlat,
				Mood:            MoodPlayful,
				MainElements:    "Centered main character, simple background, clear space for title, strong silhouette",
				ColorPalette:    "Warm pastels, high contrast for readability",
				TypographyStyle: "Large readable title, rounded playful font style (describe only, do not name copyrighted fonts)",
				TrimSize:        Trim85x85,
				NegativePrompt:  "No logos/brands. No copyrighted characters.",
			},
			InteriorPrompt: &InteriorPromptData{
				InteriorType:      InteriorTextBook,
				PageSize:          Trim85x85,
				Margins:           MarginsStandard,
				RecurringElements: []string{"Consistent protagonist appearance across scenes"},
				LayoutStyle:       LayoutPlayful,
			},
		},
	}
}
