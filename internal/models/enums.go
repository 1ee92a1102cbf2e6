package models

// LanguageCode is the output language of the generated book
type LanguageCode string

const (
	LanguageEN LanguageCode = "EN"
	LanguageIT LanguageCode = "IT"
)

// DisplayName returns the English name of the language used inside prompts.
// Anything other than IT reads as English.
func (l LanguageCode) DisplayName() string {
	if l == LanguageIT {
		return "Italian"
	}
	return "English"
}

func (l LanguageCode) Valid() bool { return contains(AllLanguages(), l) }

func AllLanguages() []LanguageCode { return []LanguageCode{LanguageEN, LanguageIT} }

// Tone of the book's prose
type Tone string

const (
	ToneProfessional   Tone = "professional"
	ToneFriendly       Tone = "friendly"
	ToneHumorous       Tone = "humorous"
	ToneAcademic       Tone = "academic"
	ToneConversational Tone = "conversational"
	TonePlayful        Tone = "playful"
	ToneInspirational  Tone = "inspirational"
	ToneFormal         Tone = "formal"
)

func (t Tone) Valid() bool { return contains(AllTones(), t) }

func AllTones() []Tone {
	return []Tone{ToneProfessional, ToneFriendly, ToneHumorous, ToneAcademic,
		ToneConversational, TonePlayful, ToneInspirational, ToneFormal}
}

// WritingStyle selects the prose style; WritingStyleCustom enables CustomStyle
type WritingStyle string

const (
	WritingStyleProfessional   WritingStyle = "professional"
	WritingStyleFriendly       WritingStyle = "friendly"
	WritingStyleHumorous       WritingStyle = "humorous"
	WritingStyleAcademic       WritingStyle = "academic"
	WritingStyleConversational WritingStyle = "conversational"
	WritingStylePlayful        WritingStyle = "playful"
	WritingStyleMinimal        WritingStyle = "minimal"
	WritingStylePoetic         WritingStyle = "poetic"
	WritingStyleCustom         WritingStyle = "custom"
)

func (w WritingStyle) Valid() bool { return contains(AllWritingStyles(), w) }

func AllWritingStyles() []WritingStyle {
	return []WritingStyle{WritingStyleProfessional, WritingStyleFriendly, WritingStyleHumorous,
		WritingStyleAcademic, WritingStyleConversational, WritingStylePlayful,
		WritingStyleMinimal, WritingStylePoetic, WritingStyleCustom}
}

// DesiredOutput is what the writing model is asked to produce
type DesiredOutput string

const (
	DesiredOutline         DesiredOutput = "outline"
	DesiredFullChapters    DesiredOutput = "full chapters"
	DesiredExercises       DesiredOutput = "exercises"
	DesiredOutlineChapters DesiredOutput = "outline + chapters"
)

func (d DesiredOutput) Valid() bool { return contains(AllDesiredOutputs(), d) }

func AllDesiredOutputs() []DesiredOutput {
	return []DesiredOutput{DesiredOutline, DesiredFullChapters, DesiredExercises, DesiredOutlineChapters}
}

// OutputFormat of the generated manuscript
type OutputFormat string

const (
	OutputMarkdown   OutputFormat = "markdown"
	OutputStructured OutputFormat = "structured"
	OutputJSON       OutputFormat = "json"
)

func (o OutputFormat) Valid() bool { return contains(AllOutputFormats(), o) }

func AllOutputFormats() []OutputFormat {
	return []OutputFormat{OutputMarkdown, OutputStructured, OutputJSON}
}

type VisualStyle string

const (
	VisualWatercolor     VisualStyle = "watercolor"
	Visual3D             VisualStyle = "3D"
	VisualFlat           VisualStyle = "flat"
	VisualManga          VisualStyle = "manga"
	VisualMinimal        VisualStyle = "minimal"
	VisualPhotorealistic VisualStyle = "photorealistic"
	VisualVintage        VisualStyle = "vintage"
	VisualAbstract       VisualStyle = "abstract"
	VisualHandDrawn      VisualStyle = "hand-drawn"
)

func (v VisualStyle) Valid() bool { return contains(AllVisualStyles(), v) }

func AllVisualStyles() []VisualStyle {
	return []VisualStyle{VisualWatercolor, Visual3D, VisualFlat, VisualManga, VisualMinimal,
		VisualPhotorealistic, VisualVintage, VisualAbstract, VisualHandDrawn}
}

type Mood string

const (
	MoodCalm         Mood = "calm"
	MoodEnergetic    Mood = "energetic"
	MoodDark         Mood = "dark"
	MoodPlayful      Mood = "playful"
	MoodMysterious   Mood = "mysterious"
	MoodRomantic     Mood = "romantic"
	MoodProfessional Mood = "professional"
	MoodWhimsical    Mood = "whimsical"
)

func (m Mood) Valid() bool { return contains(AllMoods(), m) }

func AllMoods() []Mood {
	return []Mood{MoodCalm, MoodEnergetic, MoodDark, MoodPlayful, MoodMysterious,
		MoodRomantic, MoodProfessional, MoodWhimsical}
}

// TrimSize is a KDP paperback trim size in inches, used for covers and pages
type TrimSize string

const (
	Trim5x8   TrimSize = "5x8"
	Trim525x8 TrimSize = "5.25x8"
	Trim55x85 TrimSize = "5.5x8.5"
	Trim6x9   TrimSize = "6x9"
	Trim7x10  TrimSize = "7x10"
	Trim8x10  TrimSize = "8x10"
	Trim85x85 TrimSize = "8.5x8.5"
	Trim85x11 TrimSize = "8.5x11"
)

func (t TrimSize) Valid() bool { return contains(AllTrimSizes(), t) }

func AllTrimSizes() []TrimSize {
	return []TrimSize{Trim5x8, Trim525x8, Trim55x85, Trim6x9, Trim7x10, Trim8x10, Trim85x85, Trim85x11}
}

type InteriorType string

const (
	InteriorTextBook     InteriorType = "text book"
	InteriorColoringBook InteriorType = "coloring book"
	InteriorJournal      InteriorType = "journal"
	InteriorWorkbook     InteriorType = "workbook"
	InteriorPlanner      InteriorType = "planner"
)

func (i InteriorType) Valid() bool { return contains(AllInteriorTypes(), i) }

func AllInteriorTypes() []InteriorType {
	return []InteriorType{InteriorTextBook, InteriorColoringBook, InteriorJournal, InteriorWorkbook, InteriorPlanner}
}

type Margins string

const (
	MarginsStandard Margins = "standard"
	MarginsNarrow   Margins = "narrow"
	MarginsWide     Margins = "wide"
	MarginsCustom   Margins = "custom"
)

func (m Margins) Valid() bool { return contains(AllMargins(), m) }

func AllMargins() []Margins {
	return []Margins{MarginsStandard, MarginsNarrow, MarginsWide, MarginsCustom}
}

type LayoutStyle string

const (
	LayoutMinimal   LayoutStyle = "minimal"
	LayoutModern    LayoutStyle = "modern"
	LayoutPlayful   LayoutStyle = "playful"
	LayoutClassic   LayoutStyle = "classic"
	LayoutEditorial LayoutStyle = "editorial"
)

func (l LayoutStyle) Valid() bool { return contains(AllLayoutStyles(), l) }

func AllLayoutStyles() []LayoutStyle {
	return []LayoutStyle{LayoutMinimal, LayoutModern, LayoutPlayful, LayoutClassic, LayoutEditorial}
}

// BookCategories lists the suggested categories. The field itself is free text.
var BookCategories = []string{
	"children", "low content", "coloring book", "journal", "cookbook", "business",
	"romance", "self-help", "fiction", "non-fiction", "education", "other",
}

func contains[T ~string](all []T, v T) bool {
	for _, a := range all {
		if a == v {
			return true
		}
	}
	return false
}

// Strings converts an enum listing to plain strings, mostly for flag help and completion
func Strings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
