package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
)

// patchFlags binds one flag per editable project attribute. Only flags the
// user actually passed end up in the patch.
type patchFlags struct {
	title, language, category, audience, usp, length, tone, desiredOutput string
	constraints                                                           []string

	mainIdea, transformation, writingStyle, customStyle, inspiration, outputFormat string
	keyPoints, avoid, chapters                                                     []string
	autoOutline                                                                    bool

	visualStyle, mood, mainElements, palette, typography, trimSize string
	coverTitle, coverSubtitle, author, negativePrompt              string
	interiorType, pageSize, margins, layoutStyle                   string
	recurring                                                      []string
	metaTitle, metaSubtitle, bisac, description                    string
	keywords, bullets                                              []string
}

func (f *patchFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()

	fs.StringVar(&f.title, "title", "", "project title")
	fs.StringVar(&f.language, "language", "", "language: "+strings.Join(models.Strings(models.AllLanguages()), ", "))
	fs.StringVar(&f.category, "category", "", "book category, e.g. "+strings.Join(models.BookCategories[:4], ", "))
	fs.StringVar(&f.audience, "audience", "", "target audience")
	fs.StringVar(&f.usp, "usp", "", "unique selling proposition")
	fs.StringVar(&f.length, "length", "", "target length, e.g. \"12 chapters\"")
	fs.StringVar(&f.tone, "tone", "", "tone: "+strings.Join(models.Strings(models.AllTones()), ", "))
	fs.StringVar(&f.desiredOutput, "desired-output", "", "desired output: "+strings.Join(models.Strings(models.AllDesiredOutputs()), ", "))
	fs.StringArrayVar(&f.constraints, "constraint", nil, "compliance constraint (repeatable, replaces the list)")

	fs.StringVar(&f.mainIdea, "main-idea", "", "main idea of the book")
	fs.StringVar(&f.transformation, "transformation", "", "what the reader should gain")
	fs.StringArrayVar(&f.keyPoints, "key-point", nil, "key point (repeatable, replaces the list)")
	fs.StringArrayVar(&f.avoid, "avoid", nil, "thing to avoid (repeatable, replaces the list)")
	fs.StringVar(&f.writingStyle, "writing-style", "", "writing style: "+strings.Join(models.Strings(models.AllWritingStyles()), ", "))
	fs.StringVar(&f.customStyle, "custom-style", "", "custom style description, used with --writing-style custom")
	fs.BoolVar(&f.autoOutline, "auto-outline", true, "ask for a generated outline when no chapters are given")
	fs.StringArrayVar(&f.chapters, "chapter", nil, "chapter as \"Title: description\" (repeatable, replaces the list)")
	fs.StringVar(&f.inspiration, "inspiration", "", "write-like inspiration")
	fs.StringVar(&f.outputFormat, "output-format", "", "book output format: "+strings.Join(models.Strings(models.AllOutputFormats()), ", "))

	fs.StringVar(&f.visualStyle, "visual-style", "", "cover visual style: "+strings.Join(models.Strings(models.AllVisualStyles()), ", "))
	fs.StringVar(&f.mood, "mood", "", "cover mood: "+strings.Join(models.Strings(models.AllMoods()), ", "))
	fs.StringVar(&f.mainElements, "main-elements", "", "main cover elements")
	fs.StringVar(&f.palette, "palette", "", "cover colour palette")
	fs.StringVar(&f.typography, "typography", "", "cover typography style")
	fs.StringVar(&f.trimSize, "trim-size", "", "cover trim size: "+strings.Join(models.Strings(models.AllTrimSizes()), ", "))
	fs.StringVar(&f.coverTitle, "cover-title", "", "title printed on the cover (defaults to the project title)")
	fs.StringVar(&f.coverSubtitle, "cover-subtitle", "", "subtitle printed on the cover")
	fs.StringVar(&f.author, "author", "", "author name printed on the cover")
	fs.StringVar(&f.negativePrompt, "negative-prompt", "", "what the cover image must avoid")

	fs.StringVar(&f.interiorType, "interior-type", "", "interior type: "+strings.Join(models.Strings(models.AllInteriorTypes()), ", "))
	fs.StringVar(&f.pageSize, "page-size", "", "interior page size")
	fs.StringVar(&f.margins, "margins", "", "margins: "+strings.Join(models.Strings(models.AllMargins()), ", "))
	fs.StringArrayVar(&f.recurring, "recurring", nil, "recurring interior element (repeatable, replaces the list)")
	fs.StringVar(&f.layoutStyle, "layout-style", "", "layout style: "+strings.Join(models.Strings(models.AllLayoutStyles()), ", "))

	fs.StringVar(&f.metaTitle, "meta-title", "", "listing title (defaults to the project title)")
	fs.StringVar(&f.metaSubtitle, "meta-subtitle", "", "listing subtitle")
	fs.StringArrayVar(&f.keywords, "keyword", nil, "listing keyword (repeatable, replaces the list)")
	fs.StringVar(&f.bisac, "bisac", "", "BISAC category")
	fs.StringVar(&f.description, "description", "", "listing description")
	fs.StringArrayVar(&f.bullets, "bullet", nil, "listing bullet point (repeatable, replaces the list)")
}

// patch builds a ProjectPatch from the flags that were set. Sub-records are
// replaced wholesale by the store, so each touched sub-record starts from
// base's current value.
func (f *patchFlags) patch(fs *pflag.FlagSet, base models.Project) (models.ProjectPatch, error) {
	var pp models.ProjectPatch
	changed := func(names ...string) bool {
		for _, n := range names {
			if fs.Changed(n) {
				return true
			}
		}
		return false
	}

	if changed("title") {
		pp.Title = models.Ptr(f.title)
	}
	if changed("language") {
		pp.Language = models.Ptr(models.LanguageCode(strings.ToUpper(f.language)))
	}
	if changed("category") {
		pp.BookCategory = models.Ptr(f.category)
	}
	if changed("audience") {
		pp.TargetAudience = models.Ptr(f.audience)
	}
	if changed("usp") {
		pp.USP = models.Ptr(f.usp)
	}
	if changed("length") {
		pp.TargetLength = models.Ptr(f.length)
	}
	if changed("tone") {
		pp.Tone = models.Ptr(models.Tone(f.tone))
	}
	if changed("desired-output") {
		pp.DesiredOutput = models.Ptr(models.DesiredOutput(f.desiredOutput))
	}
	if changed("constraint") {
		pp.Constraints = models.Ptr(nonNil(f.constraints))
	}

	if changed("main-idea", "transformation", "key-point", "avoid", "writing-style",
		"custom-style", "auto-outline", "chapter", "inspiration", "output-format") {
		bp := base.Clone().BookPrompt
		if changed("main-idea") {
			bp.MainIdea = f.mainIdea
		}
		if changed("transformation") {
			bp.ReaderTransformation = f.transformation
		}
		if changed("key-point") {
			bp.KeyPoints = nonNil(f.keyPoints)
		}
		if changed("avoid") {
			bp.WhatToAvoid = nonNil(f.avoid)
		}
		if changed("writing-style") {
			bp.WritingStyle = models.WritingStyle(f.writingStyle)
		}
		if changed("custom-style") {
			bp.CustomStyle = f.customStyle
		}
		if changed("auto-outline") {
			bp.AutoGenerateOutline = f.autoOutline
		}
		if changed("chapter") {
			chapters, err := parseChapters(f.chapters)
			if err != nil {
				return models.ProjectPatch{}, err
			}
			bp.Chapters = chapters
		}
		if changed("inspiration") {
			bp.WriteLikeInspiration = f.inspiration
		}
		if changed("output-format") {
			bp.OutputFormat = models.OutputFormat(f.outputFormat)
		}
		pp.BookPrompt = &bp
	}

	if changed("visual-style", "mood", "main-elements", "palette", "typography", "trim-size",
		"cover-title", "cover-subtitle", "author", "negative-prompt") {
		cp := base.CoverPrompt
		if changed("visual-style") {
			cp.VisualStyle = models.VisualStyle(f.visualStyle)
		}
		if changed("mood") {
			cp.Mood = models.Mood(f.mood)
		}
		if changed("main-elements") {
			cp.MainElements = f.mainElements
		}
		if changed("palette") {
			cp.ColorPalette = f.palette
		}
		if changed("typography") {
			cp.TypographyStyle = f.typography
		}
		if changed("trim-size") {
			cp.TrimSize = models.TrimSize(f.trimSize)
		}
		if changed("cover-title") {
			cp.CoverTitle = f.coverTitle
		}
		if changed("cover-subtitle") {
			cp.CoverSubtitle = f.coverSubtitle
		}
		if changed("author") {
			cp.AuthorName = f.author
		}
		if changed("negative-prompt") {
			cp.NegativePrompt = f.negativePrompt
		}
		pp.CoverPrompt = &cp
	}

	if changed("interior-type", "page-size", "margins", "recurring", "layout-style") {
		ip := base.Clone().InteriorPrompt
		if changed("interior-type") {
			ip.InteriorType = models.InteriorType(f.interiorType)
		}
		if changed("page-size") {
			ip.PageSize = models.TrimSize(f.pageSize)
		}
		if changed("margins") {
			ip.Margins = models.Margins(f.margins)
		}
		if changed("recurring") {
			ip.RecurringElements = nonNil(f.recurring)
		}
		if changed("layout-style") {
			ip.LayoutStyle = models.LayoutStyle(f.layoutStyle)
		}
		pp.InteriorPrompt = &ip
	}

	if changed("meta-title", "meta-subtitle", "keyword", "bisac", "description", "bullet") {
		md := base.Clone().Metadata
		if changed("meta-title") {
			md.Title = f.metaTitle
		}
		if changed("meta-subtitle") {
			md.Subtitle = f.metaSubtitle
		}
		if changed("keyword") {
			md.Keywords = nonNil(f.keywords)
		}
		if changed("bisac") {
			md.BisacCategory = f.bisac
		}
		if changed("description") {
			md.Description = f.description
		}
		if changed("bullet") {
			md.BulletPoints = nonNil(f.bullets)
		}
		pp.Metadata = &md
	}

	return pp, nil
}

// parseChapters reads "Title: description" pairs; the description is optional
func parseChapters(values []string) ([]models.ChapterInfo, error) {
	chapters := make([]models.ChapterInfo, 0, len(values))
	for _, v := range values {
		title, desc, _ := strings.Cut(v, ":")
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, errors.InvalidInputError(fmt.Sprintf("chapter %q has no title", v))
		}
		chapters = append(chapters, models.ChapterInfo{Title: title, Description: strings.TrimSpace(desc)})
	}
	return chapters, nil
}

// overlay copies every field set in top onto bottom
func overlay(bottom, top models.ProjectPatch) models.ProjectPatch {
	out := bottom
	if top.Title != nil {
		out.Title = top.Title
	}
	if top.Language != nil {
		out.Language = top.Language
	}
	if top.BookCategory != nil {
		out.BookCategory = top.BookCategory
	}
	if top.TargetAudience != nil {
		out.TargetAudience = top.TargetAudience
	}
	if top.USP != nil {
		out.USP = top.USP
	}
	if top.TargetLength != nil {
		out.TargetLength = top.TargetLength
	}
	if top.Tone != nil {
		out.Tone = top.Tone
	}
	if top.Constraints != nil {
		out.Constraints = top.Constraints
	}
	if top.DesiredOutput != nil {
		out.DesiredOutput = top.DesiredOutput
	}
	if top.Metadata != nil {
		out.Metadata = top.Metadata
	}
	if top.BookPrompt != nil {
		out.BookPrompt = top.BookPrompt
	}
	if top.CoverPrompt != nil {
		out.CoverPrompt = top.CoverPrompt
	}
	if top.InteriorPrompt != nil {
		out.InteriorPrompt = top.InteriorPrompt
	}
	if top.ReferenceImages != nil {
		out.ReferenceImages = top.ReferenceImages
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string{}, values...)
}
