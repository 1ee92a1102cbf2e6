package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
	"github.com/dpshade/pocket-kdp/internal/validation"
)

// projectSummary is the list view of a project for json and yaml output
type projectSummary struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Category  string    `json:"bookCategory" yaml:"book_category"`
	Language  string    `json:"language" yaml:"language"`
	Active    bool      `json:"active" yaml:"active"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

func summarize(projects []models.Project, activeID string) []projectSummary {
	out := make([]projectSummary, len(projects))
	for i, p := range projects {
		out[i] = projectSummary{
			ID:        p.ID,
			Title:     p.Title,
			Category:  p.BookCategory,
			Language:  string(p.Language),
			Active:    p.ID == activeID,
			UpdatedAt: p.UpdatedAt,
		}
	}
	return out
}

func writeProjectTable(w io.Writer, projects []models.Project, activeID string) error {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects yet. Create one with `pocket-kdp create --title \"My Book\"`.")
		return nil
	}
	fmt.Fprintf(w, "  %-10s %-32s %-16s %s\n", "ID", "Title", "Category", "Updated")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, p := range projects {
		marker := " "
		if p.ID == activeID {
			marker = "*"
		}
		title := p.DisplayTitle()
		if len(title) > 32 {
			title = title[:29] + "..."
		}
		fmt.Fprintf(w, "%s %-10s %-32s %-16s %s\n",
			marker, shortID(p.ID), title, p.BookCategory, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.fileStore()
			if err != nil {
				return err
			}
			if err := store.InitLibrary(); err != nil {
				return errors.StorageError("initialize library", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized pocket-kdp library at %s\n", store.GetBaseDir())
			return nil
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			projects := svc.List()
			return a.emit(cmd.OutOrStdout(), summarize(projects, svc.ActiveID()), func(w io.Writer) error {
				return writeProjectTable(w, projects, svc.ActiveID())
			})
		},
	}
}

func (a *app) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search titles, categories, audiences and keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			results := svc.Search(strings.Join(args, " "))
			return a.emit(cmd.OutOrStdout(), summarize(results, svc.ActiveID()), func(w io.Writer) error {
				if len(results) == 0 {
					fmt.Fprintln(w, "No matching projects")
					return nil
				}
				return writeProjectTable(w, results, svc.ActiveID())
			})
		},
	}
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [project]",
		Short: "Show a project (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := resolveProject(svc, optionalArg(args))
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) error {
				writeProjectDetails(w, p, p.ID == svc.ActiveID())
				return nil
			})
		},
	}
}

func writeProjectDetails(w io.Writer, p models.Project, active bool) {
	fmt.Fprintf(w, "ID: %s", p.ID)
	if active {
		fmt.Fprint(w, " (active)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Title: %s\n", p.Title)
	fmt.Fprintf(w, "Language: %s\n", p.Language.DisplayName())
	if p.BookCategory != "" {
		fmt.Fprintf(w, "Category: %s\n", p.BookCategory)
	}
	if p.TargetAudience != "" {
		fmt.Fprintf(w, "Audience: %s\n", p.TargetAudience)
	}
	if p.TargetLength != "" {
		fmt.Fprintf(w, "Length: %s\n", p.TargetLength)
	}
	fmt.Fprintf(w, "Tone: %s\n", p.Tone)
	fmt.Fprintf(w, "Desired output: %s\n", p.DesiredOutput)
	if p.BookPrompt.MainIdea != "" {
		fmt.Fprintf(w, "Main idea: %s\n", p.BookPrompt.MainIdea)
	}
	if len(p.BookPrompt.KeyPoints) > 0 {
		fmt.Fprintf(w, "Key points: %s\n", strings.Join(p.BookPrompt.KeyPoints, ", "))
	}
	if len(p.BookPrompt.Chapters) > 0 {
		fmt.Fprintf(w, "Chapters: %d\n", len(p.BookPrompt.Chapters))
	}
	if len(p.Metadata.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords: %s\n", strings.Join(p.Metadata.Keywords, ", "))
	}
	fmt.Fprintf(w, "Cover: %s, %s, %s\n",
		orDash(string(p.CoverPrompt.VisualStyle)), orDash(string(p.CoverPrompt.Mood)), p.CoverPrompt.TrimSize)
	fmt.Fprintf(w, "Interior: %s, %s, %s margins\n",
		orDash(string(p.InteriorPrompt.InteriorType)), p.InteriorPrompt.PageSize, p.InteriorPrompt.Margins)
	fmt.Fprintf(w, "Reference images: %d\n", len(p.ReferenceImages))
	fmt.Fprintf(w, "Created: %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Updated: %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *app) newCreateCmd() *cobra.Command {
	var flags patchFlags
	var presetName string

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a project and make it active",
		Example: `  pocket-kdp create --title "The Sharing Fox" --preset "Kids 4–6 — Illustrated"
  pocket-kdp create --title "Budget Basics" --category business --tone friendly --key-point "Emergency fund"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var base models.ProjectPatch
			if presetName != "" {
				preset, ok := models.PresetByName(presetName)
				if !ok {
					return errors.NotFoundError(fmt.Sprintf("preset %q", presetName)).
						WithDetails("run `pocket-kdp presets` to list them")
				}
				base = preset.Patch
			}

			fromFlags, err := flags.patch(cmd.Flags(), models.ApplyPatch(models.Defaults(), base))
			if err != nil {
				return err
			}
			overrides := overlay(base, fromFlags)
			if appErr := validation.CheckPatch(overrides).ToAppError(); appErr != nil {
				return appErr
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := svc.Create(overrides)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) error {
				fmt.Fprintf(w, "Created project: %s (%s)\n", p.Title, p.ID)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&presetName, "preset", "", "start from a named preset")
	return cmd
}

func (a *app) newEditCmd() *cobra.Command {
	var flags patchFlags

	cmd := &cobra.Command{
		Use:   "edit [project]",
		Short: "Change project fields (default: the active project)",
		Example: `  pocket-kdp edit --title "The Generous Fox"
  pocket-kdp edit 3f2a --keyword fox --keyword sharing --keyword "bedtime story"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := resolveProject(svc, optionalArg(args))
			if err != nil {
				return err
			}

			pp, err := flags.patch(cmd.Flags(), p)
			if err != nil {
				return err
			}
			if pp.IsEmpty() {
				return errors.InvalidInputError("nothing to change").
					WithDetails("pass at least one field flag, see `pocket-kdp edit --help`")
			}
			if appErr := validation.CheckPatch(pp).ToAppError(); appErr != nil {
				return appErr
			}

			ok, err := svc.Update(p.ID, pp)
			if err != nil {
				return err
			}
			if !ok {
				return errors.NotFoundError(fmt.Sprintf("project %s", p.ID))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project: %s\n", p.ID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func (a *app) newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := resolveProject(svc, args[0])
			if err != nil {
				return err
			}

			if !force && !confirm(cmd, fmt.Sprintf("Are you sure you want to delete project '%s'?", p.DisplayTitle())) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			if _, err := svc.Delete(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project: %s\n", p.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without asking")
	return cmd
}

func (a *app) newDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "duplicate [project]",
		Aliases: []string{"dup"},
		Short:   "Copy a project under a new ID and make the copy active",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := resolveProject(svc, optionalArg(args))
			if err != nil {
				return err
			}
			dup, ok, err := svc.Duplicate(p.ID)
			if err != nil {
				return err
			}
			if !ok {
				return errors.NotFoundError(fmt.Sprintf("project %s", p.ID))
			}
			return a.emit(cmd.OutOrStdout(), dup, func(w io.Writer) error {
				fmt.Fprintf(w, "Duplicated project: %s (%s)\n", dup.Title, dup.ID)
				return nil
			})
		},
	}
}

func (a *app) newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "select <project>",
		Aliases: []string{"use"},
		Short:   "Make a project the active one",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := resolveProject(svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.SetActive(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active project: %s (%s)\n", p.DisplayTitle(), p.ID)
			return nil
		},
	}
}

// presetView is a preset with its patch applied to the defaults
type presetView struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Project     models.Project `json:"project" yaml:"project"`
}

func (a *app) newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in project presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := models.Presets()
			views := make([]presetView, len(presets))
			for i, p := range presets {
				views[i] = presetView{Name: p.Name, Description: p.Description, Project: models.ApplyPatch(models.Defaults(), p.Patch)}
			}
			return a.emit(cmd.OutOrStdout(), views, func(w io.Writer) error {
				for _, p := range presets {
					fmt.Fprintf(w, "%s\n  %s\n\n", p.Name, p.Description)
				}
				fmt.Fprintln(w, "Use one with: pocket-kdp create --preset \"<name>\"")
				return nil
			})
		},
	}
}

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project]",
		Short: "Check a project for likely problems before publishing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := resolveProject(svc, optionalArg(args))
			if err != nil {
				return err
			}
			result := validation.NewValidator().Lint(p)
			return a.emit(cmd.OutOrStdout(), result, func(w io.Writer) error {
				if len(result.Warnings) == 0 {
					fmt.Fprintf(w, "✓ %s: no issues found\n", p.DisplayTitle())
					return nil
				}
				fmt.Fprintf(w, "%s: %d warning(s)\n", p.DisplayTitle(), len(result.Warnings))
				for _, warning := range result.Warnings {
					fmt.Fprintf(w, "⚠ %s: %s", warning.Field, warning.Message)
					if warning.Value != "" {
						fmt.Fprintf(w, " (%s)", warning.Value)
					}
					fmt.Fprintln(w)
				}
				return nil
			})
		},
	}
}
