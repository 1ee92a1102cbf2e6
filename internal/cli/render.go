package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-kdp/internal/clipboard"
	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
	"github.com/dpshade/pocket-kdp/internal/pack"
	"github.com/dpshade/pocket-kdp/internal/renderer"
	"github.com/dpshade/pocket-kdp/internal/storage"
	"github.com/dpshade/pocket-kdp/internal/ui"
)

func parseKind(s string) (renderer.Kind, error) {
	kind, err := renderer.ParseKind(s)
	if err != nil {
		return "", errors.InvalidInputError(err.Error())
	}
	return kind, nil
}

func (a *app) newRenderCmd() *cobra.Command {
	var pretty, copyOut, asMessages bool

	cmd := &cobra.Command{
		Use:   "render <book|cover|interior|metadata> [project]",
		Short: "Print a generated prompt",
		Example: `  pocket-kdp render book
  pocket-kdp render cover 3f2a --copy
  pocket-kdp render metadata --pretty`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"book", "cover", "interior", "metadata"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := resolveProject(svc, optionalArg(args[1:]))
			if err != nil {
				return err
			}

			r := renderer.NewRenderer(p)
			var content string
			if asMessages {
				content, err = r.RenderMessages(kind)
			} else {
				content, err = r.Render(kind)
			}
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to render prompt")
			}

			if copyOut {
				statusMsg, err := clipboard.CopyWithFallback(content)
				if err != nil {
					// The prompt is still printed below
					a.log().Warn("clipboard copy failed", zap.Error(err))
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", errors.GetAppError(err).Message)
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), statusMsg)
				}
			}

			out := content
			if pretty && !asMessages {
				if out, err = a.prettify(content); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "render markdown for the terminal")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "also copy the prompt to the clipboard")
	cmd.Flags().BoolVar(&asMessages, "json", false, "print as a chat-message JSON array")
	return cmd
}

func (a *app) prettify(markdown string) (string, error) {
	cfg, err := a.config()
	if err != nil {
		return "", err
	}
	r, err := ui.NewPreviewRenderer(cfg.Preview.Style, cfg.Preview.WordWrap)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "Failed to create preview renderer")
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "Failed to render preview")
	}
	return out, nil
}

func (a *app) newExportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write prompts, the project JSON or a project pack to files",
	}
	cmd.PersistentFlags().StringVarP(&dir, "dir", "d", "", "destination directory (default: export_dir from config)")

	exportDir := func() (string, error) {
		if dir != "" {
			return dir, nil
		}
		cfg, err := a.config()
		if err != nil {
			return "", err
		}
		return cfg.ExportDir, nil
	}

	write := func(cmd *cobra.Command, filename string, data []byte) error {
		target, err := exportDir()
		if err != nil {
			return err
		}
		path, err := storage.WriteExport(target, filename, data)
		if err != nil {
			return errors.StorageError("write export", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
		return nil
	}

	var kindName string
	txtCmd := &cobra.Command{
		Use:   "txt [project]",
		Short: "Export prompts as plain text files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []renderer.Kind{renderer.KindBook, renderer.KindCover, renderer.KindInterior}
			if kindName != "" && kindName != "all" {
				kind, err := parseKind(kindName)
				if err != nil {
					return err
				}
				kinds = []renderer.Kind{kind}
			}

			p, err := a.projectArg(args)
			if err != nil {
				return err
			}
			r := renderer.NewRenderer(p)
			for _, kind := range kinds {
				content, err := r.Render(kind)
				if err != nil {
					return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to render prompt")
				}
				if err := write(cmd, renderer.TextFilename(p, kind), []byte(content)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	txtCmd.Flags().StringVarP(&kindName, "kind", "k", "all", "book, cover, interior, metadata or all (book, cover and interior)")

	jsonCmd := &cobra.Command{
		Use:   "json [project]",
		Short: "Export the full project as JSON with image data omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.projectArg(args)
			if err != nil {
				return err
			}
			content, err := renderer.ProjectJSON(p)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to export project")
			}
			return write(cmd, renderer.JSONFilename(p), []byte(content))
		},
	}

	packCmd := &cobra.Command{
		Use:   "pack [project]",
		Short: "Export a re-importable project pack",
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
			pk, err := svc.ExportPack(p.ID)
			if err != nil {
				return err
			}
			data, err := pack.Serialize(pk)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to serialize pack")
			}
			return write(cmd, pack.Filename(p), data)
		},
	}

	cmd.AddCommand(txtCmd, jsonCmd, packCmd)
	return cmd
}

func (a *app) projectArg(args []string) (models.Project, error) {
	svc, err := a.service()
	if err != nil {
		return models.Project{}, err
	}
	return resolveProject(svc, optionalArg(args))
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <pack.json>",
		Short: "Import a project pack and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				if os.IsNotExist(err) {
					return errors.FileNotFoundError(args[0], err)
				}
				return errors.StorageError("read pack", err)
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := svc.ImportPackData(data)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) error {
				fmt.Fprintf(w, "Imported project: %s (%s)\n", p.Title, p.ID)
				return nil
			})
		},
	}
}
