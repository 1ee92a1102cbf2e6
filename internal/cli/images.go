package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
)

// imageSummary omits the data URL, which is far too long to print
type imageSummary struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	MediaType string   `json:"mediaType" yaml:"media_type"`
	Notes     string   `json:"notes" yaml:"notes"`
	Tags      []string `json:"tags" yaml:"tags"`
	IsPrimary bool     `json:"isPrimary" yaml:"is_primary"`
}

func (a *app) newImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "image",
		Aliases: []string{"images"},
		Short:   "Manage a project's reference images",
	}
	cmd.AddCommand(
		a.newImageAddCmd(),
		a.newImageListCmd(),
		a.newImageRemoveCmd(),
		a.newImagePrimaryCmd(),
		a.newImageEditCmd(),
	)
	return cmd
}

func (a *app) newImageAddCmd() *cobra.Command {
	var notes string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add <project> <file>...",
		Short: "Attach image files to a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			p, err := resolveProject(svc, args[0])
			if err != nil {
				return err
			}

			for _, path := range args[1:] {
				data, err := os.ReadFile(path)
				if err != nil {
					if os.IsNotExist(err) {
						return errors.FileNotFoundError(path, err)
					}
					return errors.StorageError("read image", err)
				}

				img, err := models.NewReferenceImage(filepath.Base(path), data)
				if err != nil {
					return err
				}
				img.Notes = notes
				for _, tag := range tags {
					img.Tags = models.AppendUnique(img.Tags, tag)
				}

				if _, err := svc.AddImage(p.ID, img); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added image: %s (%s)\n", img.Name, img.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "notes for the image")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag, e.g. Style or Colors (repeatable)")
	return cmd
}

func (a *app) newImageListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [project]",
		Short: "List reference images",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.projectArg(args)
			if err != nil {
				return err
			}

			summaries := make([]imageSummary, len(p.ReferenceImages))
			for i, img := range p.ReferenceImages {
				summaries[i] = imageSummary{
					ID:        img.ID,
					Name:      img.Name,
					MediaType: models.ImageMediaType(img.DataURL),
					Notes:     img.Notes,
					Tags:      img.Tags,
					IsPrimary: img.IsPrimary,
				}
			}

			return a.emit(cmd.OutOrStdout(), summaries, func(w io.Writer) error {
				if len(summaries) == 0 {
					fmt.Fprintln(w, "No reference images")
					return nil
				}
				for _, img := range summaries {
					star := " "
					if img.IsPrimary {
						star = "⭐"
					}
					fmt.Fprintf(w, "%s %s  %s (%s)\n", star, shortID(img.ID), img.Name, img.MediaType)
					if img.Notes != "" {
						fmt.Fprintf(w, "     %s\n", img.Notes)
					}
					if len(img.Tags) > 0 {
						fmt.Fprintf(w, "     Tags: %v\n", img.Tags)
					}
				}
				return nil
			})
		},
	}
}

// findImage resolves an image ID or unique ID prefix within p
func findImage(p models.Project, ref string) (models.ReferenceImage, error) {
	var found []models.ReferenceImage
	for _, img := range p.ReferenceImages {
		if img.ID == ref {
			return img, nil
		}
		if len(ref) > 0 && len(img.ID) >= len(ref) && img.ID[:len(ref)] == ref {
			found = append(found, img)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return models.ReferenceImage{}, errors.NotFoundError(fmt.Sprintf("image %q", ref))
	default:
		return models.ReferenceImage{}, errors.InvalidInputError(fmt.Sprintf("%q matches %d images", ref, len(found)))
	}
}

func (a *app) imageCommand(use, short string, run func(cmd *cobra.Command, p models.Project, img models.ReferenceImage) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.projectArg(args[:1])
			if err != nil {
				return err
			}
			img, err := findImage(p, args[1])
			if err != nil {
				return err
			}
			return run(cmd, p, img)
		},
	}
}

func (a *app) newImageRemoveCmd() *cobra.Command {
	return a.imageCommand("remove <project> <image>", "Remove a reference image",
		func(cmd *cobra.Command, p models.Project, img models.ReferenceImage) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if _, err := svc.RemoveImage(p.ID, img.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed image: %s\n", img.Name)
			return nil
		})
}

func (a *app) newImagePrimaryCmd() *cobra.Command {
	return a.imageCommand("primary <project> <image>", "Toggle the primary flag of an image",
		func(cmd *cobra.Command, p models.Project, img models.ReferenceImage) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if _, err := svc.TogglePrimary(p.ID, img.ID); err != nil {
				return err
			}
			state := "set"
			if img.IsPrimary {
				state = "cleared"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Primary flag %s: %s\n", state, img.Name)
			return nil
		})
}

func (a *app) newImageEditCmd() *cobra.Command {
	var notes string
	var tags []string

	cmd := a.imageCommand("edit <project> <image>", "Change an image's notes or tags",
		func(cmd *cobra.Command, p models.Project, img models.ReferenceImage) error {
			if !cmd.Flags().Changed("notes") && !cmd.Flags().Changed("tag") {
				return errors.InvalidInputError("nothing to change").WithDetails("pass --notes or --tag")
			}
			newNotes, newTags := img.Notes, img.Tags
			if cmd.Flags().Changed("notes") {
				newNotes = notes
			}
			if cmd.Flags().Changed("tag") {
				newTags = []string{}
				for _, tag := range tags {
					newTags = models.AppendUnique(newTags, tag)
				}
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			if _, err := svc.UpdateImage(p.ID, img.ID, newNotes, newTags); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated image: %s\n", img.Name)
			return nil
		})

	cmd.Flags().StringVar(&notes, "notes", "", "replace the notes")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "replace the tags (repeatable)")
	return cmd
}
