package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/pocket-kdp/internal/config"
	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/ui"
	"github.com/dpshade/pocket-kdp/internal/version"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			path := a.cfgFile
			if path == "" {
				path = a.cfgManager.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.InvalidInputError(fmt.Sprintf("%s already exists", path)).
					WithDetails("use --force to overwrite")
			}
			if err := config.Save(path, cfg); err != nil {
				return errors.StorageError("write config", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if a.outputFormat == "json" {
				return a.emit(cmd.OutOrStdout(), cfg, nil)
			}
			w := cmd.OutOrStdout()
			if used := a.cfgManager.ConfigFileUsed(); used != "" {
				fmt.Fprintf(w, "# from %s\n", used)
			} else {
				fmt.Fprintln(w, "# built-in defaults")
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to encode config")
			}
			return enc.Close()
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "pocket-kdp %s\n", version.Version)
			fmt.Fprintf(w, "  Go:     %s\n", version.GoInfo)
			if version.Commit != "" {
				fmt.Fprintf(w, "  Commit: %s\n", version.Commit)
			}
			return nil
		},
	}
}

func (a *app) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive project browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}
}

func (a *app) runTUI(cmd *cobra.Command) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	cfg, err := a.config()
	if err != nil {
		return err
	}

	model, err := ui.NewModel(svc, ui.Options{
		PreviewStyle: cfg.Preview.Style,
		ExportDir:    cfg.ExportDir,
		Logger:       a.log(),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to start interactive mode")
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "Interactive mode failed")
	}
	return nil
}
