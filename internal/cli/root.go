// Package cli is the pocket-kdp command line. Every command works on the
// project store through service.Service; nothing here touches storage keys
// directly.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/pocket-kdp/internal/config"
	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/logging"
	"github.com/dpshade/pocket-kdp/internal/service"
	"github.com/dpshade/pocket-kdp/internal/storage"
	"github.com/dpshade/pocket-kdp/internal/version"
)

// app carries the persistent flags and the dependencies built from them.
// Dependencies are created on first use so commands like `version` never
// read config or storage.
type app struct {
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
	ephemeral    bool

	cfgManager *config.Manager
	logger     *zap.Logger
	store      *storage.FileStore
	svc        *service.Service
}

// NewRootCommand builds the full command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pocket-kdp",
		Short: "Build KDP book, cover, interior and metadata prompts",
		Long: `pocket-kdp turns a structured description of a self-published book into
ready-to-paste prompts for text and image generators.

Each project holds:
  - Book details: topic, audience, tone, key points and chapters
  - Cover and interior design parameters
  - Amazon listing metadata and reference images

Run without arguments to open the interactive browser.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	root.PersistentFlags().StringVar(
		&a.cfgFile, "config", "", "config file (default: ~/.pocket-kdp/config.yaml)",
	)
	root.PersistentFlags().StringVar(
		&a.homeDir, "home", "", "pocket-kdp home directory (default: ~/.pocket-kdp)",
	)
	root.PersistentFlags().StringVarP(
		&a.outputFormat, "output", "o", "text", "output format: text, json or yaml",
	)
	root.PersistentFlags().BoolVarP(
		&a.verbose, "verbose", "v", false, "log debug output and show error details",
	)
	root.PersistentFlags().BoolVar(
		&a.ephemeral, "ephemeral", false, "keep projects in memory only for this run",
	)

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch a.outputFormat {
		case "text", "json", "yaml":
			return nil
		default:
			return errors.InvalidInputError(fmt.Sprintf("unknown output format %q (want text, json or yaml)", a.outputFormat))
		}
	}

	root.AddCommand(
		a.newInitCmd(),
		a.newListCmd(),
		a.newSearchCmd(),
		a.newShowCmd(),
		a.newCreateCmd(),
		a.newEditCmd(),
		a.newDeleteCmd(),
		a.newDuplicateCmd(),
		a.newSelectCmd(),
		a.newRenderCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newImageCmd(),
		a.newPresetsCmd(),
		a.newValidateCmd(),
		a.newConfigCmd(),
		a.newVersionCmd(),
		a.newTUICmd(),
	)

	return root
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	root := NewRootCommand()
	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}

	verbose, _ := root.PersistentFlags().GetBool("verbose")
	logger, _ := logging.New(logging.Config{Level: "debug"})
	if !verbose {
		logger = zap.NewNop()
	}
	handled := errors.NewCLIErrorHandler(verbose, logger).HandleError(err)
	fmt.Fprintln(cmd.ErrOrStderr(), handled)
	return 1
}

func (a *app) config() (config.Config, error) {
	if a.cfgManager == nil {
		m, err := config.NewManager(a.cfgFile, a.homeDir)
		if err != nil {
			return config.Config{}, errors.Wrap(err, errors.ErrCodeInvalidInput, "Failed to load configuration")
		}
		a.cfgManager = m
	}
	return a.cfgManager.Get(), nil
}

func (a *app) log() *zap.Logger {
	if a.logger != nil {
		return a.logger
	}

	cfg, err := a.config()
	if err != nil {
		a.logger = zap.NewNop()
		return a.logger
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding, OutputPath: cfg.Log.File}
	if a.verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		logger = zap.NewNop()
	}
	a.logger = logger
	return a.logger
}

func (a *app) fileStore() (*storage.FileStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, errors.StorageError("open data directory", err)
	}
	a.store = store
	return store, nil
}

func (a *app) service() (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	var kv storage.KeyValue
	if a.ephemeral {
		kv = storage.NewMemoryStore()
	} else {
		store, err := a.fileStore()
		if err != nil {
			return nil, err
		}
		kv = store
	}

	svc, err := service.New(kv, a.log())
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// emit writes v as JSON or YAML, or calls text for the default format
func (a *app) emit(w io.Writer, v any, text func(w io.Writer) error) error {
	switch a.outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// confirm asks a y/N question on the command's input
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", question)
	var response string
	fmt.Fscanln(cmd.InOrStdin(), &response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
