// poai translates gettext PO catalogs in batches with AI models.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/poai/config"
	"github.com/minios-linux/poai/i18n"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// logOut receives all log lines; tests replace it.
var logOut io.Writer = os.Stderr

func logInfo(format string, args ...any) {
	fmt.Fprintf(logOut, "%s %s\n", infoColor.Sprint("[INFO]"), fmt.Sprintf(format, args...))
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(logOut, "%s %s\n", successColor.Sprint("[OK]"), fmt.Sprintf(format, args...))
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(logOut, "%s %s\n", warningColor.Sprint("[WARN]"), fmt.Sprintf(format, args...))
}

func logError(format string, args ...any) {
	fmt.Fprintf(logOut, "%s %s\n", errorColor.Sprint("[ERROR]"), fmt.Sprintf(format, args...))
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// loadConfig reads .poai.yaml and POAI_* variables for the current root.
func loadConfig() (*config.Config, error) {
	return config.Load(rootDir)
}

// absRoot returns the run root as an absolute path.
func absRoot() string {
	if abs, err := filepath.Abs(rootDir); err == nil {
		return abs
	}
	return rootDir
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "poai",
		Short: i18n.T("Translate gettext PO catalogs with AI models"),
		Long: `poai translates the untranslated entries of gettext PO catalogs by sending
them in numbered batches to a language model and merging the replies back.

Catalogs are expected under <root>/<category>/<lang>/*.po.

Commands:
  translate   Translate one catalog or every language of a category
  status      Show translation statistics per catalog
  categories  List categories and their languages
  models      List the models a provider offers
  auth        Manage provider API keys

AI Providers:
  openai         OpenAI (default, gpt-4o-mini)
  groq           Groq
  ollama         Ollama local server
  custom-openai  Custom OpenAI-compatible endpoint
  google         Google AI (Gemini)
  anthropic      Anthropic`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Directory holding the categories")

	root.AddCommand(
		newTranslateCmd(),
		newStatusCmd(),
		newCategoriesCmd(),
		newModelsCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "poai version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}
