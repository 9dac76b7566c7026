package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/minios-linux/poai/catalog"
	"github.com/minios-linux/poai/config"
	"github.com/minios-linux/poai/i18n"
	"github.com/minios-linux/poai/provider"
	"github.com/minios-linux/poai/settings"
	"github.com/minios-linux/poai/translate"
)

type translateArgs struct {
	category string
	files    []string
	allLangs bool

	provider, apiKey, model, baseURL string
	proxy                            string
	timeout                          time.Duration

	batchSize  int
	delay      time.Duration
	sourceLang string

	dryRun bool
	bar    bool
}

func newTranslateCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "translate",
		Short: i18n.T("Translate PO catalogs using AI"),
		Long: `Translate the untranslated entries of PO catalogs.

Entries are sent in numbered batches; each reply line is matched back to its
entry by position. A failed request marks the batch's entries with an
"[ERROR: ...]" placeholder and the run continues with the next batch.

Examples:
  # Translate one catalog
  poai translate --file minios/fr/minios.po

  # Translate every language of a category except the source language
  poai translate --category minios --all-langs

  # Use Groq with smaller batches
  poai translate -c minios --all-langs --provider groq --batch-size 40

  # Show the batches without calling the provider
  poai translate -c minios --all-langs --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyTranslateFlags(cmd, cfg, &a)
			return runTranslate(cmd.Context(), cfg, a)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&a.category, "category", "c", "", "Category directory under --root")
	f.StringSliceVarP(&a.files, "file", "f", nil, "Catalog path relative to --root (repeatable)")
	f.BoolVar(&a.allLangs, "all-langs", false, "Translate every language of the category except the source language")

	f.StringVar(&a.provider, "provider", config.DefaultProvider, "AI provider: "+strings.Join(provider.IDs(), ", "))
	f.StringVarP(&a.model, "model", "m", "", "Model name (default: provider default)")
	f.StringVar(&a.apiKey, "api-key", "", "API key (or POAI_API_KEY env var)")
	f.StringVar(&a.baseURL, "base-url", "", "Custom API base URL")
	f.StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	f.DurationVar(&a.timeout, "timeout", 0, "Request timeout (0 = provider default)")

	f.IntVarP(&a.batchSize, "batch-size", "b", config.DefaultBatchSize, "Entries per API request")
	f.DurationVar(&a.delay, "delay", config.DefaultRequestDelay, "Pause after every request")
	f.StringVar(&a.sourceLang, "source-lang", config.DefaultSourceLang, "Language of the msgids")

	f.BoolVar(&a.dryRun, "dry-run", false, "Show what would be translated without calling AI")
	f.BoolVar(&a.bar, "bar", false, "Show a progress bar even when stderr is not a terminal")

	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for id, p := range provider.DefaultProviders() {
			out = append(out, id+"\t"+p.Name)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cats, _ := catalog.Categories(rootDir)
		return cats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// applyTranslateFlags copies the flags the user set onto cfg and fills the
// unset ones from it, so flags win over file and environment.
func applyTranslateFlags(cmd *cobra.Command, cfg *config.Config, a *translateArgs) {
	f := cmd.Flags()
	pickString := func(name string, flag *string, conf *string) {
		if f.Changed(name) {
			*conf = *flag
		} else {
			*flag = *conf
		}
	}
	pickString("provider", &a.provider, &cfg.Provider)
	pickString("model", &a.model, &cfg.Model)
	pickString("base-url", &a.baseURL, &cfg.BaseURL)
	pickString("proxy", &a.proxy, &cfg.Proxy)
	pickString("source-lang", &a.sourceLang, &cfg.SourceLang)
	pickString("category", &a.category, &cfg.Category)

	if f.Changed("batch-size") {
		cfg.BatchSize = a.batchSize
	} else {
		a.batchSize = cfg.BatchSize
	}
	if f.Changed("delay") {
		cfg.RequestDelay = a.delay
	} else {
		a.delay = cfg.RequestDelay
	}
	if f.Changed("timeout") {
		cfg.Timeout = a.timeout
	} else {
		a.timeout = cfg.Timeout
	}
}

func runTranslate(ctx context.Context, cfg *config.Config, a translateArgs) error {
	// Configuration errors stop the run before any catalog is read.
	if err := translate.ValidateBatchSize(a.batchSize); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	paths, err := selectCatalogs(rootDir, a)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logWarning("%s", i18n.T("No catalogs found"))
		return nil
	}

	if a.dryRun {
		return dryRun(paths, a)
	}

	client, err := newClient(a)
	if err != nil {
		return err
	}
	model := client.Model(a.model)
	if model == "" {
		return fmt.Errorf("--model is required for provider '%s'", client.Provider().ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := newProgressSink(a.bar || isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	summary, runErr := translate.Run(ctx, paths, catalog.Opener(rootDir), translate.Options{
		Translator:   client,
		Model:        model,
		BatchSize:    a.batchSize,
		SourceLang:   a.sourceLang,
		RequestDelay: a.delay,
		OnEvent:      sink.handle,
	})
	if summary != nil {
		printSummary(summary)
	}

	switch {
	case errors.Is(runErr, context.Canceled):
		logWarning("%s", i18n.T("Interrupted, remaining batches were not sent"))
		return runErr
	case runErr != nil:
		return runErr
	}
	if failed := summary.Failed(); len(failed) > 0 {
		return fmt.Errorf(i18n.N("%d catalog failed", "%d catalogs failed", len(failed)), len(failed))
	}
	return nil
}

// selectCatalogs turns --file / --category / --all-langs into catalog paths
// relative to root.
func selectCatalogs(root string, a translateArgs) ([]string, error) {
	if len(a.files) > 0 {
		return a.files, nil
	}
	if a.category == "" {
		cats, _ := catalog.Categories(root)
		return nil, fmt.Errorf("no catalog selected: use --file or --category (available categories: %s)", listOrNone(cats))
	}
	if a.allLangs {
		return catalog.LanguageFiles(root, a.category, a.sourceLang)
	}
	files, err := catalog.Files(root, a.category)
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("category %s: pick a catalog with --file or pass --all-langs (catalogs: %s)", a.category, listOrNone(files))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// translator wraps a provider client with the model it falls back to.
type translator struct {
	*provider.Client
}

// Model returns the model requested on the command line or the provider's
// default.
func (t translator) Model(requested string) string {
	if requested != "" {
		return requested
	}
	return t.Provider().Model
}

// newClient resolves provider, credentials, and endpoint overrides.
func newClient(a translateArgs) (translator, error) {
	prov, err := provider.Lookup(a.provider)
	if err != nil {
		return translator{}, err
	}

	key, _, err := settings.ResolveAPIKey(prov.ID, a.apiKey, rootDir)
	if err != nil {
		return translator{}, err
	}
	prov.APIKey = key

	switch {
	case a.baseURL != "":
		prov.BaseURL = a.baseURL
	case settings.GetBaseURL(prov.ID) != "":
		prov.BaseURL = settings.GetBaseURL(prov.ID)
	}
	if a.model != "" {
		prov.Model = a.model
	}
	if a.proxy != "" {
		prov.Proxy = a.proxy
	}
	if a.timeout > 0 {
		prov.Timeout = a.timeout
	}

	if err := prov.Validate(); err != nil {
		return translator{}, fmt.Errorf("%w\n\nStore a key with:\n  poai auth login --provider %s\n\nor pass --api-key / set %s",
			err, prov.ID, strings.Join(settings.EnvVars(prov.ID), " or "))
	}
	c, err := provider.New(prov)
	if err != nil {
		return translator{}, err
	}
	return translator{c}, nil
}

// dryRun plans every catalog and prints its batches.
func dryRun(paths []string, a translateArgs) error {
	open := catalog.Opener(rootDir)
	total := 0
	for _, path := range paths {
		cat, err := open(path)
		if err != nil {
			logError("loading %s: %v", path, err)
			continue
		}
		batches, err := translate.Plan(cat.Entries(), a.batchSize)
		if err != nil {
			return err
		}
		n := 0
		for _, b := range batches {
			n += b.Len()
		}
		total += n
		logInfo(i18n.T("Would translate %s → %s: %d entries in %d requests"), cat.Name(), cat.Language(), n, len(batches))
		for _, b := range batches {
			fmt.Fprintf(logOut, "  entries %d to %d\n", b.Start+1, b.Start+b.Len())
		}
	}
	logInfo(i18n.T("Dry run: %d entries, nothing sent"), total)
	return nil
}
