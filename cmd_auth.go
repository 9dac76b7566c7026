package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/minios-linux/poai/i18n"
	"github.com/minios-linux/poai/provider"
	"github.com/minios-linux/poai/settings"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: i18n.T("Manage provider API keys"),
		Long: `Manage API keys for the AI providers.

Keys are looked up in this order:
  1. --api-key flag
  2. POAI_API_KEY, then the provider's variable (OPENAI_API_KEY, GROQ_API_KEY, ...)
  3. ai_translate.key in the --root directory (KEY=value lines)
  4. the credential store (~/.local/share/poai/auth.json)

Examples:
  poai auth login                              Store an OpenAI key
  poai auth login --provider groq --verify     Check a Groq key, then store it
  poai auth login --key-file                   Write the key to ai_translate.key
  poai auth logout --provider groq             Remove the Groq key
  poai auth logout                             Remove all stored keys
  poai auth list                               Show stored keys`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		providerID string
		baseURL    string
		keyFile    bool
		verify     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: i18n.T("Store an API key"),
		RunE: func(cmd *cobra.Command, args []string) error {
			prov, err := provider.Lookup(providerID)
			if err != nil {
				return err
			}
			key, err := promptKey(cmd.InOrStdin(), prov)
			if err != nil {
				return err
			}
			if key == "" && !prov.KeyOptional {
				return fmt.Errorf("no API key provided")
			}
			if prov.ID == provider.ProviderOpenAI && !strings.HasPrefix(key, "sk-") {
				logWarning("%s", i18n.T("OpenAI keys usually start with \"sk-\""))
			}

			if baseURL != "" {
				prov.BaseURL = baseURL
			}
			if verify {
				prov.APIKey = key
				if err := verifyKey(cmd.Context(), prov); err != nil {
					return fmt.Errorf("API key check failed: %w", err)
				}
				logSuccess(i18n.T("API key accepted by %s"), prov.Name)
			}

			if keyFile {
				if err := settings.WriteKeyFile(rootDir, prov.ID, key); err != nil {
					return err
				}
				logSuccess(i18n.T("Key written to %s"), settings.KeyFilePath(rootDir))
				return nil
			}
			if err := settings.SetAPIKey(prov.ID, key, baseURL); err != nil {
				return fmt.Errorf("failed to save API key: %w", err)
			}
			logSuccess(i18n.T("%s API key saved"), prov.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerID, "provider", provider.ProviderOpenAI, "Provider the key belongs to")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Endpoint URL to store with the key (custom-openai)")
	cmd.Flags().BoolVar(&keyFile, "key-file", false, "Write the key to ai_translate.key instead of the credential store")
	cmd.Flags().BoolVar(&verify, "verify", false, "List models with the key before saving it")
	return cmd
}

// promptKey reads one line from in, showing the currently stored key.
func promptKey(in io.Reader, prov provider.Provider) (string, error) {
	fmt.Fprintf(logOut, "\n%s\n", headerColor.Sprintf("%s API Key Setup", prov.Name))
	fmt.Fprintln(logOut, strings.Repeat("─", 60))
	if existing := settings.GetAPIKey(prov.ID); existing != "" {
		fmt.Fprintf(logOut, "  Current key: %s\n", warningColor.Sprint(settings.MaskKey(existing)))
	}
	fmt.Fprint(logOut, "  Enter API key: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no input received")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func verifyKey(ctx context.Context, prov provider.Provider) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	c, err := provider.New(prov)
	if err != nil {
		return err
	}
	_, err = c.Models(ctx)
	return err
}

func newAuthLogoutCmd() *cobra.Command {
	var providerID string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: i18n.T("Remove stored API keys"),
		Long: `Remove stored keys for one or all providers.

If --provider is not specified, keys for ALL providers are removed. Key files
(ai_translate.key) are never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if providerID == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("%s", i18n.T("All stored credentials removed"))
				return nil
			}
			prov, err := provider.Lookup(providerID)
			if err != nil {
				return err
			}
			if err := settings.Remove(prov.ID); err != nil {
				return fmt.Errorf("failed to remove %s credentials: %w", prov.ID, err)
			}
			logSuccess(i18n.T("%s credentials removed"), prov.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerID, "provider", "", "Provider to logout (default: all)")
	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   i18n.T("Show stored credentials and status"),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(logOut, "\n%s\n", headerColor.Sprint("Stored Credentials"))
			fmt.Fprintln(logOut, strings.Repeat("─", 60))

			for _, id := range provider.IDs() {
				fmt.Fprintf(logOut, "  %-14s %s\n", id, credentialStatus(id))
			}

			fmt.Fprintf(logOut, "\n  %s\n", warningColor.Sprint("Environment Variables"))
			seen := map[string]bool{}
			for _, id := range provider.IDs() {
				for _, name := range settings.EnvVars(id) {
					if seen[name] {
						continue
					}
					seen[name] = true
					if v := os.Getenv(name); v != "" {
						fmt.Fprintf(logOut, "  %-18s %s\n", name, successColor.Sprint(settings.MaskKey(v)))
					} else {
						fmt.Fprintf(logOut, "  %-18s %s\n", name, errorColor.Sprint("not set"))
					}
				}
			}

			if vars, err := settings.ReadKeyFile(rootDir); err == nil && len(vars) > 0 {
				fmt.Fprintf(logOut, "\n  %s %s\n", warningColor.Sprint("Key file"), settings.KeyFilePath(rootDir))
			}
			fmt.Fprintln(logOut)
		},
	}
}

func credentialStatus(providerID string) string {
	entry := settings.Get(providerID)
	switch {
	case entry != nil && entry.Key != "":
		status := fmt.Sprintf("%s (key: %s)", successColor.Sprint("configured"), settings.MaskKey(entry.Key))
		if entry.BaseURL != "" {
			status += fmt.Sprintf("\n  %14s endpoint: %s", "", entry.BaseURL)
		}
		return status
	case entry != nil && entry.BaseURL != "":
		return fmt.Sprintf("%s (no key)\n  %14s endpoint: %s", successColor.Sprint("configured"), "", entry.BaseURL)
	}
	return errorColor.Sprint("not configured")
}

// ---------------------------------------------------------------------------
// models
// ---------------------------------------------------------------------------

func newModelsCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "models",
		Short: i18n.T("List the models a provider offers"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyTranslateFlags(cmd, cfg, &a)
			client, err := newClient(a)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			models, err := client.Models(ctx)
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.provider, "provider", provider.ProviderOpenAI, "AI provider")
	f.StringVar(&a.apiKey, "api-key", "", "API key")
	f.StringVar(&a.baseURL, "base-url", "", "Custom API base URL")
	f.StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	f.DurationVar(&a.timeout, "timeout", 0, "Request timeout")
	return cmd
}
