package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/poai/catalog"
	"github.com/minios-linux/poai/i18n"
)

// ---------------------------------------------------------------------------
// status (read-only: per-catalog translation stats)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show translation statistics per catalog"),
		Long: `Show translation statistics for every catalog of a category, or of all
categories when none is given. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category == "" {
				if cfg, err := loadConfig(); err == nil {
					category = cfg.Category
				}
			}
			return runStatus(category)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category to show (default: all)")
	return cmd
}

func runStatus(category string) error {
	cats := []string{category}
	if category == "" {
		var err error
		if cats, err = catalog.Categories(rootDir); err != nil {
			return err
		}
	}
	if len(cats) == 0 {
		logInfo(i18n.T("No categories found in %s"), absRoot())
		return nil
	}

	for _, cat := range cats {
		files, err := catalog.Files(rootDir, cat)
		if err != nil {
			return err
		}
		showStatsTable(cat, files)
	}
	return nil
}

func showStatsTable(category string, files []string) {
	fmt.Fprintf(logOut, "\n%s\n", headerColor.Sprintf("%s", category))
	fmt.Fprintln(logOut, strings.Repeat("─", 78))
	fmt.Fprintf(logOut, "%-30s %-6s %-7s %-6s %-7s %s\n", "File", "Total", "Trans.", "Fuzzy", "Untr.", "Progress")
	fmt.Fprintln(logOut, strings.Repeat("─", 78))

	for _, rel := range files {
		cat, err := catalog.Load(rootDir, rel)
		if err != nil {
			fmt.Fprintf(logOut, "%-30s %s\n", rel, errorColor.Sprint(err))
			continue
		}
		total, translated, fuzzy, untranslated := cat.File().Stats()
		percent := 0
		if total > 0 {
			percent = translated * 100 / total
		}
		fmt.Fprintf(logOut, "%-30s %-6d %-7d %-6d %-7d %s\n",
			strings.TrimPrefix(rel, category+"/"), total, translated, fuzzy, untranslated, progressBar(percent, 20))

		if info, err := catalog.Describe(cat.Path()); err == nil {
			fmt.Fprintf(logOut, "  %s\n", dimColor.Sprint(info))
		}
	}
	fmt.Fprintln(logOut)
}

var dimColor = color.New(color.FgHiBlack)

// progressBar renders percent as a coloured bar of width cells followed by
// the number.
func progressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100

	clr := errorColor
	switch {
	case percent >= 100:
		clr = successColor
	case percent >= 50:
		clr = warningColor
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %3d%%", clr.Sprint(bar), percent)
}

// ---------------------------------------------------------------------------
// categories
// ---------------------------------------------------------------------------

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: i18n.T("List categories and their languages"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := catalog.Categories(rootDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range cats {
				langs, err := catalog.Languages(rootDir, c)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-20s %s\n", c, strings.Join(langs, " "))
			}
			if len(cats) == 0 {
				logInfo(i18n.T("No categories found in %s"), filepath.Clean(absRoot()))
			}
			return nil
		},
	}
}
