package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/spaced/internal/cli/styles"
	"github.com/bnema/spaced/internal/domain/entity"
)

var (
	historyJSON  bool
	historyLimit int
	historyYes   bool
)

const defaultHistoryLimit = 50

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent history",
	Long:  `Show the most recently visited pages, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search history",
	Long:  `Rank history entries the way the address bar suggests them.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistorySearch,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.PersistentFlags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "maximum entries to show")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "skip confirmation")
}

func runHistory(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	uc := app.SearchHistoryUC

	entries, err := uc.GetRecent(app.Ctx(), historyLimit, 0)
	if err != nil {
		return err
	}
	return printEntries(app.Theme, entries)
}

func runHistorySearch(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	uc := app.SearchHistoryUC

	matches, err := uc.Suggest(app.Ctx(), args[0], historyLimit)
	if err != nil {
		return err
	}
	entries := make([]*entity.HistoryEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, m.Entry)
	}
	return printEntries(app.Theme, entries)
}

func runHistoryClear(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	if !historyYes {
		return fmt.Errorf("refusing to delete history without --yes")
	}
	uc := app.SearchHistoryUC
	if err := uc.ClearAll(app.Ctx()); err != nil {
		return err
	}
	fmt.Println(app.Theme.SuccessStyle.Render(styles.IconTrash + " History cleared"))
	return nil
}

func printEntries(theme *styles.Theme, entries []*entity.HistoryEntry) error {
	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Println(theme.Subtle.Render("No history"))
		return nil
	}
	fmt.Println(styles.RenderHistoryTable(theme, entries, time.Now()))
	return nil
}
