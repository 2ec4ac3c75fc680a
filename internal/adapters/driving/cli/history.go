package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
)

var historyDB string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded cases",
	Long:  `List and show cases recorded by "analyze --history".`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded cases",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [case-id]",
	Short: "Show a recorded case",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDB, "db", "", "History database path")
	_ = historyCmd.MarkPersistentFlagRequired("db")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func withHistory(fn func(driving.HistoryService) error) error {
	if openHistory == nil {
		return errors.New("history store not configured")
	}
	history, closeFn, err := openHistory(historyDB)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = closeFn() }()
	return fn(history)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	return withHistory(func(history driving.HistoryService) error {
		records, err := history.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list cases: %w", err)
		}
		if len(records) == 0 {
			cmd.Println("No cases recorded.")
			return nil
		}
		cmd.Printf("Recorded cases (%d):\n\n", len(records))
		for _, r := range records {
			cmd.Printf("  %s  %s  %s", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.CaseName)
			if r.CaseNumber != "" {
				cmd.Printf(" (%s)", r.CaseNumber)
			}
			cmd.Printf("  issues: %d\n", len(r.Issues))
		}
		return nil
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withHistory(func(history driving.HistoryService) error {
		r, err := history.Get(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("case %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get case: %w", err)
		}

		cmd.Printf("Case: %s\n", r.CaseName)
		cmd.Printf("Number: %s\n", r.CaseNumber)
		cmd.Printf("ID: %s\n", r.ID)
		cmd.Printf("Recorded: %s\n\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
		printList(cmd, "Legal issues", r.Issues)
		printList(cmd, "Possible defenses", r.Defenses)
		cmd.Println()
		cmd.Println("Facts")
		cmd.Println("-----")
		cmd.Println(r.Facts)
		cmd.Println()
		cmd.Println("Motion")
		cmd.Println("------")
		cmd.Println(r.Motion)
		return nil
	})
}
