package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "Manage stored extraction results",
	Long:  `List, view, or delete extraction results persisted per chapter.`,
}

var chaptersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chapters with stored results",
	RunE:  runChaptersList,
}

var chaptersShowJSON bool

var chaptersShowCmd = &cobra.Command{
	Use:   "show [chapter-id]",
	Short: "Show a chapter's stored descriptions",
	Args:  cobra.ExactArgs(1),
	RunE:  runChaptersShow,
}

var chaptersDeleteCmd = &cobra.Command{
	Use:   "delete [chapter-id]",
	Short: "Delete a chapter's stored descriptions",
	Args:  cobra.ExactArgs(1),
	RunE:  runChaptersDelete,
}

func init() {
	chaptersShowCmd.Flags().BoolVar(&chaptersShowJSON, "json", false, "Output as JSON")

	chaptersCmd.AddCommand(chaptersListCmd)
	chaptersCmd.AddCommand(chaptersShowCmd)
	chaptersCmd.AddCommand(chaptersDeleteCmd)
	rootCmd.AddCommand(chaptersCmd)
}

func runChaptersList(cmd *cobra.Command, _ []string) error {
	if descriptionStore == nil {
		return errors.New("description store not configured")
	}

	chapters, err := descriptionStore.ListChapters(context.Background())
	if err != nil {
		return fmt.Errorf("listing chapters: %w", err)
	}

	if len(chapters) == 0 {
		cmd.Println("No stored results.")
		return nil
	}
	for _, id := range chapters {
		cmd.Println(id)
	}
	return nil
}

func runChaptersShow(cmd *cobra.Command, args []string) error {
	if descriptionStore == nil {
		return errors.New("description store not configured")
	}

	descs, err := descriptionStore.GetDescriptions(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading chapter %s: %w", args[0], err)
	}

	if chaptersShowJSON {
		return printJSON(cmd, descs)
	}
	printDescriptions(cmd, descs)
	return nil
}

func runChaptersDelete(cmd *cobra.Command, args []string) error {
	if descriptionStore == nil {
		return errors.New("description store not configured")
	}

	if err := descriptionStore.DeleteDescriptions(context.Background(), args[0]); err != nil {
		return fmt.Errorf("deleting chapter %s: %w", args[0], err)
	}
	cmd.Printf("Deleted stored results for %s\n", args[0])
	return nil
}
