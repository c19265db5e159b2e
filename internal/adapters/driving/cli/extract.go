package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

var (
	extractMode      string
	extractChapterID string
	extractBudget    time.Duration
	extractTimeout   time.Duration
	extractOverlap   float64
	extractConsensus float64
	extractJSON      bool
	extractSave      bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract visual descriptions from a chapter",
	Long: `Run the extraction ensemble over a chapter of narrative text.

Reads from the given file, or from stdin when the file is "-" or
omitted. Results are printed ordered by priority.

Available modes:
  single     - fastest enabled processor only
  parallel   - all processors concurrently, merged without voting
  sequential - processors in weight order, later ones see earlier results
  ensemble   - all processors concurrently, weighted consensus voting
  adaptive   - mode chosen from text length, budget and processor count`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractMode, "mode", "m", "adaptive", "Extraction mode")
	extractCmd.Flags().StringVar(&extractChapterID, "chapter-id", "", "Chapter ID to stamp on results (defaults to file name)")
	extractCmd.Flags().DurationVar(&extractBudget, "budget", 0, "Total time budget (0 = unlimited)")
	extractCmd.Flags().DurationVar(&extractTimeout, "call-timeout", 0, "Per-processor call timeout")
	extractCmd.Flags().Float64Var(&extractOverlap, "overlap-threshold", 0, "Span overlap threshold for clustering (0 = default)")
	extractCmd.Flags().Float64Var(&extractConsensus, "consensus-threshold", 0, "Weighted agreement required to accept (0 = default)")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Output as JSON")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "Persist results to the description store")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	mode := domain.ExtractionMode(extractMode)
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, extractMode)
	}

	text, chapterID, err := readChapter(args)
	if err != nil {
		return err
	}
	if extractChapterID != "" {
		chapterID = extractChapterID
	}

	opts := domain.ExtractOptions{
		Mode:               mode,
		ChapterID:          chapterID,
		TimeBudget:         extractBudget,
		CallTimeout:        extractTimeout,
		OverlapThreshold:   extractOverlap,
		ConsensusThreshold: extractConsensus,
	}

	descs, err := extractionService.Extract(context.Background(), text, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractSave {
		if descriptionStore == nil {
			return errors.New("description store not configured")
		}
		if chapterID == "" {
			return fmt.Errorf("%w: --save requires a chapter ID", domain.ErrInvalidInput)
		}
		if err := descriptionStore.SaveDescriptions(context.Background(), chapterID, descs); err != nil {
			return fmt.Errorf("saving results: %w", err)
		}
	}

	if extractJSON {
		return printJSON(cmd, descs)
	}
	printDescriptions(cmd, descs)
	return nil
}

// readChapter loads the chapter text from a file argument or stdin and
// derives a default chapter ID.
func readChapter(args []string) (text, chapterID string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), chapterIDFromPath(args[0]), nil
}

func chapterIDFromPath(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	return base
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printDescriptions renders descriptions in priority order.
func printDescriptions(cmd *cobra.Command, descs []domain.Description) {
	if len(descs) == 0 {
		cmd.Println("No descriptions found.")
		return
	}

	for i := range descs {
		d := &descs[i]
		cmd.Printf("[%s] %.2f  %d-%d\n", d.Type, d.Confidence, d.Start, d.End)
		cmd.Printf("  %s\n", d.Text)
		cmd.Printf("  processors: %s\n", strings.Join(d.Processors, ", "))
		if d.Context != "" {
			cmd.Printf("  context: %s\n", d.Context)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d descriptions\n", len(descs))
}
