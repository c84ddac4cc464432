package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/autoreadme/internal/config"
	"github.com/raphaelgruber/autoreadme/internal/fetch"
	"github.com/raphaelgruber/autoreadme/internal/llm"
	"github.com/raphaelgruber/autoreadme/internal/metrics"
	"github.com/raphaelgruber/autoreadme/internal/publish"
	"github.com/raphaelgruber/autoreadme/internal/service"
	"github.com/raphaelgruber/autoreadme/internal/store"
)

var runOutputDir string

var runCmd = &cobra.Command{
	Use:   "run <repo-url>",
	Short: "Run the documentation pipeline locally, without a server",
	Long: `Run the full pipeline in-process and write the compiled page to a
local directory instead of object storage.

Examples:
  autoreadme run https://github.com/user/repo
  autoreadme run --output ./docs https://github.com/user/repo`,
	Args: cobra.ExactArgs(1),
	RunE: runLocal,
}

func init() {
	runCmd.Flags().StringVarP(&runOutputDir, "output", "o", ".", "directory to write the compiled page into")
	rootCmd.AddCommand(runCmd)
}

func runLocal(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()

	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize LLM: %w", err)
	}

	mc := metrics.NewCollector()
	st := store.NewMemoryStore()
	summarizer := service.NewFileSummarizer(model, cfg.SummarizeWorkers, cfg.SummarizeRetries, mc)
	pipeline := service.NewPipeline(st, fetch.NewGitFetcher(cfg.MaxFileBytes), summarizer,
		&publish.FilePublisher{Dir: runOutputDir}, mc)
	manager := service.NewJobManager(st, pipeline, 1)

	job, err := manager.Submit(ctx, args[0])
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	fmt.Printf("Running job %s...\n", job.ID)
	manager.Wait()

	final, err := manager.Status(ctx, job.ID)
	if err != nil {
		return err
	}

	if final.Error != "" {
		return fmt.Errorf("job failed: %s", final.Error)
	}

	fmt.Printf("Files processed:     %d\n", final.FilesProcessed)
	fmt.Printf("Documents generated: %d\n", final.DocumentsGenerated)
	fmt.Printf("Documentation:       %s\n", final.ResultURL)
	return nil
}
