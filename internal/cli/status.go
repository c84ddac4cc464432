package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/autoreadme/internal/client"
)

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the current state of a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	job, err := apiClient.Status(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	printJob(job)
	return nil
}

func printJob(job *client.Job) {
	fmt.Printf("Job: %s\n", job.ID)
	fmt.Printf("  Status: %s\n", job.Status)
	if job.Stage != "" {
		fmt.Printf("  Stage: %s\n", job.Stage)
	}
	if job.FilesProcessed > 0 {
		fmt.Printf("  Files: %d (documented: %d)\n", job.FilesProcessed, job.DocumentsGenerated)
	}
	if job.ResultURL != "" {
		fmt.Printf("  Documentation: %s\n", job.ResultURL)
	}
	if job.Error != "" {
		fmt.Printf("  Error: %s\n", job.Error)
	}
}
