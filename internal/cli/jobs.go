package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List jobs known to the server",
	Args:  cobra.NoArgs,
	RunE:  runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	jobs, err := apiClient.ListJobs(context.Background())
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	fmt.Printf("%-38s %-12s %-12s %s\n", "ID", "STATUS", "STAGE", "FILES")
	fmt.Println("--------------------------------------------------------------------------")
	for _, job := range jobs {
		files := ""
		if job.FilesProcessed > 0 {
			files = fmt.Sprintf("%d/%d", job.DocumentsGenerated, job.FilesProcessed)
		}
		fmt.Printf("%-38s %-12s %-12s %s\n", job.ID, job.Status, job.Stage, files)
	}
	return nil
}
