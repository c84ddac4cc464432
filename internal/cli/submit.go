package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var submitWatch bool

var submitCmd = &cobra.Command{
	Use:   "submit <repo-url>",
	Short: "Submit a repository for documentation generation",
	Long: `Submit a repository URL to the server and print the job id.

Examples:
  autoreadme submit https://github.com/user/repo
  autoreadme submit --watch https://github.com/user/repo`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().BoolVarP(&submitWatch, "watch", "w", false, "poll the job until it finishes")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	job, err := apiClient.Submit(ctx, args[0])
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	fmt.Printf("Job submitted: %s\n", job.ID)

	if !submitWatch {
		fmt.Printf("Check progress with 'autoreadme status %s'\n", job.ID)
		return nil
	}

	return RunJobProgress(apiClient, job.ID)
}
