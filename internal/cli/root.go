// Package cli provides the command-line interface for autoreadme.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/autoreadme/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string

	// API client, created before any command runs
	apiClient *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "autoreadme",
	Short: "Generate hosted documentation for a repository",
	Long: `Autoreadme turns a repository URL into a hosted documentation page.

Submit a repository to a running autoreadme server and poll the job until
the documentation link is ready, or run the whole pipeline locally with
'autoreadme run'.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apiClient = client.New(serverURL)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "autoreadme server URL (default $AUTOREADME_SERVER_URL or http://localhost:8080)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
