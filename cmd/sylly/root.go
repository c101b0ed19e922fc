package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sylly/backend/internal/client"
	"github.com/sylly/backend/internal/ui"
	"github.com/sylly/backend/internal/workspace"
)

const defaultServer = "http://localhost:8080"

var (
	serverURL    string
	workspaceDir string
)

var rootCmd = &cobra.Command{
	Use:           "sylly",
	Short:         "Upload syllabi and browse subject folders",
	Long:          `sylly sends syllabus documents to a sylly server for event extraction and files them under subjects in a local workspace.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func openWorkspace() (*workspace.Workspace, error) {
	store, err := workspace.OpenBadger(workspaceDir)
	if err != nil {
		return nil, err
	}
	return workspace.New(store), nil
}

func newClient() *client.Client {
	return client.NewClient(serverURL, client.DefaultTimeout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("SYLLY_SERVER", defaultServer), "sylly server base URL")
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "workspace", envOr("SYLLY_WORKSPACE", workspace.DefaultPath()), "workspace directory")
}
