package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sylly/backend/internal/extract"
	"github.com/sylly/backend/internal/ui"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Show one card per subject with its file count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		folders, err := ws.Folders()
		if err != nil {
			return err
		}
		fmt.Print(ui.FormatFolderList(folders))
		return nil
	},
}

var folderCmd = &cobra.Command{
	Use:   "folder SUBJECT",
	Short: "List the files filed under a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		files, err := ws.Files(args[0])
		if err != nil {
			return err
		}
		fmt.Print(ui.FormatFileList(args[0], files, newClient().FileURL))
		return nil
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details SUBJECT FILE",
	Short: "Show the events view for an uploaded file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		rec, err := ws.Find(args[0], args[1])
		if err != nil {
			return fmt.Errorf("%s in %s: %w", args[1], args[0], err)
		}

		// Per-file events are not kept, the view shows placeholder events.
		out, err := ui.RenderMarkdown(ui.DetailsMarkdown(*rec, extract.DetailEvents()))
		if err != nil {
			return err
		}
		fmt.Print(out)
		if rec.URL != "" {
			fmt.Printf("View File: %s\n", newClient().FileURL(rec.URL))
		}
		return nil
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the uploads stored on the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := newClient().ListUploads(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(ui.FormatListing(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(filesCmd)
}
