package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sylly/backend/internal/client"
	"github.com/sylly/backend/internal/ui"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a syllabus and file it under a subject",
	Long:  `Upload a PDF, DOCX, JPEG or PNG (up to 10MB) for event extraction. The subject is created if it does not exist yet.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		icsPath, _ := cmd.Flags().GetString("ics")
		retries, _ := cmd.Flags().GetInt("retries")

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		c := newClient()
		u := client.NewUploader(c, ws)

		file, err := u.Select(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%.1f KB)\n", file.Name, float64(file.Size)/1024)

		result, err := u.Submit(cmd.Context(), subject)
		for attempt := 0; err != nil && u.State() == client.StateFailed && attempt < retries; attempt++ {
			fmt.Println(ui.Error(failureMessage(err)) + ", retrying")
			if rerr := u.Retry(); rerr != nil {
				break
			}
			result, err = u.Submit(cmd.Context(), subject)
		}
		if err != nil {
			if u.State() == client.StateFailed {
				return errors.New(failureMessage(err))
			}
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Filed %s under %s", file.Name, result.Record.Subject)))
		if result.Record.URL != "" {
			fmt.Printf("View File: %s\n", c.FileURL(result.Record.URL))
		}
		fmt.Println()
		fmt.Print(ui.FormatEvents(result.Events))

		if icsPath != "" && len(result.Events) > 0 {
			data, err := c.ExportCalendar(cmd.Context(), result.Events)
			if err != nil {
				return fmt.Errorf("export calendar: %w", err)
			}
			if err := os.WriteFile(icsPath, data, 0644); err != nil {
				return err
			}
			fmt.Println(ui.Success("Calendar written to " + icsPath))
		}
		return nil
	},
}

// failureMessage mirrors how the upload page reported failures: server
// messages as errors, everything else as a failed request.
func failureMessage(err error) string {
	var serr *client.ServerError
	if errors.As(err, &serr) {
		return "Error: " + serr.Message
	}
	return "Failed to process file: " + err.Error()
}

func init() {
	uploadCmd.Flags().StringP("subject", "s", "", "subject to file the upload under (required)")
	uploadCmd.Flags().String("ics", "", "also write the extracted events to this .ics file")
	uploadCmd.Flags().Int("retries", 0, "retry a failed upload this many times")
	rootCmd.AddCommand(uploadCmd)
}
