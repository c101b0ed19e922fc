// Package ui renders workspace and server data for the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/sylly/backend/internal/models"
	"github.com/sylly/backend/internal/workspace"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// MarkdownStyle is the glamour style used by RenderMarkdown.
var MarkdownStyle = "auto"

func FileCount(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

func FormatFolderList(folders []workspace.Folder) string {
	if len(folders) == 0 {
		return "No subjects yet.\n"
	}

	var sb strings.Builder
	for _, f := range folders {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", bold(f.Subject), faint(FileCount(f.Count))))
	}
	return sb.String()
}

// FormatFileList renders one subject folder. fileURL resolves a record's
// site-relative URL to a link.
func FormatFileList(subject string, files []models.UploadRecord, fileURL func(string) string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", bold(subject), faint("("+FileCount(len(files))+")")))
	sb.WriteString(Separator())

	if len(files) == 0 {
		sb.WriteString("No files in this subject yet.\n")
		return sb.String()
	}

	for _, f := range files {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			cyan(fmt.Sprintf("[%s]", f.Badge())),
			bold(f.Name),
			faint(fmt.Sprintf("%d KB", f.SizeKB()))))
		if uploaded := formatDate(f.Date); uploaded != "" {
			sb.WriteString(fmt.Sprintf("         %s %s\n", faint("Uploaded:"), faint(uploaded)))
		}
		sb.WriteString(fmt.Sprintf("         %s sylly details %q %q\n", faint("View Events:"), subject, f.Name))
		if f.URL != "" {
			sb.WriteString(fmt.Sprintf("         %s %s\n", faint("View File:"), fileURL(f.URL)))
		}
	}
	return sb.String()
}

func FormatEvents(events []models.Event) string {
	if len(events) == 0 {
		return "No events found in the file.\n"
	}

	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("  %s %s\n", bold(e.Title), yellow("["+string(e.Type)+"]")))

		when := strings.TrimSpace(e.Date + "  " + e.Time)
		if when != "" {
			sb.WriteString(fmt.Sprintf("     %s %s\n", faint("When:"), when))
		}
		if e.Location != "" {
			sb.WriteString(fmt.Sprintf("     %s %s\n", faint("Where:"), e.Location))
		}
		if e.Note != "" {
			sb.WriteString(fmt.Sprintf("     %s %s\n", faint("Note:"), e.Note))
		}
	}
	return sb.String()
}

// DetailsMarkdown builds the file details page as markdown.
func DetailsMarkdown(rec models.UploadRecord, events []models.Event) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", rec.Name))
	sb.WriteString(fmt.Sprintf("**Subject:** %s  \n", rec.Subject))
	sb.WriteString(fmt.Sprintf("**Size:** %d KB  \n", rec.SizeKB()))
	if uploaded := formatDate(rec.Date); uploaded != "" {
		sb.WriteString(fmt.Sprintf("**Uploaded:** %s  \n", uploaded))
	}
	sb.WriteString("\n## Events\n\n")

	if len(events) == 0 {
		sb.WriteString("No events found in the file.\n")
		return sb.String()
	}

	for _, e := range events {
		sb.WriteString(fmt.Sprintf("- **%s** (%s)\n", e.Title, e.Type))
		if e.Date != "" || e.Time != "" {
			sb.WriteString(fmt.Sprintf("  - When: %s\n", strings.TrimSpace(e.Date+" "+e.Time)))
		}
		if e.Location != "" {
			sb.WriteString(fmt.Sprintf("  - Where: %s\n", e.Location))
		}
		if e.Note != "" {
			sb.WriteString(fmt.Sprintf("  - Note: %s\n", e.Note))
		}
	}
	return sb.String()
}

func RenderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(MarkdownStyle),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return content, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func FormatListing(files []models.ListedFile) string {
	if len(files) == 0 {
		return "No uploads on the server.\n"
	}

	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			bold(f.Name),
			faint(fmt.Sprintf("%d KB", (f.Size+512)/1024)),
			faint(f.Modified)))
	}
	return sb.String()
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

// formatDate shows RFC 3339 record dates in local time.
func formatDate(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("2006-01-02 15:04")
}
