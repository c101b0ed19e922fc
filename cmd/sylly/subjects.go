package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sylly/backend/internal/ui"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List subjects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		subjects, err := ws.Subjects()
		if err != nil {
			return err
		}
		if len(subjects) == 0 {
			fmt.Println("No subjects yet.")
			return nil
		}
		for _, s := range subjects {
			fmt.Printf("  %s\n", s)
		}
		return nil
	},
}

var subjectsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		added, err := ws.AddSubject(args[0])
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("Subject %q already exists.\n", args[0])
			return nil
		}
		fmt.Println(ui.Success("Created subject " + args[0]))
		return nil
	},
}

func init() {
	subjectsCmd.AddCommand(subjectsAddCmd)
	rootCmd.AddCommand(subjectsCmd)
}
