package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clonecraft/internal/pipeline"
)

var resumeFile string

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "inspect or clear the resume file's already-applied cluster list",
}

var resumeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "print every cluster recorded as already applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := pipeline.LoadResumeState(resumeFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", resumeFile, err)
		}
		if len(state.Entries) == 0 {
			fmt.Println("no clusters recorded")
			return nil
		}
		for _, e := range state.Entries {
			fmt.Printf("%s\t%s\n", e.ID, e.Result)
		}
		return nil
	},
}

var resumeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "delete the resume file, discarding every recorded cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.Remove(resumeFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", resumeFile, err)
		}
		fmt.Println("resume file cleared")
		return nil
	},
}

func init() {
	resumeCmd.PersistentFlags().StringVar(&resumeFile, "resume-file", ".clonecraft-resume.json", "path to the resume file")
	resumeCmd.AddCommand(resumeShowCmd, resumeClearCmd)
}
