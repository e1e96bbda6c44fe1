package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/terra-clan/learnpath/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and import catalog content",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the content directory and report problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := contentDir(cmd)
		if err != nil {
			return err
		}

		cat, err := catalog.LoadFromDir(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		stats := cat.Stats()
		fmt.Fprintf(out, "roadmaps: %d (%d published, %d drafts, %d steps)\n",
			stats.Roadmaps, stats.PublishedRoadmaps, stats.DraftRoadmaps, stats.Steps)
		fmt.Fprintf(out, "topics: %d, resources: %d\n", stats.Topics, stats.Resources)
		fmt.Fprintf(out, "questions: %d, interview questions: %d, exercises: %d\n",
			stats.Questions, stats.InterviewQuestions, stats.Exercises)

		warnings := cat.Check()
		for _, w := range warnings {
			fmt.Fprintln(out, "warning:", w)
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict && len(warnings) > 0 {
			return fmt.Errorf("%d catalog warnings", len(warnings))
		}
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import FILE.xlsx",
	Short: "Validate a question spreadsheet and install it into the content directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := contentDir(cmd)
		if err != nil {
			return err
		}

		questions, err := catalog.ImportQuestionsXLSX(args[0])
		if err != nil {
			return err
		}
		if err := catalog.New().Replace(catalog.Content{Questions: questions}); err != nil {
			return fmt.Errorf("invalid spreadsheet: %w", err)
		}

		target := filepath.Join(dir, catalog.QuestionSheetFile)
		if err := catalog.WriteQuestionsXLSX(target, questions); err != nil {
			return err
		}

		// Reload to catch id clashes with quiz.yaml
		if _, err := catalog.LoadFromDir(dir); err != nil {
			return fmt.Errorf("imported sheet conflicts with existing content: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions into %s\n", len(questions), target)
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export FILE.xlsx",
	Short: "Write every quiz question of the catalog to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := contentDir(cmd)
		if err != nil {
			return err
		}

		cat, err := catalog.LoadFromDir(dir)
		if err != nil {
			return err
		}

		questions := cat.Questions()
		if err := catalog.WriteQuestionsXLSX(args[0], questions); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "exported %d questions to %s\n", len(questions), args[0])
		return nil
	},
}

func init() {
	catalogCmd.PersistentFlags().String("dir", "", "Content directory (overrides CONTENT_DIR)")
	catalogCheckCmd.Flags().Bool("strict", false, "Fail when warnings are reported")

	catalogCmd.AddCommand(catalogCheckCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)
}

// contentDir returns the --dir flag, then the configured content directory
func contentDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Content.Dir, nil
}
