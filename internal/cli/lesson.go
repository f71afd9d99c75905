package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/formulalab/masterclass/pkg/lesson"
)

// lessonCommand creates the lesson command for inspecting and moving
// lesson data between files.
func (c *CLI) lessonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Inspect and manage lesson data",
	}

	cmd.AddCommand(c.lessonShowCommand())
	cmd.AddCommand(c.lessonSaveCommand())
	cmd.AddCommand(c.lessonCheckCommand())

	return cmd
}

// lessonShowCommand creates the "lesson show" subcommand.
func (c *CLI) lessonShowCommand() *cobra.Command {
	var lessonPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the lesson fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lessonPath == "" {
				lessonPath = c.Config.Lesson
			}
			doc := lesson.Default()
			if lessonPath != "" {
				loaded, err := lesson.ImportJSON(lessonPath, doc)
				if err != nil {
					return err
				}
				doc = loaded
			}

			fmt.Println(StyleTitle.Render(doc.Title))
			printKeyValue("Subtitle", doc.Subtitle)
			printKeyValue("Date", doc.Date)
			printKeyValue("Time", doc.Time)
			printKeyValue("Location", doc.Location)
			printKeyValue("Teacher", doc.Teacher+" · "+doc.TeacherRole)
			printKeyValue("Email", doc.Email)
			printKeyValue("Objectives", strings.Join(doc.Objectives, " / "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&lessonPath, "lesson", "l", "", "lesson JSON file to load over the defaults")
	return cmd
}

// lessonSaveCommand creates the "lesson save" subcommand.
func (c *CLI) lessonSaveCommand() *cobra.Command {
	var lessonPath string

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Write the lesson as JSON",
		Long: `Write the lesson as a JSON file.

Without an argument the file is named after the lesson title
(lezione-<title>.json). The file can be edited by hand and loaded back
with --lesson on any command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lessonPath == "" {
				lessonPath = c.Config.Lesson
			}
			doc := lesson.Default()
			if lessonPath != "" {
				loaded, err := lesson.ImportJSON(lessonPath, doc)
				if err != nil {
					return err
				}
				doc = loaded
			}

			path := lesson.ExportFilename(doc)
			if len(args) == 1 {
				path = args[0]
			}
			if err := lesson.ExportJSON(doc, path); err != nil {
				return err
			}
			printSuccess("Saved lesson")
			printFile(path)
			printNextStep("Load it back", appName+" present --lesson "+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&lessonPath, "lesson", "l", "", "lesson JSON file to load over the defaults")
	return cmd
}

// lessonCheckCommand creates the "lesson check" subcommand.
func (c *CLI) lessonCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a lesson JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := lesson.ImportJSON(args[0], lesson.Default())
			if err != nil {
				return err
			}
			printSuccess("Lesson file is valid")
			printDetail("Title: %s", doc.Title)
			printDetail("Objectives: %d", len(doc.Objectives))
			return nil
		},
	}
}
