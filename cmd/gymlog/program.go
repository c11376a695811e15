// ABOUTME: CLI commands for the program catalog and exercise registry.
// ABOUTME: Imports weekly programs from JSON and manages exercises.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

var (
	exerciseType     string
	exerciseUnit     string
	exerciseArchived bool
)

var programCmd = &cobra.Command{
	Use:     "program",
	Aliases: []string{"prog"},
	Short:   "Import and inspect training programs",
	Long: `A program is a weekly template: for each training weekday a title and an
ordered list of exercises. The most recently imported program is active and is
what 'gymlog schedule generate' plans from.

FILE FORMAT:

  {
    "schemaVersion": 1,
    "program": {
      "name": "Push Pull Legs",
      "anchorWeekday": 1,
      "weekTemplate": {
        "days": [
          {"weekday": 1, "title": "Push", "exercises": [
            {"name": "Bench Press", "prescription": {"target_sets": 3, "target_reps": "5"}},
            {"name": "Overhead Press"}
          ]},
          {"weekday": 3, "title": "Pull", "exercises": [{"name": "Deadlift"}]}
        ]
      }
    }
  }

Weekdays run 0 (Sunday) to 6 (Saturday). Exercises named but not yet known are
created. anchorWeekday, when present, becomes the first day of your week.`,
}

var programImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a program from a JSON file and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var imp models.ProgramImport
		if err := json.Unmarshal(data, &imp); err != nil {
			return fmt.Errorf("invalid program file: %w", err)
		}

		result, err := db.ImportProgram(cmd.Context(), &imp)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := db.ApplyImportedAnchor(cmd.Context(), result); err != nil {
			return fmt.Errorf("failed to apply anchor weekday: %w", err)
		}

		color.Green("✓ Imported %s", imp.Program.Name)
		fmt.Printf("  %s %d training days\n",
			color.New(color.Faint).Sprint(models.ShortID(result.ProgramID)),
			len(imp.Program.WeekTemplate.Days))
		return nil
	},
}

var programShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := db.ActiveProgram(ctx)
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("No program imported. Run 'gymlog program import <file>'.")
			return nil
		}

		names := map[string]string{}
		err = db.View(ctx, func(tx *storage.Tx) error {
			exercises, err := tx.ListExercises(true)
			for _, e := range exercises {
				names[e.ID] = e.Name
			}
			return err
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(p.Program.Name),
			color.New(color.Faint).Sprint(models.ShortID(p.Program.ID)))
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Day", "Title", "#", "Exercise", "Target"})
		for _, day := range p.Days {
			for i, de := range day.Exercises {
				dayLabel, title := "", ""
				if i == 0 {
					dayLabel, title = day.Weekday.String(), day.Title
				}
				t.AppendRow(table.Row{dayLabel, title, de.Order, names[de.ExerciseID], prescriptionText(de.Prescription)})
			}
			if len(day.Exercises) == 0 {
				t.AppendRow(table.Row{day.Weekday.String(), day.Title, "", "", ""})
			}
		}
		t.Render()
		return nil
	},
}

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise registry",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register an exercise",
	Long: `Register an exercise by name.

EXAMPLES:

  gymlog exercise add "Romanian Deadlift"
  gymlog exercise add Rowing --type cardio --unit M`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := models.NewExercise(strings.TrimSpace(args[0]))
		if exerciseType != "" {
			e.Type = models.NormalizeExerciseType(strings.ToUpper(exerciseType))
		}
		if exerciseUnit != "" {
			e.DefaultUnit = models.NormalizeUnit(strings.ToUpper(exerciseUnit))
		}

		err := db.Update(cmd.Context(), func(tx *storage.Tx) error {
			existing, err := tx.FindExerciseByName(e.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("exercise %q already exists (%s)", existing.Name, models.ShortID(existing.ID))
			}
			return tx.CreateExercise(e)
		})
		if err != nil {
			return err
		}

		color.Green("✓ Added %s", e.Name)
		fmt.Printf("  %s %s %s\n", color.New(color.Faint).Sprint(models.ShortID(e.ID)), e.Type, e.DefaultUnit)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered exercises",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var exercises []*models.Exercise
		err := db.View(cmd.Context(), func(tx *storage.Tx) error {
			var err error
			exercises, err = tx.ListExercises(exerciseArchived)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "Name", "Type", "Unit"})
		for _, e := range exercises {
			t.AppendRow(table.Row{models.ShortID(e.ID), e.Name, e.Type, e.DefaultUnit})
		}
		t.Render()
		return nil
	},
}

func prescriptionText(p *models.Prescription) string {
	if p == nil {
		return ""
	}
	var parts []string
	if p.TargetSets != nil && p.TargetReps != "" {
		parts = append(parts, fmt.Sprintf("%dx%s", *p.TargetSets, p.TargetReps))
	} else if p.TargetSets != nil {
		parts = append(parts, fmt.Sprintf("%d sets", *p.TargetSets))
	} else if p.TargetReps != "" {
		parts = append(parts, p.TargetReps+" reps")
	}
	if p.TargetRIR != nil {
		parts = append(parts, fmt.Sprintf("RIR %d", *p.TargetRIR))
	}
	if p.RestSec != nil {
		parts = append(parts, fmt.Sprintf("rest %ds", *p.RestSec))
	}
	return strings.Join(parts, ", ")
}

func init() {
	exerciseAddCmd.Flags().StringVar(&exerciseType, "type", "", "strength, cardio, or other (default strength)")
	exerciseAddCmd.Flags().StringVar(&exerciseUnit, "unit", "", "default unit: KG, LB, MIN, M, KM, CAL, NONE")
	exerciseListCmd.Flags().BoolVar(&exerciseArchived, "archived", false, "include archived exercises")

	programCmd.AddCommand(programImportCmd)
	programCmd.AddCommand(programShowCmd)
	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	rootCmd.AddCommand(programCmd)
	rootCmd.AddCommand(exerciseCmd)
}
