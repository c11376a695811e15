// ABOUTME: CLI commands for workout sessions and their sets.
// ABOUTME: Covers start, log, finish, and the correction flow for finished sessions.
package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

var (
	sessionLimit int

	setType     string
	setReps     int
	setLoad     float64
	setRIR      float64
	setDistance float64
	setDuration int
	setCalories float64

	finishPerformance int
	finishEnergy      int
	finishMindMuscle  int
	finishMental      string
	finishPreWorkout  string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sess"},
	Short:   "Run and correct workout sessions",
	Long: `A session is one workout. Starting a planned day seeds the session with the
day's exercises; each exercise gets a slot you log sets against.

WORKFLOW:

  1. Start:    gymlog session start                    # prints session and slot ids
  2. Log sets: gymlog session log <session> <slot> --reps 5 --load 80
  3. Finish:   gymlog session finish <session> --performance 4 --energy 4 --mind-muscle 3

Finishing updates personal records and lifetime stats.

CORRECTIONS:

  Sets of finished sessions can be fixed afterwards:

    gymlog session set-update <set> --load 75
    gymlog session set-delete <set>
    gymlog session save <session>          # reconcile records and stats`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start [date]",
	Short: "Start (or resume) the session for a date (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 0)
		if err != nil {
			return err
		}
		id, err := sessions.StartFromSchedule(cmd.Context(), date)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		color.Green("✓ Session %s for %s", models.ShortID(id), date)
		return showSession(cmd.Context(), cmd.OutOrStdout(), id)
	},
}

var sessionActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the session in progress, if any",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok, err := sessions.ResumeActive(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No session in progress.")
			return nil
		}
		return showSession(cmd.Context(), cmd.OutOrStdout(), id)
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent sessions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var list []*models.Session
		err := db.View(cmd.Context(), func(tx *storage.Tx) error {
			var err error
			list, err = tx.ListSessions(sessionLimit)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "Date", "State", "Duration"})
		for _, s := range list {
			duration := "-"
			if s.DurationSec != nil {
				duration = formatDuration(*s.DurationSec)
			}
			t.AppendRow(table.Row{models.ShortID(s.ID), s.Date, s.State, duration})
		}
		t.Render()
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show a session with its exercises and sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "sessions", args[0])
		if err != nil {
			return err
		}
		return showSession(cmd.Context(), cmd.OutOrStdout(), id)
	},
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <session> <exercise>",
	Short: "Append an exercise (by name or id) to a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionID, err := db.ResolveID(ctx, "sessions", args[0])
		if err != nil {
			return err
		}
		ex, err := resolveExercise(ctx, args[1])
		if err != nil {
			return err
		}
		slot, err := sessions.AddOrSwapExercise(ctx, sessionID, models.ExerciseChange{
			Mode:       models.ExerciseAdd,
			ExerciseID: ex.ID,
		})
		if err != nil {
			return err
		}
		color.Green("✓ Added %s", ex.Name)
		fmt.Printf("  slot %s\n", color.New(color.Faint).Sprint(models.ShortID(slot)))
		return nil
	},
}

var sessionSwapCmd = &cobra.Command{
	Use:   "swap <session> <slot> <exercise>",
	Short: "Replace the exercise of a session slot",
	Long: `Replace the exercise of a slot. Sets already logged in the slot keep the
exercise they were logged against.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionID, err := db.ResolveID(ctx, "sessions", args[0])
		if err != nil {
			return err
		}
		slotID, err := db.ResolveID(ctx, "session_exercises", args[1])
		if err != nil {
			return err
		}
		ex, err := resolveExercise(ctx, args[2])
		if err != nil {
			return err
		}
		_, err = sessions.AddOrSwapExercise(ctx, sessionID, models.ExerciseChange{
			Mode:       models.ExerciseSwap,
			TargetID:   slotID,
			ExerciseID: ex.ID,
		})
		if err != nil {
			return err
		}
		color.Green("✓ Slot %s is now %s", models.ShortID(slotID), ex.Name)
		return nil
	},
}

var sessionLogCmd = &cobra.Command{
	Use:     "log <session> <slot>",
	Aliases: []string{"set"},
	Short:   "Log a set",
	Long: `Log a set against an exercise slot of a session.

EXAMPLES:

  gymlog session log 01HZX3AB 9KQ2M1PD --reps 5 --load 80
  gymlog session log 01HZX3AB 9KQ2M1PD --type warmup --reps 10 --load 40
  gymlog session log 01HZX3AB 7TT0C3XY --type cardio --distance 5 --duration 1500`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionID, err := db.ResolveID(ctx, "sessions", args[0])
		if err != nil {
			return err
		}
		slotID, err := db.ResolveID(ctx, "session_exercises", args[1])
		if err != nil {
			return err
		}

		st, err := parseSetType(setType)
		if err != nil {
			return err
		}
		patch := setFlagsPatch(cmd)
		payload := models.SetPayload{
			SetType:     st,
			Reps:        patch.Reps,
			Load:        patch.Load,
			RIR:         patch.RIR,
			Distance:    patch.Distance,
			DurationSec: patch.DurationSec,
			Calories:    patch.Calories,
		}

		id, err := sessions.LogSet(ctx, sessionID, slotID, payload)
		if err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}
		color.Green("✓ Logged %s set", st)
		fmt.Printf("  %s %s x %s\n",
			color.New(color.Faint).Sprint(models.ShortID(id)),
			optInt(payload.Reps), optFloat(payload.Load))
		return nil
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish <session>",
	Short: "Finish a session",
	Long: `Finish a session. Ratings are optional but must be given together (1-5).

EXAMPLES:

  gymlog session finish 01HZX3AB
  gymlog session finish 01HZX3AB --performance 4 --energy 3 --mind-muscle 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := db.ResolveID(ctx, "sessions", args[0])
		if err != nil {
			return err
		}

		var endLog *models.EndLog
		if finishPerformance != 0 || finishEnergy != 0 || finishMindMuscle != 0 {
			endLog = &models.EndLog{
				Performance:    finishPerformance,
				Energy:         finishEnergy,
				MindMuscle:     finishMindMuscle,
				MentalState:    finishMental,
				PreWorkoutUsed: finishPreWorkout,
			}
		}
		if err := sessions.Finish(ctx, id, endLog); err != nil {
			return fmt.Errorf("failed to finish session: %w", err)
		}
		color.Green("✓ Finished session %s", models.ShortID(id))
		return showSession(ctx, cmd.OutOrStdout(), id)
	},
}

var sessionSetUpdateCmd = &cobra.Command{
	Use:   "set-update <set>",
	Short: "Correct a set of a finished session",
	Long: `Correct a set of a finished session. Only the given flags change.
Run 'gymlog session save <session>' afterwards to reconcile records and stats.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := db.ResolveID(ctx, "set_entries", args[0])
		if err != nil {
			return err
		}
		patch := setFlagsPatch(cmd)
		if cmd.Flags().Changed("type") {
			st, err := parseSetType(setType)
			if err != nil {
				return err
			}
			patch.SetType = &st
		}
		if err := sessions.UpdateSet(ctx, id, patch); err != nil {
			return fmt.Errorf("failed to update set: %w", err)
		}
		color.Green("✓ Updated set %s", models.ShortID(id))
		return nil
	},
}

var sessionSetDeleteCmd = &cobra.Command{
	Use:     "set-delete <set>",
	Aliases: []string{"set-rm"},
	Short:   "Delete a set of a finished session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := db.ResolveID(ctx, "set_entries", args[0])
		if err != nil {
			return err
		}
		if err := sessions.DeleteSet(ctx, id); err != nil {
			return fmt.Errorf("failed to delete set: %w", err)
		}
		color.Yellow("✗ Deleted set %s", models.ShortID(id))
		return nil
	},
}

var sessionSaveCmd = &cobra.Command{
	Use:   "save <session>",
	Short: "Reconcile records and stats after correcting a finished session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := db.ResolveID(ctx, "sessions", args[0])
		if err != nil {
			return err
		}
		if err := sessions.SaveEdited(ctx, id); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		color.Green("✓ Saved session %s", models.ShortID(id))
		return nil
	},
}

func parseSetType(s string) (models.SetType, error) {
	if s == "" {
		return models.SetWorking, nil
	}
	st := models.SetType(strings.ToUpper(s))
	if !models.IsValidSetType(string(st)) {
		return "", fmt.Errorf("unknown set type: %s (use warmup, working, cardio, or other)", s)
	}
	return st, nil
}

// setFlagsPatch collects the numeric set flags the user actually passed.
func setFlagsPatch(cmd *cobra.Command) models.SetPatch {
	flags := cmd.Flags()
	var p models.SetPatch
	if flags.Changed("reps") {
		v := setReps
		p.Reps = &v
	}
	if flags.Changed("load") {
		v := setLoad
		p.Load = &v
	}
	if flags.Changed("rir") {
		v := setRIR
		p.RIR = &v
	}
	if flags.Changed("distance") {
		v := setDistance
		p.Distance = &v
	}
	if flags.Changed("duration") {
		v := setDuration
		p.DurationSec = &v
	}
	if flags.Changed("calories") {
		v := setCalories
		p.Calories = &v
	}
	return p
}

func addSetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&setType, "type", "t", "", "set type: warmup, working, cardio, other (default working)")
	cmd.Flags().IntVarP(&setReps, "reps", "r", 0, "repetitions")
	cmd.Flags().Float64VarP(&setLoad, "load", "l", 0, "load in your weight unit")
	cmd.Flags().Float64Var(&setRIR, "rir", 0, "reps in reserve")
	cmd.Flags().Float64Var(&setDistance, "distance", 0, "distance")
	cmd.Flags().IntVar(&setDuration, "duration", 0, "duration in seconds")
	cmd.Flags().Float64Var(&setCalories, "calories", 0, "calories")
}

func showSession(ctx context.Context, out io.Writer, id string) error {
	snap, err := sessions.Snapshot(ctx, id)
	if err != nil {
		return err
	}
	printSnapshot(out, snap)
	return nil
}

func printSnapshot(out io.Writer, snap *models.SessionSnapshot) {
	s := snap.Session
	faint := color.New(color.Faint)
	fmt.Fprintf(out, "Session %s  %s  %s\n", models.ShortID(s.ID), s.Date, s.State)
	if s.DurationSec != nil {
		fmt.Fprintf(out, "  Duration: %s\n", formatDuration(*s.DurationSec))
	}
	if s.EndLog != nil {
		fmt.Fprintf(out, "  Performance %d  Energy %d  Mind-muscle %d\n",
			s.EndLog.Performance, s.EndLog.Energy, s.EndLog.MindMuscle)
	}

	names := make(map[string]string, len(snap.Exercises))
	for _, e := range snap.Exercises {
		names[e.ID] = e.Name
	}

	if len(snap.SessionExercises) == 0 {
		fmt.Fprintln(out, faint.Sprint("  No exercises yet. Add one with 'gymlog session add'."))
		return
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Slot", "Exercise", "Set", "Type", "Reps", "Load", "RIR", "Set ID"})
	for _, se := range snap.SessionExercises {
		name := names[se.ExerciseID]
		sets := snap.SetsFor(se.ID)
		if len(sets) == 0 {
			t.AppendRow(table.Row{models.ShortID(se.ID), name, "", "", "", "", "", ""})
			continue
		}
		for i, set := range sets {
			slot, label := "", ""
			if i == 0 {
				slot, label = models.ShortID(se.ID), name
			}
			if set.ExerciseID != se.ExerciseID {
				label = names[set.ExerciseID]
			}
			t.AppendRow(table.Row{
				slot, label, set.Order, set.SetType,
				optInt(set.Reps), optFloat(set.Load), optFloat(set.RIR),
				models.ShortID(set.ID),
			})
		}
	}
	t.Render()
}

func init() {
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "max number of sessions")

	addSetFlags(sessionLogCmd)
	addSetFlags(sessionSetUpdateCmd)

	sessionFinishCmd.Flags().IntVar(&finishPerformance, "performance", 0, "performance rating 1-5")
	sessionFinishCmd.Flags().IntVar(&finishEnergy, "energy", 0, "energy rating 1-5")
	sessionFinishCmd.Flags().IntVar(&finishMindMuscle, "mind-muscle", 0, "mind-muscle connection rating 1-5")
	sessionFinishCmd.Flags().StringVar(&finishMental, "mental-state", "", "note on mental state")
	sessionFinishCmd.Flags().StringVar(&finishPreWorkout, "pre-workout", "", "pre-workout used")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionActiveCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionSwapCmd)
	sessionCmd.AddCommand(sessionLogCmd)
	sessionCmd.AddCommand(sessionFinishCmd)
	sessionCmd.AddCommand(sessionSetUpdateCmd)
	sessionCmd.AddCommand(sessionSetDeleteCmd)
	sessionCmd.AddCommand(sessionSaveCmd)
	rootCmd.AddCommand(sessionCmd)
}
