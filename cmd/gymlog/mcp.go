// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server over the schedule and session engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "gymlog": {
        "command": "gymlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  generate_week        Plan the anchored week containing a date
  get_week             Schedule entries of a week
  mark_skipped         Skip a day
  shift_workout        Perform a workout on another day and shift the schedule
  insert_rest_day      Swap a workout onto a default rest day
  convert_to_rest      Turn a planned workout into a rest day
  start_session        Start or resume a session
  add_exercise         Append an exercise to a session
  swap_exercise        Replace the exercise of a slot
  log_set              Log a set
  finish_session       Finish a session
  update_set           Correct a set of a finished session
  delete_set           Delete a set of a finished session
  save_edited_session  Reconcile records and stats after corrections
  get_session          Session with exercises and sets
  get_stats            Lifetime totals
  list_records         Personal records
  import_program       Import a weekly program

AVAILABLE RESOURCES:

  gymlog://week        This week's schedule and the active session
  gymlog://stats       Lifetime totals
  gymlog://records     Personal records`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(db, scheduler, sessions)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
