package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sandeepkv93/goaltrack/internal/carryover"
	"github.com/sandeepkv93/goaltrack/internal/commands"
	"github.com/sandeepkv93/goaltrack/internal/evaluation"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"github.com/sandeepkv93/goaltrack/internal/views"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down|status",
	Short:     "Apply, roll back or inspect database migrations",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := storage.OpenDB(cfg.Database.Path, cfg.Database.BusyTimeout)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		switch args[0] {
		case "up":
			err = storage.MigrateUp(ctx, db)
		case "down":
			err = storage.MigrateDown(ctx, db)
		case "status":
		default:
			return fmt.Errorf("unknown migrate action %q", args[0])
		}
		if err != nil {
			return err
		}
		version, err := storage.SchemaVersion(ctx, db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
		return nil
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval [segment-id]",
	Short: "Compute and store evaluations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) == 1) {
			return fmt.Errorf("give a segment id or --all")
		}
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		date, err := dateFlag(cmd, a)
		if err != nil {
			return err
		}
		ctx, cancel := a.Bound(cmd.Context())
		defer cancel()

		var snaps []evaluation.Snapshot
		if all {
			snaps, err = a.Evaluation.ComputeAll(ctx, date)
		} else {
			var id int64
			if id, err = parseID(args[0]); err != nil {
				return err
			}
			var snap evaluation.Snapshot
			snap, err = a.Evaluation.ComputeEvaluation(ctx, id, date)
			snaps = append(snaps, snap)
		}
		if err != nil {
			return err
		}
		for _, s := range snaps {
			fmt.Fprintf(cmd.OutOrStdout(),
				"segment %d %s milestones=%.2f daily=%.2f weekly=%.2f volume=%d validity=%.2f overdue=%d\n",
				s.SegmentID, s.Date, s.MilestoneRate(), s.DailyRate(), s.WeeklyRate(),
				s.ActivityVolume, s.TaskValidity(), s.OverdueTasks)
		}
		return nil
	},
}

var carryoverCmd = &cobra.Command{
	Use:   "carryover",
	Short: "List or carry over unfinished todos",
}

var carryoverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List carryover candidates for a day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		date, err := dateFlag(cmd, a)
		if err != nil {
			return err
		}
		candidates, err := a.FindCarryover(cmd.Context(), date)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no carryover candidates")
			return nil
		}
		for _, c := range candidates {
			fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\t%s\t%s\t%s\n", c.ID, c.SegmentName, c.Date, c.Kind, c.Title)
		}
		return nil
	},
}

var carryoverApplyCmd = &cobra.Command{
	Use:   "apply [todo-id...]",
	Short: "Carry the given candidates, or all of them, to a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) > 0) {
			return fmt.Errorf("give todo ids or --all")
		}
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		date, err := dateFlag(cmd, a)
		if err != nil {
			return err
		}
		candidates, err := a.FindCarryover(cmd.Context(), date)
		if err != nil {
			return err
		}
		refs, err := pickCandidates(candidates, args, all)
		if err != nil {
			return err
		}
		res, err := a.RecordCarryover(cmd.Context(), refs, date)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Summary(date))
		return nil
	},
}

// pickCandidates returns refs for the candidates named by ids, or for all
// of them. An id that is not a candidate is an error.
func pickCandidates(candidates []carryover.Candidate, ids []string, all bool) ([]carryover.CandidateRef, error) {
	byID := make(map[int64]carryover.Candidate, len(candidates))
	refs := make([]carryover.CandidateRef, 0, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
		if all {
			refs = append(refs, c.Ref())
		}
	}
	if all {
		return refs, nil
	}
	for _, raw := range ids {
		id, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("todo #%d is not a carryover candidate", id)
		}
		refs = append(refs, c.Ref())
	}
	return refs, nil
}

var reportCmd = &cobra.Command{
	Use:   "report <segment-id>",
	Short: "Evaluate a segment and render the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		date, err := dateFlag(cmd, a)
		if err != nil {
			return err
		}
		md, err := a.Report(cmd.Context(), id, date)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), views.RenderMarkdown(md, a.Config.UI.MarkdownStyle))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the purpose and every segment's todos, milestones, evaluations and discussions as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		out, _ := cmd.Flags().GetString("out")
		w := cmd.OutOrStdout()
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		sum, err := a.Export(cmd.Context(), w)
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d segment(s), %d todo(s), %d milestone(s), %d evaluation(s), %d discussion(s) to %s\n",
				sum.Segments, sum.Todos, sum.Milestones, sum.Evaluations, sum.Discussions, out)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [segment-id]",
	Short: "Clear a segment's data, or every segment's with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) == 1) {
			return fmt.Errorf("give a segment id or --all")
		}
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		ctx, cancel := a.Bound(cmd.Context())
		defer cancel()

		if all {
			if err := a.Tracker.ResetAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all segments reset")
			return nil
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.Tracker.ResetSegment(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "segment %d reset\n", id)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <command...>",
	Short: "Execute one command-language line, e.g. run add 1 stretch",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		res, err := commands.Run(cmd.Context(), strings.Join(args, " "), a.Handlers(a.Today()))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	},
}

var purposeCmd = &cobra.Command{
	Use:   "purpose",
	Short: "Show the overall purpose, or change it with --title, --description or --goal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		ctx, cancel := a.Bound(cmd.Context())
		defer cancel()

		p, err := a.Tracker.GetPurpose(ctx)
		if err != nil {
			return err
		}
		changed := false
		for name, field := range map[string]*string{"title": &p.Title, "description": &p.Description, "goal": &p.Goal} {
			if cmd.Flags().Changed(name) {
				*field, _ = cmd.Flags().GetString(name)
				changed = true
			}
		}
		if changed {
			if p, err = a.Tracker.SavePurpose(ctx, p); err != nil {
				return err
			}
		}
		if p.IsZero() {
			fmt.Fprintln(cmd.OutOrStdout(), "no purpose set")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", p.Title)
		if p.Description != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", p.Description)
		}
		if p.Goal != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "goal: %s\n", p.Goal)
		}
		return nil
	},
}

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage the bucket list",
}

var bucketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bucket items in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		ctx, cancel := a.Bound(cmd.Context())
		defer cancel()

		items, err := a.Tracker.ListBucketItems(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "bucket list is empty")
			return nil
		}
		for _, item := range items {
			mark := " "
			if item.Completed {
				mark = "x"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] #%d %s\n", mark, item.ID, item.Title)
		}
		return nil
	},
}

var bucketAddCmd = &cobra.Command{
	Use:   "add <title...>",
	Short: "Append an item to the bucket list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		ctx, cancel := a.Bound(cmd.Context())
		defer cancel()

		desc, _ := cmd.Flags().GetString("description")
		item, err := a.Tracker.AddBucketItem(ctx, model.BucketListItem{Title: strings.Join(args, " "), Description: desc})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bucket item #%d: %s\n", item.ID, item.Title)
		return nil
	},
}

var bucketToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a bucket item between done and open",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		ctx, cancel := a.Bound(cmd.Context())
		defer cancel()

		item, err := a.Tracker.ToggleBucketItem(ctx, id)
		if err != nil {
			return err
		}
		state := "open"
		if item.Completed {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bucket item #%d is %s\n", item.ID, state)
		return nil
	},
}

var bucketRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a bucket item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		ctx, cancel := a.Bound(cmd.Context())
		defer cancel()

		if err := a.Tracker.DeleteBucketItem(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted bucket item #%d\n", id)
		return nil
	},
}

var bucketReorderCmd = &cobra.Command{
	Use:   "reorder <id...>",
	Short: "Move the given items to the top in this order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, raw := range args {
			id, err := parseID(raw)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		ctx, cancel := a.Bound(cmd.Context())
		defer cancel()

		if err := a.Tracker.ReorderBucketItems(ctx, ids); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reordered %d bucket item(s)\n", len(ids))
		return nil
	},
}

func init() {
	evalCmd.Flags().String("date", "", "evaluation date YYYY-MM-DD (default today)")
	evalCmd.Flags().Bool("all", false, "evaluate every segment")

	carryoverListCmd.Flags().String("date", "", "day to carry to, YYYY-MM-DD (default today)")
	carryoverApplyCmd.Flags().String("date", "", "day to carry to, YYYY-MM-DD (default today)")
	carryoverApplyCmd.Flags().Bool("all", false, "carry every candidate")
	carryoverCmd.AddCommand(carryoverListCmd, carryoverApplyCmd)

	reportCmd.Flags().String("date", "", "evaluation date YYYY-MM-DD (default today)")
	exportCmd.Flags().String("out", "", "write to this file instead of stdout")
	resetCmd.Flags().Bool("all", false, "reset every segment")
	runCmd.Flags().SetInterspersed(false)

	purposeCmd.Flags().String("title", "", "purpose title")
	purposeCmd.Flags().String("description", "", "longer description")
	purposeCmd.Flags().String("goal", "", "the goal the purpose points at")
	bucketAddCmd.Flags().String("description", "", "optional description")
	bucketCmd.AddCommand(bucketListCmd, bucketAddCmd, bucketToggleCmd, bucketRemoveCmd, bucketReorderCmd)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
