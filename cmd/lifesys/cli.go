package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/lifesys/internal/ai"
	"github.com/sandeepkv93/lifesys/internal/board"
	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/state"
	"github.com/sandeepkv93/lifesys/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// withApp opens the app for one headless command and closes it afterwards.
func withApp(cmd *cobra.Command, configPath *string, fn func(a *app) error) error {
	a, err := openApp(cmd.Context(), *configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func (a *app) dispatch(cmd *cobra.Command, c state.Command) (bool, error) {
	return a.state.Dispatch(cmd.Context(), c)
}

// domainFlag falls back to the active domain when raw is empty.
func domainFlag(a *app, raw string) (model.Domain, error) {
	if strings.TrimSpace(raw) == "" {
		return a.state.State().ActiveDomain, nil
	}
	return model.ParseDomain(raw)
}

// taskByNumber resolves the 1-based number printed by `task list`.
func taskByNumber(s model.AppState, d model.Domain, raw string) (model.Task, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(raw, "#"))
	if err != nil || n < 1 {
		return model.Task{}, fmt.Errorf("task number must be a positive integer: %s", raw)
	}
	tasks := board.Flatten(board.Partition(s.Tasks(d)))
	if n > len(tasks) {
		return model.Task{}, fmt.Errorf("no task #%d in %s", n, d.NavLabel())
	}
	return tasks[n-1], nil
}

func printBoard(w io.Writer, s model.AppState, d model.Domain) {
	fmt.Fprintf(w, "%s\n", d.Title())
	index := 1
	for _, col := range board.Partition(s.Tasks(d)) {
		fmt.Fprintf(w, "%s (%d open)\n", col.Priority.Label(), col.Open())
		if len(col.Tasks) == 0 {
			fmt.Fprintln(w, "  Sector Clear")
		}
		for _, t := range col.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(w, "  %d. [%s] %s\n", index, mark, t.Text)
			index++
		}
	}
}

func taskCmd(configPath *string) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks in a domain",
	}
	cmd.PersistentFlags().StringVarP(&domain, "domain", "d", "", "domain (WORK, HEALTH, SKILLS, JOY); default is the active one")

	var priority string
	add := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				d, err := domainFlag(a, domain)
				if err != nil {
					return err
				}
				p, err := model.ParsePriority(priority)
				if err != nil {
					return err
				}
				text := strings.TrimSpace(strings.Join(args, " "))
				changed, err := a.dispatch(cmd, state.AddTask{Domain: d, Text: text, Priority: p})
				if err != nil {
					return err
				}
				if !changed {
					return fmt.Errorf("task text is empty")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added to %s: %s [%s]\n", d.NavLabel(), text, p)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMust), "MUST, SHOULD, COULD or WOULD")

	list := &cobra.Command{
		Use:   "list",
		Short: "List a domain's board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				d, err := domainFlag(a, domain)
				if err != nil {
					return err
				}
				printBoard(cmd.OutOrStdout(), a.state.State(), d)
				return nil
			})
		},
	}

	toggle := &cobra.Command{
		Use:     "toggle [number]",
		Aliases: []string{"done"},
		Short:   "Toggle a task's completion",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				d, err := domainFlag(a, domain)
				if err != nil {
					return err
				}
				t, err := taskByNumber(a.state.State(), d, args[0])
				if err != nil {
					return err
				}
				if _, err := a.dispatch(cmd, state.ToggleTask{Domain: d, TaskID: t.ID}); err != nil {
					return err
				}
				status := "done"
				if t.Completed {
					status = "open"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status, t.Text)
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:     "rm [number]",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				d, err := domainFlag(a, domain)
				if err != nil {
					return err
				}
				t, err := taskByNumber(a.state.State(), d, args[0])
				if err != nil {
					return err
				}
				if _, err := a.dispatch(cmd, state.DeleteTask{Domain: d, TaskID: t.ID}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", t.Text)
				return nil
			})
		},
	}

	cmd.AddCommand(add, list, toggle, rm)
	return cmd
}

func suggestCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [domain] [goal]",
		Short: "Ask the AI for one task per priority toward a goal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDomain(args[0])
			if err != nil {
				return err
			}
			goal := strings.Join(args[1:], " ")
			return withApp(cmd, configPath, func(a *app) error {
				res := a.ai.SuggestTasks(cmd.Context(), d.Title(), goal)
				switch res.Source {
				case ai.SourceDisabled:
					return fmt.Errorf("ai offline: set API_KEY to enable suggestions")
				case ai.SourceFailed:
					return fmt.Errorf("no suggestions received, see %s", a.cfg.LogPath())
				}
				before := len(a.state.State().Tasks(d))
				if _, err := a.dispatch(cmd, state.MergeSuggestions{Domain: d, Suggestions: res.Items}); err != nil {
					return err
				}
				added := len(a.state.State().Tasks(d)) - before
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added %d task(s) to %s\n", added, d.NavLabel())
				for _, s := range res.Items {
					fmt.Fprintf(out, "  + [%s] %s\n", s.Priority, s.Text)
				}
				return nil
			})
		},
	}
}

func reflectCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reflect",
		Short: "Print a short reflection on today's health record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				r := a.ai.Reflect(cmd.Context(), a.state.State().Health)
				fmt.Fprintln(cmd.OutOrStdout(), r.Text)
				return nil
			})
		},
	}
}

func healthCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show or edit the health record",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the health record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				printHealth(cmd.OutOrStdout(), a.state.State().Health)
				return nil
			})
		},
	}

	var (
		water                    int
		sleep                    float64
		mood, period             string
		breakfast, lunch, dinner string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Update health fields; only the flags given change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("period") {
				if err := model.ValidatePeriodDate(period); err != nil {
					return err
				}
			}
			return withApp(cmd, configPath, func(a *app) error {
				h := a.state.State().Health
				if flags.Changed("water") {
					h.WaterIntake = water
				}
				if flags.Changed("sleep") {
					h.SleepHours = sleep
				}
				if flags.Changed("mood") {
					h.Mood = mood
				}
				if flags.Changed("period") {
					h.LastPeriodDate = period
				}
				if flags.Changed("breakfast") {
					h.Meals.Breakfast = breakfast
				}
				if flags.Changed("lunch") {
					h.Meals.Lunch = lunch
				}
				if flags.Changed("dinner") {
					h.Meals.Dinner = dinner
				}
				if _, err := a.dispatch(cmd, state.ReplaceHealth{Health: h}); err != nil {
					return err
				}
				printHealth(cmd.OutOrStdout(), a.state.State().Health)
				return nil
			})
		},
	}
	set.Flags().IntVar(&water, "water", 0, "glasses of water (0-8)")
	set.Flags().Float64Var(&sleep, "sleep", 0, "hours slept (0-12, half-hour steps)")
	set.Flags().StringVar(&mood, "mood", "", "mood")
	set.Flags().StringVar(&period, "period", "", "cycle start date YYYY-MM-DD, empty clears")
	set.Flags().StringVar(&breakfast, "breakfast", "", "breakfast")
	set.Flags().StringVar(&lunch, "lunch", "", "lunch")
	set.Flags().StringVar(&dinner, "dinner", "", "dinner")

	cmd.AddCommand(show, set)
	return cmd
}

func printHealth(w io.Writer, h model.HealthRecord) {
	fmt.Fprintf(w, "water: %d/%d\n", h.WaterIntake, model.MaxWaterIntake)
	fmt.Fprintf(w, "sleep: %.1fh\n", h.SleepHours)
	fmt.Fprintf(w, "mood: %s\n", h.Mood)
	fmt.Fprintf(w, "cycle start: %s\n", h.LastPeriodDate)
	fmt.Fprintf(w, "meals: %s / %s / %s\n", h.Meals.Breakfast, h.Meals.Lunch, h.Meals.Dinner)
}

func skillCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Show or edit the skill in progress",
	}

	var (
		name     string
		progress int
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Update the skill name or progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				s := a.state.State().Skill
				if cmd.Flags().Changed("name") {
					s.CurrentSkill = name
				}
				if cmd.Flags().Changed("progress") {
					s.Progress = progress
				}
				if _, err := a.dispatch(cmd, state.ReplaceSkill{Skill: s}); err != nil {
					return err
				}
				printSkill(cmd.OutOrStdout(), a)
				return nil
			})
		},
	}
	set.Flags().StringVar(&name, "name", "", "skill name")
	set.Flags().IntVar(&progress, "progress", 0, "progress percent (0-100)")

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Mark skill progress as reviewed now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				if _, err := a.dispatch(cmd, state.SyncSkill{}); err != nil {
					return err
				}
				printSkill(cmd.OutOrStdout(), a)
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the skill record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				printSkill(cmd.OutOrStdout(), a)
				return nil
			})
		},
	}

	cmd.AddCommand(show, set, sync)
	return cmd
}

func printSkill(w io.Writer, a *app) {
	s := a.state.State().Skill
	st := s.Staleness(a.state.Now())
	fmt.Fprintf(w, "skill: %s\n", s.CurrentSkill)
	fmt.Fprintf(w, "progress: %d%%\n", s.Progress)
	if st.NeedsUpdate {
		fmt.Fprintf(w, "SYNC REQUIRED: %d days since last update\n", st.DaysSince)
	} else {
		fmt.Fprintf(w, "next check-in in %d days\n", st.DaysUntilCheckIn())
	}
}

func stateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect, export or reset the stored document",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Summarize the current state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				s := a.state.State()
				out := cmd.OutOrStdout()
				name := s.UserName
				if name == "" {
					name = "(not onboarded)"
				}
				fmt.Fprintf(out, "operator: %s\n", name)
				fmt.Fprintf(out, "active: %s\n", s.ActiveDomain.NavLabel())
				fmt.Fprintf(out, "load: %s\n", a.outcome)
				switch at, err := a.repo.UpdatedAt(cmd.Context()); {
				case err == nil:
					fmt.Fprintf(out, "saved: %s\n", at.Local().Format(time.RFC3339))
				case errors.Is(err, storage.ErrNotFound):
					fmt.Fprintln(out, "saved: never")
				default:
					return err
				}
				for _, d := range model.Domains {
					open := 0
					for _, t := range s.Tasks(d) {
						if !t.Completed {
							open++
						}
					}
					fmt.Fprintf(out, "%-8s %d task(s), %d open\n", d, len(s.Tasks(d)), open)
				}
				return nil
			})
		},
	}

	var format string
	export := &cobra.Command{
		Use:   "export",
		Short: "Print the state document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				body, err := exportState(a.state.State(), format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(body)
				return err
			})
		},
	}
	export.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Discard everything and start from the default state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				if err := a.repo.Reset(cmd.Context()); err != nil {
					return err
				}
				if err := a.state.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "state reset")
				return nil
			})
		},
	}

	cmd.AddCommand(show, export, reset)
	return cmd
}

// exportState renders the persisted document. YAML is converted from the
// JSON form so both share the wire field names.
func exportState(s model.AppState, format string) ([]byte, error) {
	body, err := storage.EncodeState(s)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return append(body, '\n'), nil
	case "yaml", "yml":
		var doc map[string]any
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func nameCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "name [name]",
		Short: "Set the operator name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(a *app) error {
				name := strings.TrimSpace(strings.Join(args, " "))
				if name == "" {
					return fmt.Errorf("name is empty")
				}
				if _, err := a.dispatch(cmd, state.SetUserName{Name: name}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "operator: %s\n", name)
				return nil
			})
		},
	}
}
