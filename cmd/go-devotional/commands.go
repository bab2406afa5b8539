package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-devotional/internal/app"
	"github.com/tartampluch/go-devotional/internal/chrono"
	"github.com/tartampluch/go-devotional/internal/config"
	"github.com/tartampluch/go-devotional/internal/devotion"
	"github.com/tartampluch/go-devotional/internal/engine"
	"github.com/tartampluch/go-devotional/internal/server"
)

// settingsPath resolves --config, then DEVOTIONAL_CONFIG, then the default location.
func (o *options) settingsPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	if v := os.Getenv(config.EnvConfig); v != "" {
		return v, nil
	}
	return config.DefaultSettingsPath()
}

// loadSettings reads, overrides and validates the settings file.
func (o *options) loadSettings() (config.Settings, string, error) {
	path, err := o.settingsPath()
	if err != nil {
		return config.Settings{}, "", err
	}

	s, err := config.LoadSettings(path)
	if err != nil {
		return s, path, err
	}
	s.ApplyEnv()
	return s, path, s.Validate()
}

// clock returns the wall clock, or a clock pinned to --date.
func (o *options) clock() (engine.Clock, error) {
	if o.date == "" {
		return engine.RealClock{}, nil
	}
	day, err := devotion.ParseDay(o.date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDateFlag, err)
	}
	return engine.FixedClock{T: day}, nil
}

// companion builds a one-shot companion without a feed server.
func (o *options) companion(s config.Settings, path string, fetcher engine.VCardFetcher) (*app.Companion, error) {
	clk, err := o.clock()
	if err != nil {
		return nil, err
	}
	c := app.New(s, path, nil, fetcher)
	c.Clock = clk
	return c, nil
}

func newHeaderCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdHeader,
		Short: config.ShortHeader,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := opts.loadSettings()
			if err != nil {
				return err
			}

			scheme := s.Scheme()
			if opts.scheme != "" {
				if scheme, err = chrono.ParseWeekScheme(opts.scheme); err != nil {
					return err
				}
			}

			clk, err := opts.clock()
			if err != nil {
				return err
			}

			view := app.BuildHeaderView(clk.Now(), scheme)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), view.Header)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.date, config.FlagDate, "", config.FlagDescDate)
	cmd.Flags().StringVar(&opts.scheme, config.FlagScheme, "", config.FlagDescScheme)
	return cmd
}

func newWeekCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdWeek,
		Short: config.ShortWeek,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, path, err := opts.loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(config.FlagOffset) {
				s.WeekOffset = opts.offset
			}

			c, err := opts.companion(s, path, nil)
			if err != nil {
				return err
			}
			return printWeek(cmd.OutOrStdout(), c.Week())
		},
	}
	cmd.Flags().StringVar(&opts.date, config.FlagDate, "", config.FlagDescDate)
	cmd.Flags().IntVar(&opts.offset, config.FlagOffset, 0, config.FlagDescOffset)
	return cmd
}

func newPeopleCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdPeople,
		Short: config.ShortPeople,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, path, err := opts.loadSettings()
			if err != nil {
				return err
			}

			c, err := opts.companion(s, path, engine.NewHTTPFetcher())
			if err != nil {
				return err
			}

			people, err := c.People(cmd.Context())
			if err != nil {
				return err
			}
			return printPeople(cmd.OutOrStdout(), people)
		},
	}
	cmd.Flags().StringVar(&opts.date, config.FlagDate, "", config.FlagDescDate)
	return cmd
}

func newDoneCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.UseDone,
		Short: config.ShortDone,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := devotion.ParseDay(args[0], time.Local)
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrCompletedDay, err)
			}

			s, path, err := opts.loadSettings()
			if err != nil {
				return err
			}

			c, err := opts.companion(s, path, nil)
			if err != nil {
				return err
			}
			if err := c.MarkDay(day, opts.undo); err != nil {
				return err
			}
			return printWeek(cmd.OutOrStdout(), c.Week())
		},
	}
	cmd.Flags().BoolVar(&opts.undo, config.FlagUndo, false, config.FlagDescUndo)
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdServe,
		Short: config.ShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, path, err := opts.loadSettings()
			if err != nil {
				return err
			}

			srv := server.NewFeedServer(s.Server.Port)
			c := app.New(s, path, srv, engine.NewHTTPFetcher())

			ctx := cmd.Context()
			stop := context.AfterFunc(ctx, func() {
				slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
			})
			defer stop()

			if err := c.Run(ctx); err != nil {
				return err
			}
			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
}

func printWeek(w io.Writer, week devotion.Week) error {
	var b strings.Builder

	fmt.Fprintf(&b, config.OutWeekTitle, week.Label,
		chrono.FormatDowMonDay(week.Range.Start),
		chrono.FormatDowMonDay(week.Range.End))

	for _, d := range week.Days {
		mark, today := config.OutMarkOpen, ""
		if d.Completed {
			mark = config.OutMarkDone
		}
		if d.Today {
			today = config.OutWeekToday
		}
		fmt.Fprintf(&b, config.OutWeekDay, mark, d.Label, today)
	}

	if week.Reading == nil {
		fmt.Fprintf(&b, config.OutWeekNoPlan, week.Number, week.Plan)
	} else {
		fmt.Fprintf(&b, config.OutWeekPlan, week.Plan)
		for _, line := range week.Reading.Plan {
			fmt.Fprintf(&b, config.OutWeekReading, line)
		}
		if len(week.Reading.MemoryVerses) > 0 {
			b.WriteString(config.OutWeekVerses)
			for _, line := range week.Reading.MemoryVerses {
				fmt.Fprintf(&b, config.OutWeekReading, line)
			}
		}
	}
	fmt.Fprintf(&b, config.OutWeekDone, week.CompletedCount)

	_, err := io.WriteString(w, b.String())
	return err
}

func printPeople(w io.Writer, people []engine.Anniversary) error {
	if len(people) == 0 {
		_, err := fmt.Fprintln(w, config.OutPeopleNone)
		return err
	}

	var b strings.Builder
	for _, p := range people {
		age := config.OutPeopleNoAge
		if p.YearKnown {
			age = fmt.Sprintf(config.OutPeopleAge, p.AgeNext, p.AgeYears)
		}
		if p.BirthdayToday {
			age += config.OutPeopleToday
		}
		fmt.Fprintf(&b, config.OutPeopleRow, p.Name,
			p.NextBirthday.Format(config.DateFormatFullDash),
			p.DaysUntilBirthday,
			p.NextHalfBirthday.Format(config.DateFormatFullDash),
			age)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
