package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/maxviazov/nba-stats-manager/internal/app"
	"github.com/maxviazov/nba-stats-manager/internal/export"
	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/maxviazov/nba-stats-manager/internal/service"
	"github.com/spf13/cobra"
)

func (c *cli) initCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the schema; --reset drops all data first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reset {
				if err := c.app.Stats.Reset(cmd.Context()); err != nil {
					return err
				}
				c.printf("✅ storage reset\n")
				return nil
			}
			c.printf("✅ storage ready (%s)\n", c.app.Config.Storage.Driver)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop and recreate the schema")
	return cmd
}

func (c *cli) refreshCmd() *cobra.Command {
	var file, url, season string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch league stats from a file or URL and upsert them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ic := c.app.Config.Ingest
			if file != "" || url != "" {
				ic.File, ic.SourceURL = file, url
			}
			if season != "" {
				ic.Season = season
			}
			res, err := c.app.Stats.RefreshFrom(cmd.Context(), app.Source(ic, c.app.Fs), ic.Season)
			if err != nil {
				return err
			}
			c.printUpsert(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file with upstream records")
	cmd.Flags().StringVar(&url, "url", "", "stats provider URL")
	cmd.Flags().StringVar(&season, "season", "", "season label, e.g. 2024-25")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	return cmd
}

func (c *cli) topCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Top scorers with more than 10 games played",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, err := c.app.Stats.TopScorers(cmd.Context(), n)
			if err != nil {
				return err
			}
			c.printPlayers(players)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", service.DefaultLimit, "number of players")
	return cmd
}

func (c *cli) teamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "team <name>",
		Short: "Players whose team name contains <name>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := c.app.Stats.TeamStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(players) == 0 {
				c.printf("no players found for team %q\n", args[0])
				return nil
			}
			c.printPlayers(players)
			return nil
		},
	}
}

func (c *cli) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <player> <player>",
		Short: "Compare two players side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := c.app.Stats.ComparePlayers(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !cmp.Found {
				c.printf("player not found: %v\n", cmp.Missing)
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "\t%s\t%s\n", cmp.Left.PlayerName, cmp.Right.PlayerName)
			for _, s := range cmp.Stats {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Label, num(s.Left), num(s.Right))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) efficiencyCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "efficiency",
		Short: "Efficiency leaders (points + rebounds + assists per game)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ranked, err := c.app.Stats.EfficiencyLeaders(cmd.Context(), n)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tPLAYER\tTEAM\tEFF\tPPG")
			for i, r := range ranked {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, r.PlayerName, r.Team(), num(r.Efficiency), num(r.Points))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", service.DefaultLimit, "number of players")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write every record to a CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := c.app.Config.Export.Path
			if len(args) == 1 {
				dest = args[0]
			}
			n, err := c.app.Stats.ExportAll(cmd.Context(), dest)
			if err != nil {
				return err
			}
			c.printf("✅ exported %d records to %s\n", n, dest)
			return nil
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Upsert records from a previous export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := export.ReadFile(c.app.Fs, args[0])
			if err != nil {
				return err
			}
			res, err := c.app.Stats.Import(cmd.Context(), records)
			if err != nil {
				return err
			}
			c.printUpsert(res)
			return nil
		},
	}
}

func (c *cli) importTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-teams <json>",
		Short: "Upsert team standings from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := ingest.ReadTeams(c.app.Fs, args[0])
			if err != nil {
				return err
			}
			res, err := c.app.Stats.UpsertTeams(cmd.Context(), teams)
			if err != nil {
				return err
			}
			c.printUpsert(res)
			return nil
		},
	}
}

func (c *cli) teamsCmd() *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Team standings by win percentage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			teams, err := c.app.Stats.ListTeams(cmd.Context(), season)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TEAM\tW\tL\tPCT\tSEASON")
			for _, t := range teams {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%s\n", t.TeamName, t.Wins, t.Losses, t.WinPct, t.Season)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "only this season")
	return cmd
}

func (c *cli) printPlayers(players []model.PlayerSeasonRecord) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tTEAM\tGP\tPPG\tRPG\tAPG")
	for i, p := range players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n", i+1, p.PlayerName, p.Team(), p.GamesPlayed, num(p.Points), num(p.Rebounds), num(p.Assists))
	}
	_ = tw.Flush()
}

func (c *cli) printUpsert(res model.UpsertResult) {
	c.printf("✅ batch %s: %d applied, %d rejected\n", res.BatchID, res.Applied, res.Errors())
	for _, r := range res.Rejected {
		if r.PlayerID == 0 {
			c.printf("   #%d: %s\n", r.Index, r.Reason)
			continue
		}
		c.printf("   #%d (player %d): %s\n", r.Index, r.PlayerID, r.Reason)
	}
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) }
