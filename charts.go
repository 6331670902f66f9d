package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jira-gantt/chart"
	"jira-gantt/config"
	"jira-gantt/metrics"
	"jira-gantt/report"
)

func versionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions [project-key]",
		Short: "Chart the versions of a project",
		Long: `Write <KEY>_dy.svg and <KEY>_wk.svg showing every version that has both a
start and a release date. The key defaults to jira_project from the config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			key, err := projectKey(cfg, args)
			if err != nil {
				return err
			}
			conn, err := connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := conn.SetProject(cmd.Context(), key); err != nil {
				return err
			}

			g := chart.NewVersionChart(*conn.Project)
			return writeChart(cmd, cfg, g, "versions")
		},
	}
}

func epicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "epics [project-key]",
		Short: "Chart the epics of a project",
		Long: `Write <KEY>_dy.svg and <KEY>_wk.svg showing every epic that has both a
start and an end date. Which issue fields hold those dates is set by
epic_start_field and epic_end_field.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			key, err := projectKey(cfg, args)
			if err != nil {
				return err
			}
			conn, err := connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := conn.SetProject(cmd.Context(), key); err != nil {
				return err
			}
			epics, err := conn.EpicList(cmd.Context(), "")
			if err != nil {
				return err
			}

			g := chart.NewEpicChart(*conn.Project, epics)
			return writeChart(cmd, cfg, g, "epics")
		},
	}
}

func projectKey(cfg config.Config, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.JiraProject == "" {
		return "", errors.New("no project key given and jira_project is not configured")
	}
	return cfg.JiraProject, nil
}

// writeChart renders both scales and, with --report, the timeline exports
func writeChart(cmd *cobra.Command, cfg config.Config, g *chart.Generator, kind string) error {
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}
	g.OutputDir = cfg.OutputDir

	fmt.Fprintf(out, "📊 Charting %d %s of %s (%d skipped without dates)\n",
		len(g.Intervals), kind, g.Key, g.Skipped)

	paths, err := g.GenerateChart()
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(out, "✅ Chart written to: %s\n", path)
	}

	if !withReport {
		return nil
	}

	p, err := g.Build()
	if err != nil {
		return err
	}
	m := metrics.CalculateTimelineMetrics(p, g.Skipped, g.Today())
	report.PrintChartSummary(out, m)

	jsonPath := filepath.Join(cfg.OutputDir, g.Key+"_timeline.json")
	if err := report.ExportToJSON(m, jsonPath); err != nil {
		return fmt.Errorf("error exporting to JSON: %w", err)
	}
	fmt.Fprintf(out, "✅ Timeline exported to: %s\n", jsonPath)

	csvPath := filepath.Join(cfg.OutputDir, g.Key+"_timeline.csv")
	if err := report.ExportTasksToCSV(m, csvPath); err != nil {
		return fmt.Errorf("error exporting to CSV: %w", err)
	}
	fmt.Fprintf(out, "✅ Timeline exported to: %s\n", csvPath)
	return nil
}
