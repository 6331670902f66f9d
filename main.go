package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"jira-gantt/config"
	"jira-gantt/jira"
	"jira-gantt/web"
)

var Version = "dev"

// Flags shared by every command
var (
	configFile string
	outputDir  string
	withReport bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "jira-gantt",
		Short:         "Gantt charts of Jira versions and epics",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.json", "Config file (.json or .yaml); environment variables are used when it does not exist")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for chart files (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&withReport, "report", false, "Also print a timeline summary and export it as JSON and CSV")

	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(versionsCmd())
	rootCmd.AddCommand(epicsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sampleConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and checks it can reach Jira
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("could not load %s: %w", configFile, err)
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("configuration error (%w); create %s (see sample-config) or set JIRA_URL, JIRA_USERNAME and JIRA_TOKEN", err, configFile)
	}
	return cfg, nil
}

// connect opens a Jira session from the configuration
func connect(ctx context.Context, cfg config.Config) (*jira.Connection, error) {
	conn := jira.NewConnection(cfg)
	if err := conn.Connect(ctx, cfg.JiraURL, cfg.JiraUsername, cfg.JiraToken); err != nil {
		return nil, err
	}
	return conn, nil
}

func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the projects visible to the configured account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			conn, err := connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			projects, err := conn.ProjectList(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range projects {
				fmt.Fprintf(out, "%-12s %s\n", p.Key, p.Name)
			}
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return web.NewServer(cfg).Start(port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
	return cmd
}

func sampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample-config [file]",
		Short: "Write a sample configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "config.sample.json"
			if len(args) == 1 {
				filename = args[0]
			}
			if err := config.CreateSampleConfig(filename); err != nil {
				return fmt.Errorf("error creating sample config: %w", err)
			}
			log.Printf("✅ Sample configuration file created: %s", filename)
			fmt.Fprintln(cmd.OutOrStdout(), "Edit this file with your credentials and rename it to config.json")
			return nil
		},
	}
}
