package main

import (
	"flag"
	"log"

	"jira-gantt/config"
	"jira-gantt/web"
)

func main() {
	// Parse command line flags
	var port, configFile string
	flag.StringVar(&port, "port", "8080", "Port to run the server on")
	flag.StringVar(&configFile, "config", "config.json", "Config file; environment variables are used when it does not exist")
	flag.Parse()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("❌ Could not load %s: %v", configFile, err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration Error! %v. Set JIRA_* environment variables or create %s", err, configFile)
	}

	// Create and start the server
	server := web.NewServer(cfg)
	if err := server.Start(port); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
