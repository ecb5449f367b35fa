package main

import (
	"github.com/spf13/cobra"

	"herald/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a scheduled posting service",
	Long: `Serve runs herald as a long-lived service: posting cycles fire on the
configured cron schedule, and an HTTP endpoint exposes health and
metrics for whatever supervises the process.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime()
		defer rt.close()

		runner, err := rt.newRunner(cmd.Context(), true)
		if err != nil {
			return err
		}

		agent := service.NewAgent(service.AgentConfig{
			Schedule:  rt.cfg.Schedule,
			Topic:     rt.cfg.Topic,
			MaxPerDay: rt.cfg.MaxPostsPerDay,
			Runner:    runner,
			Posts:     rt.newPosts(cmd.Context()),
			Logger:    rt.logger,
		})
		if err := agent.Start(); err != nil {
			return err
		}
		defer agent.Stop()

		health := service.NewHealthChecker("herald")
		health.AddCheck("configuration", service.ConfigurationHealthCheck(map[string]string{
			"LLM_API_KEY": rt.cfg.LLMAPIKey,
		}))
		health.AddCheck("database", service.DatabaseHealthCheck(rt.db))

		router := service.SetupRouter(rt.logger, health)
		return service.Start(service.DefaultServerConfig("herald", rt.cfg.Port), router, rt.logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
