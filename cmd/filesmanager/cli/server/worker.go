package server

import (
	"context"
	"fmt"

	"github.com/Abdorithm/alx-files-manager/internal/agent"
	"github.com/spf13/cobra"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
)

func NewWorkerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start the thumbnail worker",
		Long: `Start the thumbnail worker.

The worker consumes image jobs queued by the agent and writes resized
variants next to the original content.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			return agent.RunWorker(context.Background(), cfg)
		},
	}

	return cmd
}
