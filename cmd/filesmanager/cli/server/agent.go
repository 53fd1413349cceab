package server

import (
	"context"
	"fmt"

	"github.com/Abdorithm/alx-files-manager/internal/agent"
	"github.com/spf13/cobra"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
)

func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Start the files manager API",
		Long:  `Start the files manager HTTP API and serve it until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			return agent.NewAgent(cfg).Serve(context.Background())
		},
	}

	return cmd
}
