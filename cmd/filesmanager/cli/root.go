package cli

import (
	"fmt"

	"github.com/Abdorithm/alx-files-manager/cmd/filesmanager/cli/client"
	"github.com/Abdorithm/alx-files-manager/cmd/filesmanager/cli/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	groupServer = "server"
	groupClient = "client"
)

// NewRootCommand builds the filesmanager command tree. Server commands run
// the agent, the thumbnail worker and their maintenance tasks; client
// commands talk to a running agent over HTTP.
func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:           "filesmanager",
		Short:         "Files manager API and worker",
		Long:          "A files manager that stores folders, files and images per user, serves their content with owner or public visibility, and renders image thumbnails in the background.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(path)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&path, "config", "", "config file (default is ./config.yaml)")
	flags.Bool("no-color", false, "Disables colored command output")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "write log entries as JSON")
	flags.String("folder-path", "", "storage root for uploaded content (same as FOLDER_PATH)")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.no_color", flags.Lookup("no-color"))
	viper.BindPFlag("log.json", flags.Lookup("log-json"))
	viper.BindPFlag("storage.folder_path", flags.Lookup("folder-path"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	cmd.AddGroup(
		&cobra.Group{ID: groupServer, Title: "Server Commands:"},
		&cobra.Group{ID: groupClient, Title: "Client Commands:"},
	)

	cmd.AddCommand(NewVersionCommand(info))
	addGroup(cmd, groupServer,
		server.NewAgentCommand(),
		server.NewWorkerCommand(),
		server.NewConfigCommand(),
		server.NewMigrateCommand(),
	)
	addGroup(cmd, groupClient,
		client.NewFilesCommand(),
		client.NewRegisterCommand(),
		client.NewConnectCommand(),
		client.NewDisconnectCommand(),
	)

	return cmd
}

func addGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}
