package client

import (
	"fmt"

	"github.com/spf13/cobra"

	clientcfg "github.com/Abdorithm/alx-files-manager/internal/config/client"
	fmclient "github.com/Abdorithm/alx-files-manager/pkg/client"
)

// connection carries the --server and --token overrides shared by every
// client command.
type connection struct {
	server string
	token  string
}

func (c *connection) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&c.server, "server", "", "agent address (overrides client.address)")
	cmd.PersistentFlags().StringVar(&c.token, "token", "", "session token (overrides client.token)")
}

func (c *connection) open() (*fmclient.Client, error) {
	cfg, err := clientcfg.LoadClientConfig()
	if err != nil {
		return nil, err
	}

	address, token := cfg.Address, cfg.Token
	if c.server != "" {
		address = c.server
	}
	if c.token != "" {
		token = c.token
	}

	return fmclient.New(address, token)
}

func NewRegisterCommand() *cobra.Command {
	var conn connection
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conn.open()
			if err != nil {
				return err
			}

			principal, err := c.Register(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d)\n", principal.Email, principal.ID)
			return nil
		},
	}

	conn.bind(cmd)
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func NewConnectCommand() *cobra.Command {
	var conn connection
	var email, password string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Open a session and print its token",
		Long: `Open a session with the agent and print the session token.

Store the token as client.token in the configuration file or pass it
to other commands with --token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conn.open()
			if err != nil {
				return err
			}

			token, err := c.Connect(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	conn.bind(cmd)
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func NewDisconnectCommand() *cobra.Command {
	var conn connection

	cmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Revoke the current session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conn.open()
			if err != nil {
				return err
			}

			if err := c.Disconnect(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Disconnected")
			return nil
		},
	}

	conn.bind(cmd)

	return cmd
}
