package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/Abdorithm/alx-files-manager/pkg/files"
	"github.com/spf13/cobra"

	fmclient "github.com/Abdorithm/alx-files-manager/pkg/client"
)

func NewFilesCommand() *cobra.Command {
	var conn connection

	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage stored files and folders",
		Long:  "Upload, list, publish and download files and folders owned by the connected user.",
	}

	conn.bind(cmd)

	cmd.AddCommand(newFilesListCommand(&conn))
	cmd.AddCommand(newFilesShowCommand(&conn))
	cmd.AddCommand(newFilesUploadCommand(&conn))
	cmd.AddCommand(newFilesMkdirCommand(&conn))
	cmd.AddCommand(newFilesPublishCommand(&conn, true))
	cmd.AddCommand(newFilesPublishCommand(&conn, false))
	cmd.AddCommand(newFilesGetCommand(&conn))

	return cmd
}

func newFilesListCommand(conn *connection) *cobra.Command {
	var parent string
	var page int

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List records under a folder",
		Long:  "List one page of records under the given parent folder. The root folder is used when --parent is empty.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conn.open()
			if err != nil {
				return err
			}

			records, err := c.List(cmd.Context(), parent, page)
			if err != nil {
				return err
			}

			return printProjections(cmd.OutOrStdout(), records...)
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "parent folder id")
	cmd.Flags().IntVar(&page, "page", 0, "page number, 0 for the first page")

	return cmd
}

func newFilesShowCommand(conn *connection) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conn.open()
			if err != nil {
				return err
			}

			p, err := c.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printProjections(cmd.OutOrStdout(), p)
		},
	}

	return cmd
}

func newFilesUploadCommand(conn *connection) *cobra.Command {
	var name, kind, parent string
	var public bool

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a local file",
		Long: `Upload a local file as a file or image record.

Images are queued for thumbnail generation once stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := files.ParseKind(kind)
			if !ok || k == files.KindFolder {
				return fmt.Errorf("invalid type %q, expected file or image", kind)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			if name == "" {
				name = filepath.Base(args[0])
			}

			c, err := conn.open()
			if err != nil {
				return err
			}

			p, err := c.Upload(cmd.Context(), fmclient.NewUpload(name, k, parent, public, data))
			if err != nil {
				return err
			}

			return printProjections(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "record name, defaults to the file name")
	cmd.Flags().StringVar(&kind, "type", string(files.KindFile), "record type: file or image")
	cmd.Flags().StringVar(&parent, "parent", "", "parent folder id")
	cmd.Flags().BoolVar(&public, "public", false, "make the record public")

	return cmd
}

func newFilesMkdirCommand(conn *connection) *cobra.Command {
	var parent string
	var public bool

	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conn.open()
			if err != nil {
				return err
			}

			p, err := c.Upload(cmd.Context(), fmclient.NewUpload(args[0], files.KindFolder, parent, public, nil))
			if err != nil {
				return err
			}

			return printProjections(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "parent folder id")
	cmd.Flags().BoolVar(&public, "public", false, "make the folder public")

	return cmd
}

func newFilesPublishCommand(conn *connection, public bool) *cobra.Command {
	use, short := "publish <id>", "Make a record public"
	if !public {
		use, short = "unpublish <id>", "Make a record private"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conn.open()
			if err != nil {
				return err
			}

			p, err := c.SetPublic(cmd.Context(), args[0], public)
			if err != nil {
				return err
			}

			return printProjections(cmd.OutOrStdout(), p)
		},
	}

	return cmd
}

func newFilesGetCommand(conn *connection) *cobra.Command {
	var size, output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Download record content",
		Long:  "Download the content of a file or image. Use --size to fetch a thumbnail variant of an image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conn.open()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			contentType, err := c.Content(cmd.Context(), args[0], size, w)
			if err != nil {
				if output != "" && output != "-" {
					os.Remove(output)
				}
				return err
			}

			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s (%s)\n", output, contentType)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&size, "size", "", "thumbnail width (500, 250 or 100)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")

	return cmd
}

func printProjections(out io.Writer, records ...files.Projection) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tPARENT\tPUBLIC")
	for _, p := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%t\n", p.ID, p.Name, p.Kind, p.ParentID, p.IsPublic)
	}
	return tw.Flush()
}
