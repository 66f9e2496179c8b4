package commands

import (
	"github.com/spf13/cobra"
	"satchel/cli/globals"
	"satchel/cli/styles"
	"satchel/cli/utils"
	"satchel/shared"
	"strconv"
	"time"
)

// NewFoldersCommand groups the folder subcommands
func NewFoldersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "folders",
		Aliases:     []string{"folder", "f"},
		Short:       "Group catalogs into folders",
		Annotations: sessionOnly,
	}

	cmd.AddCommand(newFoldersListCommand(opts))
	cmd.AddCommand(newFoldersShowCommand(opts))
	cmd.AddCommand(newFoldersCreateCommand(opts))
	cmd.AddCommand(newFoldersEditCommand(opts))
	cmd.AddCommand(newFoldersRemoveCommand(opts))
	cmd.AddCommand(newFoldersAddCommand(opts))
	cmd.AddCommand(newFoldersTakeCommand(opts))
	return cmd
}

func newFoldersListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List folders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := globals.API.GetFolders()
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, folders)
			}

			if len(folders) == 0 {
				output(cmd, styles.HelpStyle.Render("No folders yet"))
				return nil
			}

			now := time.Now()
			var rows [][]string
			for _, folder := range folders {
				rows = append(rows, []string{
					folder.ID,
					utils.Truncate(folder.Name, 32),
					strconv.Itoa(len(folder.CatalogIDs)),
					utils.ReadableTime(folder.Modified, now),
				})
			}

			output(cmd, styles.Table([]string{"ID", "NAME", "CATALOGS", "MODIFIED"}, rows))
			return nil
		},
	}
}

func newFoldersShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <folder-id>",
		Short: "Show a folder and its catalogs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := globals.API.GetFolder(args[0])
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, resp)
			}

			output(cmd, styles.TitleStyle.Render(resp.Folder.Name))
			if len(resp.Folder.Description) > 0 {
				output(cmd, resp.Folder.Description)
			}

			output(cmd)
			if len(resp.Catalogs) == 0 {
				output(cmd, styles.HelpStyle.Render("No catalogs in this folder"))
				return nil
			}

			output(cmd, styles.Table(catalogHeaders, catalogRows(resp.Catalogs)))
			return nil
		},
	}
}

func newFoldersCreateCommand(opts *RootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := globals.API.CreateFolder(shared.NewFolder{
				Name:        args[0],
				Description: description,
			})
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, folder)
			}

			success(cmd, "Created folder %s (%s)", folder.Name, folder.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "folder description")
	return cmd
}

func newFoldersEditCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <folder-id>",
		Aliases: []string{"rename"},
		Short:   "Rename or re-describe a folder",
		Args:    cobra.ExactArgs(1),
	}

	getMod := modifyFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		mod, err := getMod()
		if err != nil {
			return err
		}

		folder, err := globals.API.ModifyFolder(args[0], mod)
		if err != nil {
			return err
		} else if opts.JSON {
			return printJSON(cmd, folder)
		}

		success(cmd, "Updated folder %s", folder.Name)
		return nil
	}

	return cmd
}

func newFoldersRemoveCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <folder-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a folder (its catalogs are kept)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(
				"Delete folder?",
				"Catalogs in the folder are kept.",
				yes || opts.JSON)
			if err != nil || !ok {
				return err
			}

			if err = globals.API.DeleteFolder(args[0]); err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, shared.DeleteResponse{Removed: 1})
			}

			success(cmd, "Deleted folder")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newFoldersAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <folder-id> <catalog-id>...",
		Short: "Add catalogs to a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := globals.API.AddToFolder(args[0], utils.SplitIDs(args[1:]))
			if err != nil {
				return err
			}

			return printFolderChange(cmd, opts, folder)
		},
	}
}

func newFoldersTakeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <folder-id> <catalog-id>...",
		Aliases: []string{"take"},
		Short:   "Take catalogs out of a folder",
		Args:    cobra.MinimumNArgs(2),
		RunE:    func(cmd *cobra.Command, args []string) error {
			folder, err := globals.API.RemoveFromFolder(args[0], utils.SplitIDs(args[1:]))
			if err != nil {
				return err
			}

			return printFolderChange(cmd, opts, folder)
		},
	}
}

func printFolderChange(cmd *cobra.Command, opts *RootOptions, folder shared.Folder) error {
	if opts.JSON {
		return printJSON(cmd, folder)
	}

	success(cmd, "%s now holds %d catalog(s)", folder.Name, len(folder.CatalogIDs))
	return nil
}
