package commands

import (
	"errors"
	"github.com/spf13/cobra"
	"satchel/cli/globals"
	"satchel/cli/styles"
	"satchel/cli/utils"
	"satchel/shared"
	"strings"
)

var errNothingToModify = errors.New("nothing to change, pass --name and/or --description")

// NewCatalogsCommand groups the catalog subcommands
func NewCatalogsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "catalogs",
		Aliases:     []string{"catalog", "c"},
		Short:       "Organize artifacts into catalogs",
		Annotations: sessionOnly,
	}

	cmd.AddCommand(newCatalogsListCommand(opts))
	cmd.AddCommand(newCatalogsShowCommand(opts))
	cmd.AddCommand(newCatalogsCreateCommand(opts))
	cmd.AddCommand(newCatalogsEditCommand(opts))
	cmd.AddCommand(newCatalogsRemoveCommand(opts))
	cmd.AddCommand(newCatalogsAddCommand(opts))
	cmd.AddCommand(newCatalogsTakeCommand(opts))
	return cmd
}

func newCatalogsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalogs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogs, err := globals.API.GetCatalogs()
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, catalogs)
			}

			output(cmd, styles.Table(catalogHeaders, catalogRows(catalogs)))
			return nil
		},
	}
}

func newCatalogsShowCommand(opts *RootOptions) *cobra.Command {
	flags := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "show <catalog-id>",
		Short: "Show a catalog and its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := flags.filter(globals.Config.PageSize)
			resp, err := globals.API.GetCatalog(args[0], filter)
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, resp)
			}

			output(cmd, styles.TitleStyle.Render(resp.Catalog.Name)+
				" "+styles.HelpStyle.Render("("+resp.Catalog.Kind+")"))
			if len(resp.Catalog.Description) > 0 {
				output(cmd, resp.Catalog.Description)
			}

			if len(resp.FolderIDs) > 0 {
				outputf(cmd, "%s %s\n",
					styles.BoldStyle.Render("Folders:"),
					strings.Join(resp.FolderIDs, ", "))
			}

			output(cmd)
			if len(resp.Artifacts) > 0 {
				output(cmd, styles.Table(artifactHeaders, artifactRows(resp.Artifacts)))
			}

			output(cmd, pageFooter(filter.Offset, len(resp.Artifacts), resp.Total))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newCatalogsCreateCommand(opts *RootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := globals.API.CreateCatalog(shared.NewCatalog{
				Name:        args[0],
				Description: description,
			})
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, catalog)
			}

			success(cmd, "Created catalog %s (%s)", catalog.Name, catalog.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "catalog description")
	return cmd
}

// modifyFlags registers --name and --description, returning a func that builds
// a ModifyItem from whichever of the two were set
func modifyFlags(cmd *cobra.Command) func() (shared.ModifyItem, error) {
	var name string
	var description string

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")

	return func() (shared.ModifyItem, error) {
		var mod shared.ModifyItem
		if cmd.Flags().Changed("name") {
			mod.Name = &name
		}

		if cmd.Flags().Changed("description") {
			mod.Description = &description
		}

		if mod.Name == nil && mod.Description == nil {
			return mod, errNothingToModify
		}

		return mod, nil
	}
}

func newCatalogsEditCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <catalog-id>",
		Aliases: []string{"rename"},
		Short:   "Rename or re-describe a catalog",
		Args:    cobra.ExactArgs(1),
	}

	getMod := modifyFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		mod, err := getMod()
		if err != nil {
			return err
		}

		catalog, err := globals.API.ModifyCatalog(args[0], mod)
		if err != nil {
			return err
		} else if opts.JSON {
			return printJSON(cmd, catalog)
		}

		success(cmd, "Updated catalog %s", catalog.Name)
		return nil
	}

	return cmd
}

func newCatalogsRemoveCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <catalog-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a catalog (its artifacts stay in your library)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(
				"Delete catalog?",
				"Artifacts in the catalog stay in your library.",
				yes || opts.JSON)
			if err != nil || !ok {
				return err
			}

			if err = globals.API.DeleteCatalog(args[0]); err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, shared.DeleteResponse{Removed: 1})
			}

			success(cmd, "Deleted catalog")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newCatalogsAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <catalog-id> <artifact-id>...",
		Short: "Add artifacts to a catalog",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := globals.API.AddToCatalog(args[0], utils.SplitIDs(args[1:]))
			if err != nil {
				return err
			}

			return printCatalogChange(cmd, opts, catalog)
		},
	}
}

func newCatalogsTakeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <catalog-id> <artifact-id>...",
		Aliases: []string{"take"},
		Short:   "Take artifacts out of a catalog",
		Args:    cobra.MinimumNArgs(2),
		RunE:    func(cmd *cobra.Command, args []string) error {
			catalog, err := globals.API.RemoveFromCatalog(args[0], utils.SplitIDs(args[1:]))
			if err != nil {
				return err
			}

			return printCatalogChange(cmd, opts, catalog)
		},
	}
}

func printCatalogChange(cmd *cobra.Command, opts *RootOptions, catalog shared.Catalog) error {
	if opts.JSON {
		return printJSON(cmd, catalog)
	}

	success(cmd, "%s now holds %d artifact(s)", catalog.Name, len(catalog.ArtifactIDs))
	return nil
}
