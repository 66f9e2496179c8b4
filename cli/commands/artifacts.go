package commands

import (
	"errors"
	"fmt"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"net/http"
	"satchel/cli/api"
	"satchel/cli/globals"
	"satchel/cli/styles"
	"satchel/cli/utils"
	"satchel/shared"
	"sort"
	"strings"
)

// filterFlags are the artifact query flags shared by `artifacts list` and
// `catalogs show`
type filterFlags struct {
	wallets  []string
	networks []string
	media    []string
	status   string
	search   string
	spam     bool
	sort     string
	desc     bool
	page     int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.wallets, "wallet", nil, "only artifacts from these wallet IDs")
	cmd.Flags().StringSliceVar(&f.networks, "network", nil, "only artifacts on these networks")
	cmd.Flags().StringSliceVar(&f.media, "media", nil, "only these media types (image, video, audio, model, html, unknown)")
	cmd.Flags().StringVar(&f.status, "status", "", "metadata status (pending, ok, failed)")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "search names, descriptions and collections")
	cmd.Flags().BoolVar(&f.spam, "spam", false, "include artifacts marked as spam")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort by name, collection, created, modified or tokenId")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page of results to show")
}

func (f *filterFlags) filter(pageSize int) api.ArtifactFilter {
	page := max(f.page, 1)
	return api.ArtifactFilter{
		WalletIDs:   f.wallets,
		Networks:    f.networks,
		MediaTypes:  f.media,
		Status:      f.status,
		Search:      f.search,
		IncludeSpam: f.spam,
		Sort:        f.sort,
		Desc:        f.desc,
		Offset:      (page - 1) * pageSize,
		Limit:       pageSize,
	}
}

// NewArtifactsCommand groups the artifact subcommands
func NewArtifactsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "artifacts",
		Aliases:     []string{"artifact", "a"},
		Short:       "Browse and manage the artifacts in your library",
		Annotations: sessionOnly,
	}

	cmd.AddCommand(newArtifactsListCommand(opts))
	cmd.AddCommand(newArtifactsShowCommand(opts))
	cmd.AddCommand(newArtifactsSpamCommand(opts))
	cmd.AddCommand(newArtifactsRemoveCommand(opts))
	cmd.AddCommand(newArtifactsRefreshCommand(opts))
	cmd.AddCommand(newArtifactsMirrorCommand(opts))
	cmd.AddCommand(newArtifactsURLCommand())
	return cmd
}

func newArtifactsListCommand(opts *RootOptions) *cobra.Command {
	flags := &filterFlags{}
	var catalogID string
	var folderID string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List artifacts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := flags.filter(globals.Config.PageSize)
			filter.CatalogID = catalogID
			filter.FolderID = folderID

			resp, err := globals.API.GetArtifacts(filter)
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, resp)
			}

			if len(resp.Artifacts) > 0 {
				output(cmd, styles.Table(artifactHeaders, artifactRows(resp.Artifacts)))
			}

			output(cmd, pageFooter(filter.Offset, len(resp.Artifacts), resp.Total))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&catalogID, "catalog", "", "only artifacts in this catalog")
	cmd.Flags().StringVar(&folderID, "folder", "", "only artifacts in this folder's catalogs")
	return cmd
}

func newArtifactsShowCommand(opts *RootOptions) *cobra.Command {
	var noImage bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <artifact-id>",
		Short: "Show an artifact's details and a preview of its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := globals.API.GetArtifact(args[0])
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, artifact)
			}

			if !noImage && artifact.MediaType == shared.MediaImage {
				preview, err := imagePreview(artifact.ID, width)
				if err != nil {
					output(cmd, styles.HelpStyle.Render(fmt.Sprintf("(no preview: %v)", err)))
				} else {
					output(cmd, preview)
				}
			}

			output(cmd, describeArtifact(artifact))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noImage, "no-image", false, "skip the image preview")
	cmd.Flags().IntVar(&width, "width", 60, "preview width in columns")
	return cmd
}

func imagePreview(artifactID string, width int) (string, error) {
	data, contentType, err := globals.API.GetImage(artifactID, maxPreviewBytes)
	if err != nil {
		return "", err
	} else if len(contentType) > 0 && !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type %s", contentType)
	}

	return renderImage(data, max(width, 8))
}

func describeArtifact(artifact shared.Artifact) string {
	var sb strings.Builder
	line := func(label, value string) {
		if len(value) > 0 {
			sb.WriteString(fmt.Sprintf("%s %s\n", styles.BoldStyle.Render(label+":"), value))
		}
	}

	name := artifact.Name
	if len(name) == 0 {
		name = "#" + artifact.TokenID
	}

	sb.WriteString(styles.TitleStyle.Render(name) + "\n")
	line("ID", artifact.ID)
	line("Collection", artifact.CollectionName)
	line("Network", string(artifact.Network))
	line("Contract", artifact.ContractAddress)
	line("Token", artifact.TokenID)
	line("Media", string(artifact.MediaType))
	line("Image", artifact.ImageURL)
	line("Animation", artifact.AnimationURL)
	line("External", artifact.ExternalURL)
	line("Metadata", string(artifact.MetadataStatus))
	line("Metadata error", artifact.MetadataError)
	if artifact.IsSpam {
		line("Spam", "yes")
	}
	if artifact.Mirrored {
		line("Mirrored", "yes")
	}

	if len(artifact.Description) > 0 {
		sb.WriteString("\n" + artifact.Description + "\n")
	}

	if len(artifact.Attributes) > 0 {
		var rows [][]string
		for _, attr := range artifact.Attributes {
			rows = append(rows, []string{attr.TraitType, attr.Value})
		}

		sb.WriteString("\n" + styles.Table([]string{"TRAIT", "VALUE"}, rows) + "\n")
	}

	return sb.String()
}

func newArtifactsSpamCommand(opts *RootOptions) *cobra.Command {
	var unmark bool

	cmd := &cobra.Command{
		Use:   "spam <artifact-id>...",
		Short: "Mark artifacts as spam (or not, with --unmark)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := globals.API.SetSpam(utils.SplitIDs(args), !unmark)
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, shared.SpamResponse{Changed: changed})
			}

			if unmark {
				success(cmd, "Unmarked %d artifact(s)", changed)
			} else {
				success(cmd, "Marked %d artifact(s) as spam", changed)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&unmark, "unmark", false, "restore artifacts previously marked as spam")
	return cmd
}

func newArtifactsRemoveCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <artifact-id>...",
		Aliases: []string{"remove"},
		Short:   "Remove artifacts from your library",
		Long: `Remove artifacts from your library and every catalog holding them.
Artifacts still held by a wallet return on its next sync.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := utils.SplitIDs(args)
			ok, err := confirm(
				fmt.Sprintf("Remove %d artifact(s)?", len(ids)),
				"They will also be removed from every catalog.",
				yes || opts.JSON)
			if err != nil || !ok {
				return err
			}

			removed, err := globals.API.DeleteArtifacts(ids)
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, shared.DeleteResponse{Removed: removed})
			}

			success(cmd, "Removed %d artifact(s)", removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newArtifactsRefreshCommand(opts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "refresh [artifact-id]...",
		Short: "Re-fetch metadata for artifacts",
		Long: `Re-fetch and normalize metadata for the given artifacts. With no
arguments, artifacts whose metadata is still pending are refreshed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp shared.RefreshResponse
			var err error

			refresh := func() {
				resp, err = globals.API.RefreshMetadata(utils.SplitIDs(args), force)
			}

			if opts.JSON {
				refresh()
			} else if spinErr := spinner.New().Title("Refreshing metadata...").Action(refresh).Run(); spinErr != nil {
				return spinErr
			}

			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, resp)
			}

			success(cmd, "Refreshed %d artifact(s), %d skipped",
				len(resp.Succeeded),
				len(resp.Skipped))

			if len(resp.Failed) > 0 {
				ids := make([]string, 0, len(resp.Failed))
				for id := range resp.Failed {
					ids = append(ids, id)
				}
				sort.Strings(ids)

				var rows [][]string
				for _, id := range ids {
					rows = append(rows, []string{id, utils.Truncate(resp.Failed[id], 80)})
				}

				styles.PrintErrStr(fmt.Sprintf("%d artifact(s) failed:", len(resp.Failed)))
				output(cmd, styles.Table([]string{"ID", "ERROR"}, rows))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "refresh artifacts even if their metadata is up to date")
	return cmd
}

func newArtifactsMirrorCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mirror <artifact-id>",
		Short: "Store a copy of an artifact's image on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := globals.API.MirrorImage(args[0])
			if utils.IsStatus(err, http.StatusNotImplemented) {
				return errors.New("image mirroring is disabled on this server")
			} else if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, artifact)
			}

			success(cmd, "Mirrored image for %s", artifact.ID)
			return nil
		},
	}
}

func newArtifactsURLCommand() *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "url <artifact-id>",
		Short: "Print the gateway URL for an artifact's image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := globals.API.GetArtifact(args[0])
			if err != nil {
				return err
			}

			url := artifact.ImageURL
			if len(url) == 0 {
				url = artifact.AnimationURL
			}

			if len(url) == 0 {
				return errors.New("artifact has no resolved media URL")
			}

			output(cmd, url)
			if copyURL {
				if err = clipboard.WriteAll(url); err != nil {
					return fmt.Errorf("unable to copy to clipboard: %w", err)
				}

				success(cmd, "Copied to clipboard")
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyURL, "copy", "c", false, "copy the URL to the clipboard")
	return cmd
}
