package commands

import (
	"encoding/json"
	"fmt"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"satchel/cli/styles"
	"satchel/cli/utils"
	"satchel/shared"
	"strconv"
	"strings"
	"time"
)

var sessionOnly = map[string]string{sessionAnnotation: ""}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func output(cmd *cobra.Command, a ...any) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), a...)
}

func outputf(cmd *cobra.Command, format string, a ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}

func success(cmd *cobra.Command, format string, a ...any) {
	output(cmd, styles.SuccessStyle.Render(fmt.Sprintf(format, a...)))
}

// confirm asks before a destructive action, unless skip is set
func confirm(title, description string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(styles.DestructiveTheme()).Run()
	return confirmed, err
}

func artifactRows(artifacts []shared.Artifact) [][]string {
	var rows [][]string
	for _, artifact := range artifacts {
		name := artifact.Name
		if len(name) == 0 {
			name = "#" + artifact.TokenID
		}

		flags := ""
		if artifact.IsSpam {
			flags += "spam "
		}
		if artifact.Mirrored {
			flags += "mirrored"
		}

		rows = append(rows, []string{
			artifact.ID,
			utils.Truncate(name, 32),
			utils.Truncate(artifact.CollectionName, 24),
			string(artifact.Network),
			string(artifact.MediaType),
			string(artifact.MetadataStatus),
			strings.TrimSpace(flags),
		})
	}

	return rows
}

var artifactHeaders = []string{"ID", "NAME", "COLLECTION", "NETWORK", "MEDIA", "STATUS", ""}

func catalogRows(catalogs []shared.Catalog) [][]string {
	now := time.Now()

	var rows [][]string
	for _, catalog := range catalogs {
		rows = append(rows, []string{
			catalog.ID,
			utils.Truncate(catalog.Name, 32),
			catalog.Kind,
			strconv.Itoa(len(catalog.ArtifactIDs)),
			utils.ReadableTime(catalog.Modified, now),
		})
	}

	return rows
}

var catalogHeaders = []string{"ID", "NAME", "KIND", "ITEMS", "MODIFIED"}

// pageFooter describes which slice of a result set is being shown
func pageFooter(offset, shown, total int) string {
	if total == 0 {
		return styles.HelpStyle.Render("No artifacts")
	}

	return styles.HelpStyle.Render(fmt.Sprintf(
		"Showing %d-%d of %d",
		offset+1,
		offset+shown,
		total))
}
