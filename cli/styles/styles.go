package styles

import (
	"fmt"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var Theme = SatchelTheme()

var (
	white       = lipgloss.Color("#ffffff")
	gray        = lipgloss.Color("#a6adc8")
	accent      = lipgloss.Color("#b7791f")
	accentLight = lipgloss.Color("#e0a84f")
	success     = lipgloss.Color("#3EB974")
	destructive = lipgloss.Color("#a83c3c")
)

func SatchelTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(white)
	t.Focused.NoteTitle = t.Focused.NoteTitle.Foreground(white).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(gray)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(destructive)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(destructive)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accentLight).Bold(true)
	t.Focused.Option = t.Focused.Option.PaddingLeft(1).PaddingRight(1).Foreground(gray)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(accentLight)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(white).PaddingLeft(1).PaddingRight(1)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(accentLight)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.PaddingLeft(1).PaddingRight(1)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(white).Background(accent)

	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(white)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(gray)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(accentLight)

	t.Help = help.New().Styles

	// Blurred styles.
	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.MultiSelectSelector = lipgloss.NewStyle().SetString("  ")
	t.Blurred.NextIndicator = lipgloss.NewStyle()
	t.Blurred.PrevIndicator = lipgloss.NewStyle()

	return t
}

var (
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	AccentStyle  = lipgloss.NewStyle().Foreground(accentLight)
	BoldStyle    = lipgloss.NewStyle().Bold(true).Foreground(Theme.Focused.NoteTitle.GetForeground())
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Theme.Focused.FocusedButton.GetForeground())
	ErrStyle     = lipgloss.NewStyle().Foreground(Theme.Focused.ErrorMessage.GetForeground())
	SuccessStyle = lipgloss.NewStyle().Foreground(success)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accentLight).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

func PrintErrStr(errMsg string) {
	fmt.Println(ErrStyle.Render(errMsg))
}

func PrintSuccessStr(msg string) {
	fmt.Println(SuccessStyle.Render(msg))
}

// Table renders rows in aligned columns under a highlighted header
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = lipgloss.Width(header)
	}

	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	render := func(cells []string, style lipgloss.Style) string {
		var rendered []string
		for i, width := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}

			rendered = append(rendered, style.Width(width+2).Render(cell))
		}

		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}

	lines := []string{render(headers, headerStyle)}
	for _, row := range rows {
		lines = append(lines, render(row, cellStyle))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func DestructiveTheme() *huh.Theme {
	t := *Theme

	red := lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}

	t.Focused.Base = t.Focused.Base.BorderForeground(lipgloss.Color("238"))
	t.Focused.Title = t.Focused.Title.Foreground(red).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(red)

	return &t
}
