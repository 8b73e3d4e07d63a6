package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cdnfetch/pkg/importer"
	"github.com/matzehuels/cdnfetch/pkg/integrations"
	"github.com/matzehuels/cdnfetch/pkg/notify"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleDisabled = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(18)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Import Output
// =============================================================================

// printMessages renders recorded import notifications.
func printMessages(msgs []notify.Message) {
	for _, m := range msgs {
		if m.Kind == notify.Error {
			printError("%s", m.Text)
		} else {
			printSuccess("%s", m.Text)
		}
	}
}

// printOutcome prints the details of an import below its notification.
func printOutcome(out importer.Outcome) {
	if out.Success {
		printDetail("URL: %s", StyleLink.Render(out.URL))
		if out.Asset != nil && out.Asset.Path != "" {
			printFile(out.Asset.Path)
		}
		if out.Attempts > 1 {
			printDetail("%d providers tried", out.Attempts)
		}
		return
	}
	if out.Code != "" {
		printDetail("%s after %d attempt(s)", out.Code, out.Attempts)
	}
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// providersTable renders providers in the given order. Disabled rows are
// dimmed.
func providersTable(providers []provider.Definition) string {
	rows := make([][]string, 0, len(providers))
	for _, p := range providers {
		enabled := ""
		if p.Enabled {
			enabled = iconSuccess
		}
		esm := ""
		if p.SupportESM {
			esm = iconSuccess
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Priority), p.ID, p.Name, enabled, esm, string(p.Region), p.MethodName(),
		})
	}
	t := newTable("#", "ID", "Name", "On", "ESM", "Region", "Command").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row < len(providers) && !providers[row].Enabled {
				return styleDisabled
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// resultsTable renders search hits. Descriptions are cut at 50 characters.
func resultsTable(hits []integrations.PackageInfo) string {
	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		score := ""
		if h.Score > 0 {
			score = fmt.Sprintf("%d%%", h.Score)
		}
		rows = append(rows, []string{h.Name, h.Version, truncate(h.Description, 50), score, h.CDN})
	}
	return newTable("Name", "Version", "Description", "Score", "CDN").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
