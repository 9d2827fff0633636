package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // slides, headings
	colorGreen  = lipgloss.Color("35")  // free slots, success
	colorYellow = lipgloss.Color("220") // noted top-left pictures, warnings
	colorRed    = lipgloss.Color("167") // failures
	colorBlue   = lipgloss.Color("75")  // suggested commands
	colorWhite  = lipgloss.Color("255") // values, taken slots
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // secondary text, grid borders
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle renders headings such as the browser's slide title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders occupied quadrant labels and slide numbers.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleFree  = lipgloss.NewStyle().Foreground(colorGreen)
	styleTaken = lipgloss.NewStyle().Foreground(colorWhite)
	styleNoted = lipgloss.NewStyle().Foreground(colorYellow)
	styleHead  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey   = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
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
	iconTaken   = "■"
	iconFree    = "·"
)

// status pairs an icon with its color.
type status struct {
	icon  string
	color lipgloss.Color
}

var (
	statusSuccess = status{iconSuccess, colorGreen}
	statusError   = status{iconError, colorRed}
	statusWarning = status{iconWarning, colorYellow}
	statusInfo    = status{iconInfo, colorGray}
)

func (s status) line(msg string) string {
	return lipgloss.NewStyle().Foreground(s.color).Render(s.icon) + " " + msg
}

// =============================================================================
// Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(statusSuccess.line(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Println(statusError.line(fmt.Sprintf(format, args...)))
}

// printWarning colors the message as well as the icon.
func printWarning(format string, args ...any) {
	fmt.Println(statusWarning.line(StyleWarning.Render(fmt.Sprintf(format, args...))))
}

func printInfo(format string, args ...any) {
	fmt.Println(statusInfo.line(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the run tally on one line, for example
// "3 placed · 1 failed · 2 slides". Zero failures and skips are omitted.
func printStats(placed, failed, skipped, slides int) {
	parts := []string{fmt.Sprintf("%d placed", placed)}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	parts = append(parts, plural(slides, "slide"))
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printNextStep suggests the command to run after this one.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
