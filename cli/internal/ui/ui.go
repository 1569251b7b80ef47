// Package ui is the CLI's terminal output toolkit.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// PrintHeader prints a bordered title banner.
func PrintHeader(title string, subtitle string) {
	width := 80
	if w := pterm.GetTerminalWidth(); w > 0 {
		width = w
	}

	header := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render(title),
				SecondaryStyle.Render(subtitle),
			),
		)

	fmt.Println(header)
	fmt.Println()
}

func PrintSuccess(format string, args ...interface{}) {
	fmt.Println(SuccessStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

func PrintWarning(format string, args ...interface{}) {
	fmt.Println(WarningStyle.Render("⚠ " + fmt.Sprintf(format, args...)))
}

func PrintInfo(format string, args ...interface{}) {
	fmt.Println(InfoStyle.Render("ℹ " + fmt.Sprintf(format, args...)))
}

// PrintTable renders headers plus rows through pterm.
func PrintTable(headers []string, rows [][]string) {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func PrintList(items []string) {
	for _, item := range items {
		fmt.Printf("  • %s\n", item)
	}
}

// PrintMarkdown renders markdown to the terminal via glamour.
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}

// PrintSection prints an underlined section header.
func PrintSection(title string) {
	width := 80
	if w := pterm.GetTerminalWidth(); w > 0 {
		width = w
	}

	section := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Padding(0, 0, 1, 0).
		Render(title)

	fmt.Println(section)
}

// PrintSpinner starts and returns a spinner.
func PrintSpinner(message string) (*pterm.SpinnerPrinter, error) {
	spinner := pterm.DefaultSpinner.WithText(message)
	spinner.Start()
	return spinner, nil
}

// GetColorPrinters returns fatih/color printers for plain-text contexts
// where lipgloss styling is overkill.
func GetColorPrinters() map[string]*color.Color {
	return map[string]*color.Color{
		"success": color.New(color.FgGreen, color.Bold),
		"error":   color.New(color.FgRed, color.Bold),
		"warning": color.New(color.FgYellow, color.Bold),
		"info":    color.New(color.FgCyan),
		"primary": color.New(color.FgCyan, color.Bold),
	}
}
