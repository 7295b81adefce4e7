package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/search"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	polishStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))
)

var titleCaser = cases.Title(language.English)

// formatSearchOutput renders the non-empty result sections of a search.
func formatSearchOutput(query string, results search.Results) string {
	var output strings.Builder

	output.WriteString(titleStyle.Render(fmt.Sprintf("Search: %s", query)))
	output.WriteString("\n")

	if results.TotalResults == 0 {
		output.WriteString(noDataStyle.Render(fmt.Sprintf("No results for %q.", query)))
		output.WriteString("\n")
		return output.String()
	}

	sections := results.Sections()
	output.WriteString(summaryStyle.Render(fmt.Sprintf("%d results in %d sections", results.TotalResults, len(sections))))
	output.WriteString("\n")

	for _, sec := range sections {
		output.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", sec.Label, len(sec.Results))))
		output.WriteString("\n")
		for _, r := range sec.Results {
			output.WriteString("  ")
			output.WriteString(polishStyle.Render(r.Title))
			if r.Subtitle != "" {
				output.WriteString(" " + metaStyle.Render(r.Subtitle))
			}
			output.WriteString("\n    ")
			output.WriteString(urlStyle.Render(r.Link()))
			output.WriteString("\n")
		}
	}
	return output.String()
}

// formatVocabulary renders vocabulary entries one per line.
func formatVocabulary(title string, entries []core.VocabularyEntry) string {
	var output strings.Builder
	output.WriteString(titleStyle.Render(title))
	output.WriteString("\n")
	if len(entries) == 0 {
		output.WriteString(noDataStyle.Render("Nothing here yet."))
		output.WriteString("\n")
		return output.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&output, "  %4d  %s %s", e.ID, polishStyle.Render(e.Word), metaStyle.Render(e.Translation))
		if e.Category != "" {
			output.WriteString(" " + urlStyle.Render("["+titleCaser.String(e.Category)+"]"))
		}
		output.WriteString("\n")
	}
	return output.String()
}

// formatCustomWords renders imported words one per line.
func formatCustomWords(words []core.CustomWord) string {
	var output strings.Builder
	output.WriteString(titleStyle.Render(fmt.Sprintf("My Words (%d)", len(words))))
	output.WriteString("\n")
	if len(words) == 0 {
		output.WriteString(noDataStyle.Render("No words imported. Use `fiszki words import <file.csv>`."))
		output.WriteString("\n")
		return output.String()
	}
	for _, w := range words {
		fmt.Fprintf(&output, "  %4d  %s %s\n", w.ID, polishStyle.Render(w.Source), metaStyle.Render(w.Target))
	}
	return output.String()
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// display prints content, through a pager when stdout is a terminal.
func display(content string, noPager bool) error {
	if noPager || !isTerminal() {
		fmt.Print(content)
		return nil
	}
	return displayWithPager(content)
}

// displayWithPager displays content using a pager
func displayWithPager(content string) error {
	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		for _, pager := range []string{"less", "more", "cat"} {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}

	if pagerCmd == "" {
		fmt.Print(content)
		return nil
	}

	args := []string{}
	if strings.Contains(pagerCmd, "less") {
		args = []string{"-R", "-S", "-F", "-X"}
	}

	cmd := exec.Command(pagerCmd, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
