package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todolist/internal/model"
)

const maxTextWidth = 80

// OK prints a success line.
func OK(w io.Writer, t Theme, msg string) {
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, t Theme, msg string) {
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// ProgressBar renders a bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %3d%%", bar, done*100/total)
}

// Panel frames lines with the theme's border.
func Panel(t Theme, lines []string) string {
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// Header is the title line with done/pending/total counts.
func Header(t Theme, list model.List) string {
	done, pending := list.Stats()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todo List"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(list),
	)
}

// ItemLine renders one item as "#id box text".
func ItemLine(t Theme, it model.Item) string {
	text := truncate(it.Text, maxTextWidth)
	box := t.Muted.Render(t.Box(it.Complete))
	if it.Complete {
		box = t.Success.Render(t.Box(true))
		text = t.Done.Render(text)
	}
	return fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%3d", it.ID)), box, text)
}

// ListView renders the whole list for non-interactive output.
func ListView(t Theme, list model.List, group bool) string {
	done, pending := list.Stats()
	lines := []string{
		Header(t, list),
		t.Muted.Render(ProgressBar(done, done+pending, 28)),
		"",
	}
	if group {
		lines = append(lines, groupLines(t, list)...)
	} else {
		lines = append(lines, flatLines(t, list)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	return Panel(t, lines)
}

func flatLines(t Theme, list model.List) []string {
	if len(list) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(list))
	for _, it := range list {
		out = append(out, ItemLine(t, it))
	}
	return out
}

func groupLines(t Theme, list model.List) []string {
	var pend, done model.List
	for _, it := range list {
		if it.Complete {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	section := func(title string, items model.List) []string {
		lines := []string{t.Accent.Render(title)}
		if len(items) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, flatLines(t, items)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
