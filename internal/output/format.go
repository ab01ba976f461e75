// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"htask/internal/service"
)

const (
	// SectionSeparator is the separator line around section headers.
	SectionSeparator = "------------"
)

// sectionTitles maps task types to their section headers.
var sectionTitles = map[service.TaskType]string{
	service.Habit:  "Habits",
	service.Daily:  "Dailies",
	service.Todo:   "To-dos",
	service.Reward: "Rewards",
}

// refLetters maps task types to the letter used in task references.
var refLetters = map[service.TaskType]rune{
	service.Habit:  'h',
	service.Daily:  'd',
	service.Todo:   't',
	service.Reward: 'r',
}

// RefLetter returns the reference letter for a task type, or 0.
func RefLetter(t service.TaskType) rune {
	return refLetters[t]
}

// TypeForLetter returns the task type referenced by letter.
func TypeForLetter(letter rune) (service.TaskType, bool) {
	for t, l := range refLetters {
		if l == letter {
			return t, true
		}
	}
	return "", false
}

// Ref formats a task reference such as "t3".
func Ref(t service.TaskType, num int) string {
	return fmt.Sprintf("%c%d", RefLetter(t), num)
}

// FormatSectionHeader formats the header of a task type section.
func FormatSectionHeader(w io.Writer, t service.TaskType) {
	title, ok := sectionTitles[t]
	if !ok {
		title = string(t)
	}
	FormatHeader(w, title)
}

// FormatHeader formats a free-form section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatTask formats a task line and its checklist.
// Format: "{REF:>5}  {MARK}{TEXT}\n", where MARK is "[x] " for completed
// dailies and todos and "[ ] " for open ones. Habits and rewards have no mark.
func FormatTask(w io.Writer, ref string, task service.Task) {
	fmt.Fprintf(w, "%5s  %s%s\n", ref, mark(task), normalizeTitle(task.Text))
	formatChecklist(w, task)
}

// FormatGroupTask formats a task from a group or challenge list, keyed by id.
func FormatGroupTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%s  %-6s  %s%s\n", task.ID, task.Type, mark(task), normalizeTitle(task.Text))
	if task.Group != nil && len(task.Group.AssignedUsers) > 0 {
		fmt.Fprintf(w, "        assigned: %s\n", strings.Join(task.Group.AssignedUsers, ", "))
	}
}

// FormatOrder formats an order of task ids, one per line.
func FormatOrder(w io.Writer, ids []string) {
	for i, id := range ids {
		fmt.Fprintf(w, "%4d  %s\n", i+1, id)
	}
}

// FormatScore formats the outcome of scoring a task.
func FormatScore(w io.Writer, res service.ScoreResult) {
	fmt.Fprintf(w, "delta %+.2f  hp %.1f  mp %.1f  exp %.0f  gp %.2f\n", res.Delta, res.HP, res.MP, res.Exp, res.GP)
}

func mark(task service.Task) string {
	switch task.Type {
	case service.Daily, service.Todo:
		if task.Completed {
			return "[x] "
		}
		return "[ ] "
	}
	return ""
}

func formatChecklist(w io.Writer, task service.Task) {
	if len(task.Checklist) == 0 {
		return
	}
	if task.CollapseChecklist {
		done := 0
		for _, item := range task.Checklist {
			if item.Completed {
				done++
			}
		}
		fmt.Fprintf(w, "         (%d/%d)\n", done, len(task.Checklist))
		return
	}
	for i, item := range task.Checklist {
		box := "[ ]"
		if item.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "         %d. %s %s\n", i+1, box, normalizeTitle(item.Text))
	}
}

// normalizeTitle normalizes a task text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
