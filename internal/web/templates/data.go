// Package templates holds the templ components rendered by the web server.
//
// Edit the .templ files and run `templ generate`; the *_templ.go files are
// generated.
package templates

import (
	"fmt"
	"strconv"

	"github.com/JonMunkholm/distsort/internal/core"
)

// Alert is a message box shown above the results.
type Alert struct {
	Level   string // "error" or "warning"
	Message string
	Action  string
	Code    string
}

// NewAlert builds an alert from a mapped error.
func NewAlert(msg core.UserMessage, warning bool) *Alert {
	level := "error"
	if warning {
		level = "warning"
	}
	return &Alert{Level: level, Message: msg.Message, Action: msg.Action, Code: msg.Code}
}

// PageData is everything the main page needs.
type PageData struct {
	Session core.SessionSnapshot
	Alert   *Alert
	Accept  string // file input accept attribute
}

type option struct {
	Value    string
	Selected bool
}

type orderChoice struct {
	Value   string
	Label   string
	Checked bool
}

func canSort(snap core.SessionSnapshot) bool {
	return snap.Binding.Name != "" && snap.Binding.Distance != ""
}

func fileInfo(snap core.SessionSnapshot) string {
	s := fmt.Sprintf("%s · %d rows", snap.FileName, snap.Rows)
	if snap.Encoding == core.EncodingLatin1 {
		s += " · read as Latin-1"
	}
	return s
}

func columnOptions(columns []string, current string) []option {
	opts := make([]option, len(columns))
	for i, c := range columns {
		opts[i] = option{Value: c, Selected: c == current}
	}
	return opts
}

// propertyOptions lists the candidates, then any earlier picks the current
// search hides so they stay selected on the next submit.
func propertyOptions(snap core.SessionSnapshot) []option {
	selected := make(map[string]bool, len(snap.Selected))
	for _, n := range snap.Selected {
		selected[n] = true
	}

	opts := make([]option, 0, len(snap.Candidates))
	shown := make(map[string]bool, len(snap.Candidates))
	for _, n := range snap.Candidates {
		shown[n] = true
		opts = append(opts, option{Value: n, Selected: selected[n]})
	}
	for _, n := range snap.Selected {
		if !shown[n] {
			opts = append(opts, option{Value: n, Selected: true})
		}
	}
	return opts
}

func orderChoices(current string) []orderChoice {
	orders := []core.SortOrder{core.Ascending, core.Descending}
	choices := make([]orderChoice, len(orders))
	for i, o := range orders {
		choices[i] = orderChoice{Value: o.Param(), Label: o.String(), Checked: o.Param() == current}
	}
	return choices
}

func hasNeighborhood(r *core.Result) bool {
	return r.Binding.Neighborhood != ""
}

func droppedNote(n int) string {
	return fmt.Sprintf("%d selected row(s) had no numeric distance and were left out.", n)
}

func distance(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func miles(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
