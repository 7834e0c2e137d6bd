package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/distsort/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func sortedSnapshot() core.SessionSnapshot {
	binding := core.Binding{Name: "Property", Distance: "Miles", Neighborhood: "Area"}
	return core.SessionSnapshot{
		Features:   core.AllFeatures(),
		FileName:   "props.csv",
		Rows:       2,
		Columns:    []string{"Property", "Miles", "Area"},
		Binding:    binding,
		Candidates: []string{"<script>alert(1)</script>", "Birch Lane"},
		Selected:   []string{"Birch Lane", "Hidden Pick"},
		Order:      core.Ascending.Param(),
		Result: &core.Result{
			Rows: []core.ResultRow{
				{Position: 1, Name: "Birch Lane", Distance: 1.5, Neighborhood: "South"},
				{Position: 2, Name: "<script>alert(1)</script>", Distance: 3, Neighborhood: "North & East"},
			},
			Dropped: 1,
			Binding: binding,
		},
		Numbered: []string{"1. Birch Lane — 1.5 miles"},
	}
}

func TestPage_Empty(t *testing.T) {
	html := render(t, Page(PageData{Accept: ".csv,.xlsx"}))

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "Property Distance Sorter")
	assert.Contains(t, html, `accept=".csv,.xlsx"`)
	assert.NotContains(t, html, `action="/columns"`)
	assert.NotContains(t, html, "Sorted Results")
}

func TestPage_EscapesUserText(t *testing.T) {
	snap := sortedSnapshot()
	snap.Notes = "start <north>"
	html := render(t, Page(PageData{Session: snap}))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, html, "start &lt;north&gt;")
	assert.Contains(t, html, "North &amp; East")
}

func TestPage_Forms(t *testing.T) {
	html := render(t, Page(PageData{Session: sortedSnapshot()}))

	assert.Contains(t, html, `<option value="Miles" selected>Miles</option>`)
	assert.Contains(t, html, `<option value="Area" selected>Area</option>`)
	assert.NotContains(t, html, "Choose a column")
	assert.Contains(t, html, `<option value="Hidden Pick" selected>Hidden Pick</option>`)
	assert.Contains(t, html, `value="asc" checked`)
	assert.Contains(t, html, "Sort &amp; Analyze")
	assert.Contains(t, html, "props.csv · 2 rows")
}

func TestPage_FeaturesOff(t *testing.T) {
	snap := sortedSnapshot()
	snap.Features = core.Features{}
	snap.Binding.Neighborhood = ""
	html := render(t, Page(PageData{Session: snap}))

	assert.NotContains(t, html, `name="neighborhood"`)
	assert.NotContains(t, html, `type="search"`)
	assert.NotContains(t, html, "Sort &amp; Analyze")
	assert.NotContains(t, html, "/download")
}

func TestResults(t *testing.T) {
	snap := sortedSnapshot()
	snap.Summary = &core.Summary{
		Count: 2, Min: 1.5, Max: 3, Mean: 2.25, Median: 2.25, P90: 2.85,
		Closest: "Birch Lane", Farthest: "Maple",
		Neighborhoods: []core.NeighborhoodCount{{Neighborhood: "South", Count: 1}},
	}
	html := render(t, Results(snap))

	assert.Contains(t, html, "Sorted Results")
	assert.Contains(t, html, "1 selected row(s) had no numeric distance")
	assert.Contains(t, html, "<th>Neighborhood</th>")
	assert.Contains(t, html, "<td>1.5</td>")
	assert.Contains(t, html, "<li>1. Birch Lane — 1.5 miles</li>")
	assert.Contains(t, html, `href="/download?format=xlsx"`)
	assert.Contains(t, html, "Birch Lane (1.50 mi)")
	assert.Contains(t, html, "<td>South</td><td>1</td>")
}

func TestResults_NoResult(t *testing.T) {
	assert.Empty(t, render(t, Results(core.SessionSnapshot{})))
}

func TestAlertBox(t *testing.T) {
	tests := []struct {
		name  string
		alert *Alert
		want  []string
		not   []string
	}{
		{
			name:  "error with action and code",
			alert: &Alert{Level: "error", Message: "Bad <file>", Action: "Try again", Code: "LOAD004"},
			want:  []string{`class="alert alert-error"`, "Bad &lt;file&gt;", `<span class="action">Try again</span>`, "(Code: LOAD004)"},
		},
		{
			name:  "warning without extras",
			alert: NewAlert(core.UserMessage{Message: "Please select at least one property"}, true),
			want:  []string{"alert-warning", "Please select at least one property"},
			not:   []string{"action", "Code:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := render(t, AlertBox(tt.alert))
			for _, w := range tt.want {
				assert.Contains(t, html, w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, html, n)
			}
		})
	}
}

func TestErrorAlert(t *testing.T) {
	html := render(t, ErrorAlert("Boom", "", "SYS001"))
	assert.Contains(t, html, "alert-error")
	assert.Contains(t, html, "(Code: SYS001)")
}
