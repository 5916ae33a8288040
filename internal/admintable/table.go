// Package admintable renders the paginated appointment table shown on the
// admin dashboard.
package admintable

import (
	"fmt"

	"github.com/meditrack/meditrack-server/internal/appointments"
)

// Column describes one data column: a stable ID, a header label and a cell
// renderer.
type Column struct {
	ID     string
	Header string
	Cell   func(appt *appointments.Appointment) string
}

// ActionColumn is the optional trailing per-row action. It is part of the
// table's construction-time configuration, not something appended to the
// column list at render time.
type ActionColumn struct {
	ID     string
	Header string
	Label  string
	HRef   func(appt *appointments.Appointment) string
}

// Row is one rendered table row.
type Row struct {
	ID     string     `json:"id"`
	Cells  []string   `json:"cells"`
	Action *RowAction `json:"action,omitempty"`
}

// RowAction is the rendered trailing action for a row.
type RowAction struct {
	Label string `json:"label"`
	HRef  string `json:"href"`
}

// Placeholder is the single row shown when there is nothing to list.
type Placeholder struct {
	Text string `json:"text"`
	Span int    `json:"span"`
}

// Page is one rendered page of the table. CanPrev is false exactly on the
// first page and CanNext false exactly on the last.
type Page struct {
	Header      []string     `json:"header"`
	Rows        []Row        `json:"rows"`
	Placeholder *Placeholder `json:"placeholder,omitempty"`
	PageIndex   int          `json:"page_index"`
	PageCount   int          `json:"page_count"`
	PageSize    int          `json:"page_size"`
	CanPrev     bool         `json:"can_prev"`
	CanNext     bool         `json:"can_next"`
}

const noResultsText = "No results."

// Presenter renders appointment rows into pages.
type Presenter struct {
	columns  []Column
	action   *ActionColumn
	pageSize int
}

// NewPresenter builds a presenter over a fixed column configuration.
func NewPresenter(columns []Column, action *ActionColumn, pageSize int) *Presenter {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Presenter{
		columns:  columns,
		action:   action,
		pageSize: pageSize,
	}
}

// Render produces the requested page. Out-of-range page indexes clamp to the
// nearest valid page.
func (p *Presenter) Render(rows []*appointments.Appointment, pageIndex int) Page {
	header := make([]string, 0, len(p.columns)+1)
	for _, col := range p.columns {
		header = append(header, col.Header)
	}
	if p.action != nil {
		header = append(header, p.action.Header)
	}

	if len(rows) == 0 {
		return Page{
			Header:      header,
			Placeholder: &Placeholder{Text: noResultsText, Span: len(header)},
			PageIndex:   0,
			PageCount:   1,
			PageSize:    p.pageSize,
		}
	}

	pageCount := (len(rows) + p.pageSize - 1) / p.pageSize
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageIndex >= pageCount {
		pageIndex = pageCount - 1
	}

	start := pageIndex * p.pageSize
	end := start + p.pageSize
	if end > len(rows) {
		end = len(rows)
	}

	rendered := make([]Row, 0, end-start)
	for _, appt := range rows[start:end] {
		cells := make([]string, 0, len(p.columns))
		for _, col := range p.columns {
			cells = append(cells, col.Cell(appt))
		}
		row := Row{ID: appt.ID, Cells: cells}
		if p.action != nil {
			row.Action = &RowAction{Label: p.action.Label, HRef: p.action.HRef(appt)}
		}
		rendered = append(rendered, row)
	}

	return Page{
		Header:    header,
		Rows:      rendered,
		PageIndex: pageIndex,
		PageCount: pageCount,
		PageSize:  p.pageSize,
		CanPrev:   pageIndex > 0,
		CanNext:   pageIndex < pageCount-1,
	}
}

// DefaultColumns is the admin dashboard column set.
func DefaultColumns() []Column {
	return []Column{
		{ID: "patient", Header: "Patient", Cell: func(a *appointments.Appointment) string {
			return a.Patient.Name
		}},
		{ID: "status", Header: "Status", Cell: func(a *appointments.Appointment) string {
			return string(a.Status)
		}},
		{ID: "appointment", Header: "Appointment", Cell: func(a *appointments.Appointment) string {
			return a.Schedule.UTC().Format("Jan 2, 2006 - 3:04 PM")
		}},
		{ID: "physician", Header: "Physician", Cell: func(a *appointments.Appointment) string {
			return "Dr. " + a.PrimaryPhysician
		}},
	}
}

// ExportAction links each row to its PDF summary download.
func ExportAction() *ActionColumn {
	return &ActionColumn{
		ID:     "actions",
		Header: "Actions",
		Label:  "Download PDF",
		HRef: func(a *appointments.Appointment) string {
			return fmt.Sprintf("/admin/appointments/%s/summary.pdf", a.ID)
		},
	}
}
