// Package export renders the per-patient medical summary PDF served from the
// admin dashboard.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/meditrack/meditrack-server/internal/appointments"
)

// Section is one titled block of label/value lines in the summary document.
type Section struct {
	Title string
	Lines []string
	Fill  [3]int
}

const (
	missingValue = "N/A"
	noneValue    = "None"
)

func orFallback(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// Summary assembles the five document sections. Section order is fixed and
// independent of which patient fields are present.
func Summary(appt *appointments.Appointment) []Section {
	p := appt.Patient

	birthDate := missingValue
	if !p.BirthDate.IsZero() {
		birthDate = p.BirthDate.Format("1/2/2006")
	}

	return []Section{
		{
			Title: "Personal Information",
			Lines: []string{
				"Full Name: " + orFallback(p.Name, missingValue),
				"Phone: " + orFallback(p.Phone, missingValue),
				"Email: " + orFallback(p.Email, missingValue),
				"Gender: " + orFallback(p.Gender, missingValue),
				"Date of Birth: " + birthDate,
				"Address: " + orFallback(p.Address, missingValue),
				"Occupation: " + orFallback(p.Occupation, missingValue),
			},
			Fill: [3]int{41, 128, 185},
		},
		{
			Title: "Emergency & Insurance",
			Lines: []string{
				"Emergency Contact: " + orFallback(p.EmergencyContactName, missingValue),
				"Emergency Number: " + orFallback(p.EmergencyContactNumber, missingValue),
				"Primary Physician: " + orFallback(p.PrimaryPhysician, missingValue),
				"Insurance Provider: " + orFallback(p.InsuranceProvider, missingValue),
				"Policy Number: " + orFallback(p.InsurancePolicyNumber, missingValue),
			},
			Fill: [3]int{241, 196, 15},
		},
		{
			Title: "Medical History",
			Lines: []string{
				"Allergies: " + orFallback(p.Allergies, noneValue),
				"Current Medication: " + orFallback(p.CurrentMedication, noneValue),
				"Family History: " + orFallback(p.FamilyMedicalHistory, noneValue),
				"Past Medical History: " + orFallback(p.PastMedicalHistory, noneValue),
			},
			Fill: [3]int{39, 174, 96},
		},
		{
			Title: "Identification",
			Lines: []string{
				"ID Type: " + orFallback(p.IdentificationType, missingValue),
				"ID Number: " + orFallback(p.IdentificationNumber, missingValue),
			},
			Fill: [3]int{142, 68, 173},
		},
		{
			Title: "Appointment Details",
			Lines: []string{
				"Doctor: " + orFallback(appt.PrimaryPhysician, missingValue),
				"Date: " + appt.Schedule.UTC().Format("1/2/2006, 3:04:05 PM"),
				"Status: " + string(appt.Status),
				"Reason: " + appt.Reason,
				"Note: " + orFallback(appt.Note, missingValue),
			},
			Fill: [3]int{231, 76, 60},
		},
	}
}

const (
	leftMargin     = 14.0
	titleY         = 20.0
	lineHeight     = 10.0
	sectionSpacing = 12.0
)

// Render produces the summary PDF for one appointment. Sections stack top to
// bottom; each one starts below the previous section's last line plus fixed
// spacing.
func Render(appt *appointments.Appointment) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.Text(leftMargin, titleY, "Patient Medical Summary")

	y := titleY + 8
	for _, section := range Summary(appt) {
		doc.SetFont("Helvetica", "B", 12)
		doc.SetFillColor(section.Fill[0], section.Fill[1], section.Fill[2])
		doc.SetTextColor(255, 255, 255)
		doc.SetXY(leftMargin, y)
		doc.CellFormat(180, lineHeight, section.Title, "1", 0, "L", true, 0, "")
		y += lineHeight

		doc.SetFont("Helvetica", "", 12)
		doc.SetTextColor(100, 100, 100)
		for _, line := range section.Lines {
			doc.SetXY(leftMargin, y)
			doc.CellFormat(180, lineHeight, line, "1", 0, "L", false, 0, "")
			y += lineHeight
		}
		y += sectionSpacing
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Filename derives the download name from the patient's name. Whitespace runs
// collapse to underscores and letters are lower-cased.
func Filename(patientName string) string {
	name := strings.ToLower(strings.TrimSpace(patientName))
	if name == "" {
		return "patient_summary.pdf"
	}
	return whitespaceRuns.ReplaceAllString(name, "_") + "_summary.pdf"
}
