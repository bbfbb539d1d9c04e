package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// emailSpec pins each sequence type to a subject line and template. This
// table is the single source of truth for what the five sequence types
// look like on the wire.
type emailSpec struct {
	subject   string
	template  string
	dayNumber int
}

var emailSpecs = map[string]emailSpec{
	entity.SequenceWelcome: {
		subject:  "Welcome to Gravitas Index",
		template: "welcome.html",
	},
	entity.SequenceLeadMagnet: {
		subject:  "Your Entity Search Playbook is Ready",
		template: "lead_magnet.html",
	},
	entity.SequenceFollowUpDay1: {
		subject:   "The Entity Search Shift: What Happens Next",
		template:  "follow_up.html",
		dayNumber: 1,
	},
	entity.SequenceFollowUpDay3: {
		subject:   "How Denver Agents Captured 47% More Leads",
		template:  "follow_up.html",
		dayNumber: 3,
	},
	entity.SequenceFollowUpDay7: {
		subject:   "Last Call: Your Market Is Filling Up",
		template:  "follow_up.html",
		dayNumber: 7,
	},
}

type templateData struct {
	Name        string
	DownloadURL string
	DayNumber   int
}

// Render resolves the subject and HTML body for one sequence email.
func Render(sequenceType, name, downloadURL string) (subject, body string, err error) {
	spec, ok := emailSpecs[sequenceType]
	if !ok {
		return "", "", fmt.Errorf("unknown sequence type: %s", sequenceType)
	}

	if sequenceType == entity.SequenceLeadMagnet && downloadURL == "" {
		return "", "", fmt.Errorf("download URL required for lead magnet email")
	}

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, spec.template, templateData{
		Name:        name,
		DownloadURL: downloadURL,
		DayNumber:   spec.dayNumber,
	})
	if err != nil {
		return "", "", fmt.Errorf("rendering %s: %w", spec.template, err)
	}

	return spec.subject, buf.String(), nil
}
