package formatter

import (
	"bytes"
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/irahardianto/mergescout/internal/engine/detect"
)

const informationURI = "https://github.com/irahardianto/mergescout"

// SarifFormatter outputs conflicting files as a SARIF v2.1.0 document,
// one result per path, so code hosts can annotate the affected files.
type SarifFormatter struct{}

// NewSarifFormatter creates a new SarifFormatter.
func NewSarifFormatter() *SarifFormatter {
	return &SarifFormatter{}
}

// Format returns the result as a SARIF document. A clean merge yields a
// valid document with an empty result list.
func (f *SarifFormatter) Format(result *detect.Result) string {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return `{"error": "failed to create SARIF report"}`
	}

	run := sarif.NewRunWithInformationURI("mergescout", informationURI)

	for _, path := range result.ConflictedFiles {
		ruleID := "merge-conflict"
		message := fmt.Sprintf("merging %s into %s would conflict in this file", result.OtherRef, result.CurrentRef)

		if rec, ok := result.Files[path]; ok {
			ruleID = string(rec.Type)
			if rec.Message != "" {
				message = rec.Message
			}
		}

		run.AddRule(ruleID).
			WithDescription("Predicted merge conflict")

		run.CreateResultForRule(ruleID).
			WithLevel("error").
			WithMessage(sarif.NewTextMessage(message)).
			AddLocation(sarif.NewLocationWithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(path))))
	}

	report.AddRun(run)

	var buf bytes.Buffer
	if err := report.PrettyWrite(&buf); err != nil {
		return `{"error": "failed to serialize SARIF report"}`
	}
	return buf.String()
}
