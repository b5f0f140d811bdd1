package gateway

import (
	"context"
	"encoding/json"
)

// ReportOutcome tags the result of the best-effort statistics report: either
// the report landed (OK, Ack carries the remote acknowledgment) or it did not
// (Reason says why, in client-safe terms). The local write it follows is
// committed either way.
type ReportOutcome struct {
	OK         bool
	StatusCode int
	Ack        json.RawMessage
	Reason     string
}

type reportCaseReq struct {
	DiagnosisText string `json:"diagnosis_text"`
	KotaKejadian  string `json:"kota_kejadian"`
}

// ReportCase posts a new case to the statistics collaborator. It never returns
// an error: failure is data, carried in the outcome.
func (c *Client) ReportCase(ctx context.Context, diagnosisText, kotaKejadian string) ReportOutcome {
	resp, err := c.PostJSON(ctx, "/report-case", reportCaseReq{
		DiagnosisText: diagnosisText,
		KotaKejadian:  kotaKejadian,
	})
	if err != nil {
		return ReportOutcome{Reason: "Failed to report case to " + c.name}
	}
	if !resp.OK() {
		reason := resp.Message()
		if reason == "" {
			reason = "Failed to report case to " + c.name
		}
		return ReportOutcome{StatusCode: resp.StatusCode, Reason: reason}
	}
	return ReportOutcome{OK: true, StatusCode: resp.StatusCode, Ack: resp.Body}
}
