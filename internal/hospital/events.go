package hospital

// CaseReportedPayload rides the hospital.case.reported topic.
type CaseReportedPayload struct {
	MonitoringID  int64  `json:"monitoring_id"`
	DiagnosisID   int64  `json:"diagnosis_id"`
	DiagnosisText string `json:"diagnosis_text"`
	KotaKejadian  string `json:"kota_kejadian"`
	// Reported is false when the statistics service could not be reached.
	Reported bool `json:"reported"`
}
