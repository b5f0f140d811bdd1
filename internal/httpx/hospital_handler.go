package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"medilink/internal/events"
	"medilink/internal/gateway"
	"medilink/internal/hospital"
	kafkax "medilink/internal/kafka"
	"medilink/internal/payload"
	"medilink/internal/redisx"
)

// HospitalRepo is the typed surface of the hospital store.
type HospitalRepo interface {
	CreatePatient(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdatePatient(ctx context.Context, id int64, data map[string]any) (int64, error)
	CreateDoctor(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdateDoctor(ctx context.Context, id int64, data map[string]any) (int64, error)
	CreateConsultation(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdateConsultation(ctx context.Context, id int64, data map[string]any) (int64, error)
	CreateDiagnosis(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdateDiagnosis(ctx context.Context, id int64, data map[string]any) (int64, error)
	CreatePrescription(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdatePrescription(ctx context.Context, id int64, data map[string]any) (int64, error)
	CreateHealthMonitoring(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdateHealthMonitoring(ctx context.Context, id int64, data map[string]any) (int64, error)
	DiagnosisText(ctx context.Context, id int64) (string, error)
	PatientDetails(ctx context.Context, patientID int64) (*hospital.PatientDetails, error)
}

type HospitalHandler struct {
	Repo       HospitalRepo
	Rows       RowStore
	Apotek     *gateway.Client
	Statistics *gateway.Client
	Redis      *redis.Client
	Producer   *kafkax.Producer
	Service    string
}

var (
	patientFields      = []string{"name", "age", "address", "phone"}
	doctorFields       = []string{"name", "specialization"}
	consultationFields = []string{"patient_id", "doctor_id", "symptoms", "date"}
	diagnosisFields    = []string{"consultation_id", "diagnosis_text", "diagnosis_date"}
	prescriptionFields = []string{"diagnosis_id", "medicine_name", "dosage"}
	monitoringFields   = []string{"diagnosis_id", "kota_kejadian", "monitoring_date"}
)

func (h *HospitalHandler) Register(r *chi.Mux) {
	r.Get("/patients", handleGetAll(h.Rows, hospital.TablePatients))
	r.Post("/patients", handleCreate(patientFields, h.Repo.CreatePatient))
	r.Get("/patients/{id}", handleGetByID(h.Rows, hospital.TablePatients))
	r.Put("/patients/{id}", handleUpdate(h.Rows, hospital.TablePatients, patientFields, h.Repo.UpdatePatient))
	r.Delete("/patients/{id}", handleDelete(h.Rows, hospital.TablePatients))
	r.Get("/patients/{id}/details", h.patientDetails)

	r.Get("/doctors", handleGetAll(h.Rows, hospital.TableDoctors))
	r.Post("/doctors", handleCreate(doctorFields, h.Repo.CreateDoctor))
	r.Get("/doctors/{id}", handleGetByID(h.Rows, hospital.TableDoctors))
	r.Put("/doctors/{id}", handleUpdate(h.Rows, hospital.TableDoctors, doctorFields, h.Repo.UpdateDoctor))
	r.Delete("/doctors/{id}", handleDelete(h.Rows, hospital.TableDoctors))

	r.Get("/consultations", handleGetAll(h.Rows, hospital.TableConsultations))
	r.Post("/consultations", handleCreate(consultationFields, h.Repo.CreateConsultation))
	r.Get("/consultations/{id}", handleGetByID(h.Rows, hospital.TableConsultations))
	r.Put("/consultations/{id}", handleUpdate(h.Rows, hospital.TableConsultations, consultationFields, h.Repo.UpdateConsultation))
	r.Delete("/consultations/{id}", handleDelete(h.Rows, hospital.TableConsultations))

	r.Get("/diagnoses", handleGetAll(h.Rows, hospital.TableDiagnoses))
	r.Post("/diagnoses", handleCreate(diagnosisFields, h.Repo.CreateDiagnosis))
	r.Get("/diagnoses/{id}", handleGetByID(h.Rows, hospital.TableDiagnoses))
	r.Put("/diagnoses/{id}", handleUpdate(h.Rows, hospital.TableDiagnoses, diagnosisFields, h.Repo.UpdateDiagnosis))
	r.Delete("/diagnoses/{id}", handleDelete(h.Rows, hospital.TableDiagnoses))

	r.Get("/prescriptions", handleGetAll(h.Rows, hospital.TablePrescriptions))
	r.Post("/prescriptions", handleCreate(prescriptionFields, h.Repo.CreatePrescription))
	r.Get("/prescriptions/{id}", handleGetByID(h.Rows, hospital.TablePrescriptions))
	r.Put("/prescriptions/{id}", handleUpdate(h.Rows, hospital.TablePrescriptions, prescriptionFields, h.Repo.UpdatePrescription))
	r.Delete("/prescriptions/{id}", handleDelete(h.Rows, hospital.TablePrescriptions))

	r.Get("/health-monitorings", handleGetAll(h.Rows, hospital.TableHealthMonitorings))
	r.Post("/health-monitorings", h.createHealthMonitoring)
	r.Get("/health-monitorings/{id}", handleGetByID(h.Rows, hospital.TableHealthMonitorings))
	r.Put("/health-monitorings/{id}", handleUpdate(h.Rows, hospital.TableHealthMonitorings, monitoringFields, h.Repo.UpdateHealthMonitoring))
	r.Delete("/health-monitorings/{id}", handleDelete(h.Rows, hospital.TableHealthMonitorings))

	r.Get("/obat-from-apotek", handleProxy(h.Apotek, func(*http.Request) string { return "/obat" }))
	r.Get("/check-stock/{id}", h.checkStock)
	r.Get("/health-statistics", handleProxy(h.Statistics, func(*http.Request) string { return "/statistics" }))
}

func (h *HospitalHandler) patientDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()
	details, err := h.Repo.PatientDetails(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if details == nil {
		writeError(w, http.StatusNotFound, "Patient not found")
		return
	}
	writeSuccess(w, http.StatusOK, details)
}

// createHealthMonitoring persists the row, then reports the case to the
// statistics collaborator. The write is never rolled back: a failed report
// degrades the response to a warning that still carries the created record.
func (h *HospitalHandler) createHealthMonitoring(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeAndRequire(w, r, monitoringFields)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	diagnosisID := payload.Int(data, "diagnosis_id")
	text, err := h.Repo.DiagnosisText(ctx, diagnosisID)
	if err != nil {
		writeModelErr(w, err)
		return
	}
	record, err := h.Repo.CreateHealthMonitoring(ctx, data)
	if err != nil {
		writeModelErr(w, err)
		return
	}

	outcome := h.Statistics.ReportCase(r.Context(), text, payload.Str(data, "kota_kejadian"))
	h.publishCaseReported(r, record, diagnosisID, text, outcome.OK)

	if outcome.OK {
		writeSuccess(w, http.StatusCreated, map[string]any{
			"record": record,
			"report": outcome.Ack,
		})
		return
	}
	writeWarning(w, http.StatusCreated, outcome.Reason, record)
}

func (h *HospitalHandler) publishCaseReported(r *http.Request, record map[string]any, diagnosisID int64, text string, reported bool) {
	if h.Producer == nil {
		return
	}
	monitoringID := payload.Int(record, "id")
	ev := events.New(events.EventCaseReported, h.Service,
		r.Header.Get("X-Request-Id"), strconv.FormatInt(monitoringID, 10),
		hospital.CaseReportedPayload{
			MonitoringID:  monitoringID,
			DiagnosisID:   diagnosisID,
			DiagnosisText: text,
			KotaKejadian:  payload.Str(record, "kota_kejadian"),
			Reported:      reported,
		})
	h.Producer.Publish(events.PartitionKey(ev.CorrelationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventCaseReported)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// checkStock proxies the apotek stock endpoint with a short cache so repeated
// dashboard polls do not hammer the sibling service.
func (h *HospitalHandler) checkStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf(redisx.KeyStockProxy, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			writeRaw(w, http.StatusOK, []byte(s))
			return
		}
	}

	resp, err := h.Apotek.Get(r.Context(), fmt.Sprintf("/obat/%d/stock", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch from "+h.Apotek.Name())
		return
	}
	if !resp.OK() {
		if msg := resp.Message(); msg != "" {
			writeError(w, resp.StatusCode, msg)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch from "+h.Apotek.Name())
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Set(r.Context(), key, []byte(resp.Body), redisx.TTLProxyCache).Err()
	}
	writeRaw(w, resp.StatusCode, resp.Body)
}
