// Package server exposes the time sheet over a small JSON API for a browser
// front end.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/trivial-time-sheet/internal/app"
	"github.com/Tiliavir/trivial-time-sheet/internal/report"
	"github.com/Tiliavir/trivial-time-sheet/internal/suggest"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
	"github.com/Tiliavir/trivial-time-sheet/internal/timesheet"
)

// renderReport is replaced in tests.
var renderReport = report.Render

// Server handles HTTP requests for one session.
type Server struct {
	session   *app.Session
	suggester suggest.Suggester
	labels    report.Labels
	log       logrus.FieldLogger
	router    *mux.Router
}

// New creates a server. suggester may be nil, in which case the suggestion
// endpoint answers 503.
func New(session *app.Session, suggester suggest.Suggester, lang string, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		session:   session,
		suggester: suggester,
		labels:    report.LabelsFor(lang),
		log:       log,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(withRequestLog(s.log))

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/employees", s.listEmployees).Methods(http.MethodGet)
	api.HandleFunc("/employees", s.addEmployee).Methods(http.MethodPost)
	api.HandleFunc("/employees/{name}", s.deleteEmployee).Methods(http.MethodDelete)

	month := "/employees/{name}/months/{year:[0-9]{4}}/{month:[0-9]{1,2}}"
	api.HandleFunc(month, s.getMonth).Methods(http.MethodGet)
	api.HandleFunc("/employees/{name}/entries", s.submitEntry).Methods(http.MethodPost)
	api.HandleFunc("/employees/{name}/entries/{year:[0-9]{4}}/{month:[0-9]{1,2}}/{day:[0-9]{1,2}}/{field}", s.setField).Methods(http.MethodPut)
	api.HandleFunc("/employees/{name}/entries/{id}", s.deleteEntry).Methods(http.MethodDelete)
	api.HandleFunc("/employees/{name}/reports/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.getReport).Methods(http.MethodGet)

	api.HandleFunc("/suggestions", s.suggest).Methods(http.MethodPost)
}

// Handler returns the full handler chain.
func (s *Server) Handler() http.Handler {
	return withCORS(s.router)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type employeeRequest struct {
	Name string `json:"name"`
}

type employeeResponse struct {
	Employee string `json:"employee"`
	Warning  string `json:"warning,omitempty"`
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"employees": s.session.Employees()})
}

func (s *Server) addEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := s.session.AddEmployee(r.Context(), req.Name)
	warning, err := splitPersist(err)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeResponse{Employee: name, Warning: warning})
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	warning, err := splitPersist(s.session.DeleteEmployee(r.Context(), name))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employeeResponse{Employee: name, Warning: warning})
}

type monthResponse struct {
	Employee     string           `json:"employee"`
	Year         int              `json:"year"`
	Month        int              `json:"month"`
	TotalMinutes int              `json:"total_minutes"`
	Total        string           `json:"total"`
	Days         []report.GridRow `json:"days"`
}

func (s *Server) getMonth(w http.ResponseWriter, r *http.Request) {
	name, year, month, err := monthVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, agg, err := s.session.Grid(name, year, month)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, monthResponse{
		Employee:     name,
		Year:         year,
		Month:        int(month),
		TotalMinutes: agg.TotalMinutes,
		Total:        timecalc.FormatDuration(agg.TotalMinutes),
		Days:         rows,
	})
}

type entryResponse struct {
	Entry   any    `json:"entry"`
	Warning string `json:"warning,omitempty"`
}

type fieldRequest struct {
	Value string `json:"value"`
}

func (s *Server) setField(w http.ResponseWriter, r *http.Request) {
	name, year, month, err := monthVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vars := mux.Vars(r)
	day, _ := strconv.Atoi(vars["day"])
	field, err := timesheet.ParseField(vars["field"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req fieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.session.SetField(r.Context(), name, year, month, day, field, req.Value)
	warning, err := splitPersist(err)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Entry: entry, Warning: warning})
}

func (s *Server) submitEntry(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var draft timesheet.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.session.Submit(r.Context(), name, draft)
	warning, err := splitPersist(err)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entryResponse{Entry: entry, Warning: warning})
}

type deleteResponse struct {
	Deleted string `json:"deleted"`
	Warning string `json:"warning,omitempty"`
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	warning, err := splitPersist(s.session.DeleteEntry(r.Context(), vars["name"], vars["id"]))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: vars["id"], Warning: warning})
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	name, year, month, err := monthVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format := report.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = report.ParseFormat(q); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	labels := s.labels
	if lang := r.URL.Query().Get("lang"); lang != "" {
		labels = report.LabelsFor(lang)
	}

	m, err := s.session.Report(name, year, month)
	if err != nil {
		s.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := renderReport(&buf, format, m, labels, false); err != nil {
		s.log.WithError(err).WithField("employee", name).Warn("report rendering failed")
		writeError(w, http.StatusInternalServerError, "report rendering failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == report.FormatPDF || format == report.FormatCSV {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="timesheet-%d-%02d.%s"`, year, int(month), format))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.WithError(err).Debug("writing report response")
	}
}

type suggestRequest struct {
	Keywords string `json:"keywords"`
}

type suggestResponse struct {
	SuggestedProjects []string `json:"suggestedProjects"`
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	if s.suggester == nil {
		writeError(w, http.StatusServiceUnavailable, suggest.ErrNoAPIKey.Error())
		return
	}
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	projects, err := s.suggester.Suggest(r.Context(), req.Keywords, s.session.Projects())
	switch {
	case errors.Is(err, suggest.ErrNoKeywords):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, suggest.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
		return
	case err != nil:
		s.log.WithError(err).Warn("project suggestion failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, suggestResponse{SuggestedProjects: projects})
}

// fail maps domain errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var verr *timesheet.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    timesheet.ErrValidation.Error(),
			"problems": verr.Problems,
		})
	case errors.Is(err, timesheet.ErrUnknownEmployee), errors.Is(err, timesheet.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, timesheet.ErrDuplicateEmployee):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// splitPersist turns a persistence failure into a warning: the change was
// applied and the request succeeds.
func splitPersist(err error) (string, error) {
	var perr *app.PersistError
	if errors.As(err, &perr) {
		return perr.Error(), nil
	}
	return "", err
}

func monthVars(r *http.Request) (string, int, time.Month, error) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	m, _ := strconv.Atoi(vars["month"])
	if m < 1 || m > 12 {
		return "", 0, 0, fmt.Errorf("month %d out of range", m)
	}
	return vars["name"], year, time.Month(m), nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
