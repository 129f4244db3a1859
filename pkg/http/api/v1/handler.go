package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
	"github.com/xray-reporter/kube-xray-reporter/pkg/http/api"
	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence"
	"github.com/xray-reporter/kube-xray-reporter/pkg/registry"
	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

const (
	pathAPIPrefix     = "/api/v1"
	pathMetadata      = "/metadata"
	pathLatestReport  = "/reports/latest"
	pathLatestRecords = "/reports/latest/records"
	pathLatestHTML    = "/reports/latest/html"
	pathReport        = "/reports/{report_id}"
	pathVarReportID   = "report_id"
	pathProbeHealthy  = "/probe/healthy"
	pathProbeReady    = "/probe/ready"
)

// RecordsQuery filters the records of the latest report.
type RecordsQuery struct {
	Namespace  string `schema:"namespace"`
	MinIssues  *int   `schema:"min_issues"`
	Resolution string `schema:"resolution"`
}

// RecordsResponse is the body of the records endpoint.
type RecordsResponse struct {
	ReportID string          `json:"report_id"`
	Records  []report.Record `json:"records"`
}

// Metadata describes the running reporter.
type Metadata struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	BuiltAt  string `json:"built_at"`
	Registry string `json:"registry"`
	XrayURL  string `json:"xray_url"`
}

type requestHandler struct {
	info     etc.BuildInfo
	config   etc.Config
	store    persistence.Store
	renderer report.Renderer
	decoder  *schema.Decoder
	api.BaseHandler
}

func NewAPIHandler(info etc.BuildInfo, config etc.Config, store persistence.Store, renderer report.Renderer) http.Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	handler := &requestHandler{
		info:     info,
		config:   config,
		store:    store,
		renderer: renderer,
		decoder:  decoder,
	}

	router := mux.NewRouter()
	v1Router := router.PathPrefix(pathAPIPrefix).Subrouter()

	v1Router.Methods(http.MethodGet).Path(pathMetadata).HandlerFunc(handler.GetMetadata)
	v1Router.Methods(http.MethodGet).Path(pathLatestReport).HandlerFunc(handler.GetLatestReport)
	v1Router.Methods(http.MethodGet).Path(pathLatestRecords).HandlerFunc(handler.GetLatestRecords)
	v1Router.Methods(http.MethodGet).Path(pathLatestHTML).HandlerFunc(handler.GetLatestHTML)
	v1Router.Methods(http.MethodGet).Path(pathReport).HandlerFunc(handler.GetReport)

	router.Methods(http.MethodGet).Path(pathProbeHealthy).HandlerFunc(handler.GetHealthy)
	router.Methods(http.MethodGet).Path(pathProbeReady).HandlerFunc(handler.GetReady)

	return router
}

func (h *requestHandler) GetMetadata(res http.ResponseWriter, _ *http.Request) {
	h.WriteJSON(res, Metadata{
		Version:  h.info.Version,
		Commit:   h.info.Commit,
		BuiltAt:  h.info.Date,
		Registry: h.config.Registry.Host,
		XrayURL:  h.config.Xray.URL,
	}, api.MimeTypeMetadata, http.StatusOK)
}

func (h *requestHandler) GetLatestReport(res http.ResponseWriter, req *http.Request) {
	latest, ok := h.latestReport(res, req)
	if !ok {
		return
	}
	h.WriteJSON(res, latest, api.MimeTypeReport, http.StatusOK)
}

func (h *requestHandler) GetReport(res http.ResponseWriter, req *http.Request) {
	reportID, ok := mux.Vars(req)[pathVarReportID]
	if !ok {
		log.Error("Error while parsing `report_id` path variable")
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusBadRequest,
			Message:  "missing report_id",
		})
		return
	}

	reqLog := log.WithField("report_id", reportID)

	r, err := h.store.Get(req.Context(), reportID)
	if err != nil {
		reqLog.WithError(err).Error("Error while getting report")
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusInternalServerError,
			Message:  fmt.Sprintf("getting report: %v", err),
		})
		return
	}

	if r == nil {
		reqLog.Debug("Cannot find report")
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusNotFound,
			Message:  fmt.Sprintf("cannot find report: %s", reportID),
		})
		return
	}

	h.WriteJSON(res, r, api.MimeTypeReport, http.StatusOK)
}

func (h *requestHandler) GetLatestRecords(res http.ResponseWriter, req *http.Request) {
	var query RecordsQuery
	if err := h.decoder.Decode(&query, req.URL.Query()); err != nil {
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("invalid query: %v", err),
		})
		return
	}

	var status registry.Status
	if query.Resolution != "" {
		var err error
		if status, err = registry.ParseStatus(query.Resolution); err != nil {
			h.WriteJSONError(res, api.Error{
				HTTPCode: http.StatusBadRequest,
				Message:  fmt.Sprintf("invalid query: %v", err),
			})
			return
		}
	}

	latest, ok := h.latestReport(res, req)
	if !ok {
		return
	}

	records := lo.Filter(latest.Records, func(rec report.Record, _ int) bool {
		if query.Namespace != "" && rec.Namespace != query.Namespace {
			return false
		}
		if query.Resolution != "" && rec.Resolution.Status != status {
			return false
		}
		if query.MinIssues != nil && (rec.IssueCount == nil || *rec.IssueCount < *query.MinIssues) {
			return false
		}
		return true
	})

	h.WriteJSON(res, RecordsResponse{
		ReportID: latest.ID,
		Records:  records,
	}, api.MimeTypeRecords, http.StatusOK)
}

func (h *requestHandler) GetLatestHTML(res http.ResponseWriter, req *http.Request) {
	latest, ok := h.latestReport(res, req)
	if !ok {
		return
	}

	buf := &bytes.Buffer{}
	if err := h.renderer.Render(buf, *latest); err != nil {
		log.WithError(err).Error("Error while rendering HTML report")
		h.SendInternalServerError(res)
		return
	}

	res.Header().Set(api.HeaderContentType, api.MimeTypeHTML.String())
	res.WriteHeader(http.StatusOK)
	_, _ = res.Write(buf.Bytes())
}

func (h *requestHandler) GetHealthy(res http.ResponseWriter, _ *http.Request) {
	res.WriteHeader(http.StatusOK)
}

// GetReady reports ready once at least one report pass has been stored.
func (h *requestHandler) GetReady(res http.ResponseWriter, req *http.Request) {
	latest, err := h.store.Latest(req.Context())
	if err != nil {
		log.WithError(err).Error("Error while checking readiness")
		res.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if latest == nil {
		res.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	res.WriteHeader(http.StatusOK)
}

func (h *requestHandler) latestReport(res http.ResponseWriter, req *http.Request) (*report.Report, bool) {
	latest, err := h.store.Latest(req.Context())
	if err != nil {
		log.WithError(err).Error("Error while getting latest report")
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusInternalServerError,
			Message:  fmt.Sprintf("getting latest report: %v", err),
		})
		return nil, false
	}
	if latest == nil {
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusNotFound,
			Message:  "no report has been generated yet",
		})
		return nil, false
	}
	return latest, true
}
