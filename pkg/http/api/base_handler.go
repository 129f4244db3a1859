package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	HeaderContentType = "Content-Type"
)

type MimeTypeParams map[string]string

var MimeTypeParamVersion = map[string]string{"version": "1.0"}
var MimeTypeReport = MimeType{Type: "application", Subtype: "vnd.xray.reporter.report+json", Params: MimeTypeParamVersion}
var MimeTypeRecords = MimeType{Type: "application", Subtype: "vnd.xray.reporter.records+json", Params: MimeTypeParamVersion}
var MimeTypeMetadata = MimeType{Type: "application", Subtype: "vnd.xray.reporter.metadata+json", Params: MimeTypeParamVersion}
var MimeTypeError = MimeType{Type: "application", Subtype: "vnd.xray.reporter.error", Params: MimeTypeParamVersion}
var MimeTypeHTML = MimeType{Type: "text", Subtype: "html", Params: map[string]string{"charset": "utf-8"}}

type MimeType struct {
	Type    string
	Subtype string
	Params  MimeTypeParams
}

func (mt MimeType) String() string {
	s := fmt.Sprintf("%s/%s", mt.Type, mt.Subtype)
	if len(mt.Params) == 0 {
		return s
	}
	params := make([]string, 0, len(mt.Params))
	for k, v := range mt.Params {
		params = append(params, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(params)
	return fmt.Sprintf("%s; %s", s, strings.Join(params, ";"))
}

// Error is written as {"error":{"message":"..."}}.
type Error struct {
	HTTPCode int    `json:"-"`
	Message  string `json:"message"`
}

type BaseHandler struct {
}

func (h *BaseHandler) WriteJSON(res http.ResponseWriter, data interface{}, mimeType MimeType, statusCode int) {
	res.Header().Set(HeaderContentType, mimeType.String())
	res.WriteHeader(statusCode)

	err := json.NewEncoder(res).Encode(data)
	if err != nil {
		log.WithError(err).Error("Error while writing JSON")
		h.SendInternalServerError(res)
		return
	}
}

func (h *BaseHandler) WriteJSONError(res http.ResponseWriter, err Error) {
	data := struct {
		Err Error `json:"error"`
	}{err}

	h.WriteJSON(res, data, MimeTypeError, err.HTTPCode)
}

func (h *BaseHandler) SendInternalServerError(res http.ResponseWriter) {
	http.Error(res, "Internal Server Error", http.StatusInternalServerError)
}
