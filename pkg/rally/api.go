package rally

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/records"
	"rallytimesbot/pkg/standings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	PathPrefix     = "/api/rally"
	AdminKeyHeader = "X-Admin-Key"

	queryStage   = "tramo"
	querySeconds = "segundos"
)

type API struct {
	records  *records.Manager
	adminKey string
}

// NewAPI returns the rally endpoints. When adminKey is empty reset is not protected.
func NewAPI(rm *records.Manager, adminKey string) *API {
	return &API{
		records:  rm,
		adminKey: adminKey,
	}
}

// AddHandlers registers the routes on r. Reset must be registered before the
// driver routes so that "reset" is never taken for a driver name.
func (a *API) AddHandlers(r *mux.Router) {
	r.HandleFunc(PathPrefix, a.handleList).Methods(http.MethodGet)
	r.HandleFunc(PathPrefix, a.handleInsert).Methods(http.MethodPost)
	r.HandleFunc(PathPrefix+"/estadisticas", a.handleStats).Methods(http.MethodGet)
	r.HandleFunc(PathPrefix+"/tabla", a.handleTable).Methods(http.MethodGet)
	r.HandleFunc(PathPrefix+"/reset", a.handleReset).Methods(http.MethodDelete)
	r.HandleFunc(PathPrefix+"/{driver}/penalizar", a.handlePenalize).Methods(http.MethodPut)
	r.HandleFunc(PathPrefix+"/{driver}", a.handleRemove).Methods(http.MethodDelete)
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := a.records.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	jsonOK(w, list)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, ok, err := a.records.Stats(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !ok {
		jsonOK(w, message("Sin datos para analizar."))
		return
	}
	jsonOK(w, stats)
}

func (a *API) handleInsert(w http.ResponseWriter, r *http.Request) {
	var candidate model.StageRecord
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		jsonError(w, "Datos inválidos.", err, http.StatusBadRequest)
		return
	}

	inserted, err := a.records.Insert(r.Context(), candidate)
	if errors.Is(err, records.ErrDuplicate) {
		msg := fmt.Sprintf("%s ya tiene un tiempo registrado en %s. No se puede duplicar.", candidate.Driver, records.NormalizeStage(candidate.Stage))
		jsonError(w, msg, err, http.StatusConflict)
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	log.Printf("registered %s\n", inserted)
	jsonOK(w, message("Tiempo registrado correctamente."))
}

type penaltyResponse struct {
	Message        string  `json:"mensaje"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

func (a *API) handlePenalize(w http.ResponseWriter, r *http.Request) {
	driver := mux.Vars(r)["driver"]
	stage := records.NormalizeStage(r.URL.Query().Get(queryStage))

	seconds := 0.0
	if raw := r.URL.Query().Get(querySeconds); raw != "" {
		var err error
		seconds, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			jsonError(w, "Los segundos deben ser un número.", err, http.StatusBadRequest)
			return
		}
	}

	updated, err := a.records.Penalize(r.Context(), driver, stage, seconds)
	if errors.Is(err, records.ErrNotFound) {
		jsonError(w, fmt.Sprintf("No se encontró a %s en %s", driver, stage), err, http.StatusNotFound)
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	jsonOK(w, penaltyResponse{
		Message:        fmt.Sprintf("Penalización de %vs aplicada a %s. Nuevo tiempo: %v", seconds, updated.Driver, updated.ElapsedSeconds),
		ElapsedSeconds: updated.ElapsedSeconds,
	})
}

func (a *API) handleRemove(w http.ResponseWriter, r *http.Request) {
	driver := mux.Vars(r)["driver"]
	stage := r.URL.Query().Get(queryStage)

	_, err := a.records.Remove(r.Context(), driver, stage)
	if errors.Is(err, records.ErrNotFound) {
		jsonError(w, "Registro no encontrado.", err, http.StatusNotFound)
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	jsonOK(w, message("Eliminado correctamente."))
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := a.authorize(r); err != nil {
		jsonError(w, "Acceso denegado.", err, http.StatusUnauthorized)
		return
	}
	if err := a.records.Reset(r.Context()); err != nil {
		writeStoreError(w, err)
		return
	}
	log.Printf("records reset from %s\n", r.RemoteAddr)
	jsonOK(w, message("Base de datos reiniciada."))
}

func (a *API) authorize(r *http.Request) error {
	if a.adminKey == "" {
		return nil
	}
	got := r.Header.Get(AdminKeyHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(a.adminKey)) != 1 {
		return errors.Wrapf(records.ErrUnauthorized, "missing or wrong %s", AdminKeyHeader)
	}
	return nil
}

func (a *API) handleTable(w http.ResponseWriter, r *http.Request) {
	list, err := a.records.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var out string
	if stage := r.URL.Query().Get(queryStage); stage != "" {
		out = standings.RenderStage(list, stage)
	} else {
		out = standings.RenderAll(list)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, out)
}
