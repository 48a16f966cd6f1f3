// Package accessapi is a local stand-in for the access-control service,
// used to run the kiosk without the production endpoint.
package accessapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/cci-ingenieria/lectorqr/internal/log"
)

// ValidatePath is the route the kiosk posts plates to.
const ValidatePath = "/validar_placa/"

// Response messages.
const (
	AllowedMessage    = "Acceso permitido"
	UnknownMessage    = "Placa no registrada"
	BadRequestMessage = "Solicitud invalida"
)

type validateRequest struct {
	Plate string `json:"placa"`
}

type validateResponse struct {
	Message  string  `json:"mensaje"`
	Allowed  bool    `json:"permitido"`
	Location *string `json:"puesto"`
}

// NewRouter wires the service routes over store.
func NewRouter(store *Store) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc(ValidatePath, ValidateHandler(store)).Methods("POST")
	return r
}

// ValidateHandler answers plate validation requests.
func ValidateHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Plate) == "" {
			writeJSON(w, http.StatusBadRequest, validateResponse{Message: BadRequestMessage})
			return
		}

		resp := validateResponse{Message: UnknownMessage}
		if location, ok := store.Lookup(req.Plate); ok {
			resp.Message = AllowedMessage
			resp.Allowed = true
			if location != "" {
				resp.Location = &location
			}
		}
		log.Info("plate checked", "plate", req.Plate, "allowed", resp.Allowed)
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("write response", "error", err)
	}
}
