package documents

import (
	"net/http"

	commonhandler "record-store-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return commonhandler.DecodeJSON(w, r, dst)
}

func parseCSV(value string) []string {
	return commonhandler.ParseCSV(value)
}
