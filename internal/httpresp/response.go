package httpresp

import (
	"encoding/json"
	"net/http"
)

type corpoMensagem struct {
	Message string `json:"message"`
}

// JSON escreve o payload como JSON com o status informado.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Mensagem escreve um corpo {"message": ...}, usado tanto para erros
// quanto para confirmações.
func Mensagem(w http.ResponseWriter, status int, texto string) {
	JSON(w, status, corpoMensagem{Message: texto})
}
