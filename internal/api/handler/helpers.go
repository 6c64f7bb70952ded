package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// idParam parses an integer URL parameter.
func idParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
