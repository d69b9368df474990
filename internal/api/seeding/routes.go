package seeding

import "net/http"

// Route patterns.
const (
	AdminPattern  = "POST /api/admin/seed"
	PublicPattern = "POST /api/seed"
)

// RegisterRoutes registers both seed endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc(AdminPattern, h.Admin)
	mux.HandleFunc(PublicPattern, h.Public)
}
