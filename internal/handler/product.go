package handler

import (
	"log/slog"
	"net/http"

	"aquasphere/internal/service"
)

func ListProductsHandler(productSvc *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := productSvc.List(r.Context())
		if err != nil {
			slog.Error("list products failed", "error", err)
			fail(w, http.StatusInternalServerError, "Error loading products")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "products": products})
	}
}
