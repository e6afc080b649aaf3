package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"aquasphere/internal/sanitize"
	"aquasphere/internal/service"
)

const maxUploadSize = 5 << 20 // 5 MiB

func AdminStatsHandler(adminSvc *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := adminSvc.Stats(r.Context())
		if err != nil {
			slog.Error("admin stats failed", "error", err)
			fail(w, http.StatusInternalServerError, "Internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
	}
}

func AdminSettingsHandler(adminSvc *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := adminSvc.MaskedSettings(r.Context())
		if err != nil {
			slog.Error("admin settings failed", "error", err)
			fail(w, http.StatusInternalServerError, "Internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": settings})
	}
}

func AdminActivityHandler(adminSvc *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"activities": adminSvc.RecentActivity(r.Context()),
		})
	}
}

func AdminListProductsHandler(productSvc *service.ProductService) http.HandlerFunc {
	return ListProductsHandler(productSvc)
}

// productFormInput reads the sanitized product fields from a multipart form.
func productFormInput(r *http.Request) (service.ProductInput, error) {
	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil {
		price = decimal.Zero
	}
	in := service.ProductInput{
		Label:       sanitize.String(r.FormValue("label"), 255),
		Description: sanitize.String(r.FormValue("description"), 1000),
		Price:       price,
		Category:    sanitize.String(r.FormValue("category"), 100),
		Unit:        sanitize.String(r.FormValue("unit"), 50),
	}
	if in.Label == "" || in.Description == "" || in.Price.LessThanOrEqual(decimal.Zero) ||
		in.Category == "" || in.Unit == "" {
		return in, errors.New("all required fields must be filled")
	}
	return in, nil
}

func AddProductHandler(productSvc *service.ProductService, uploader *service.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			fail(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		in, err := productFormInput(r)
		if err != nil {
			fail(w, http.StatusBadRequest, "All required fields must be filled")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			fail(w, http.StatusBadRequest, "No image file provided")
			return
		}
		defer file.Close()

		imageURL, err := uploader.SaveProductImage(file, header)
		if err != nil {
			if errors.Is(err, service.ErrInvalidImageType) {
				fail(w, http.StatusBadRequest, "Invalid file type. Only JPG, PNG, GIF, and WEBP are allowed.")
				return
			}
			slog.Error("image upload failed", "error", err)
			fail(w, http.StatusInternalServerError, "Failed to upload image")
			return
		}
		in.ImageURL = imageURL

		product, err := productSvc.Add(r.Context(), in)
		if err != nil {
			slog.Error("add product failed", "error", err)
			fail(w, http.StatusInternalServerError, "Failed to add product to database")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"message":    "Product added successfully",
			"product_id": product.ID,
			"image_url":  product.ImageURL,
		})
	}
}

type updateProductRequest struct {
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
}

// UpdateProductHandler accepts either a multipart form (with an optional
// replacement image) or a plain JSON body.
func UpdateProductHandler(productSvc *service.ProductService, uploader *service.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			fail(w, http.StatusBadRequest, "Invalid product ID")
			return
		}

		var in service.ProductInput
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			if err := r.ParseMultipartForm(maxUploadSize); err != nil {
				fail(w, http.StatusBadRequest, "Invalid multipart form")
				return
			}
			in, err = productFormInput(r)
			if err != nil {
				fail(w, http.StatusBadRequest, "All required fields must be filled")
				return
			}
			if file, header, ferr := r.FormFile("image"); ferr == nil {
				defer file.Close()
				imageURL, uerr := uploader.SaveProductImage(file, header)
				if uerr != nil {
					if errors.Is(uerr, service.ErrInvalidImageType) {
						fail(w, http.StatusBadRequest, "Invalid file type. Only JPG, PNG, GIF, and WEBP are allowed.")
						return
					}
					slog.Error("image upload failed", "error", uerr)
					fail(w, http.StatusInternalServerError, "Failed to upload image")
					return
				}
				in.ImageURL = imageURL
			}
		} else {
			var req updateProductRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				fail(w, http.StatusBadRequest, "Invalid JSON")
				return
			}
			in = service.ProductInput{
				Label:       sanitize.String(req.Label, 255),
				Description: sanitize.String(req.Description, 1000),
				Price:       req.Price,
				Category:    sanitize.String(req.Category, 100),
				Unit:        sanitize.String(req.Unit, 50),
			}
		}

		if err := productSvc.Update(r.Context(), id, in); err != nil {
			if errors.Is(err, service.ErrProductNotFound) {
				fail(w, http.StatusNotFound, "Product not found")
				return
			}
			slog.Error("update product failed", "error", err)
			fail(w, http.StatusInternalServerError, "Failed to update product")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Product updated successfully"})
	}
}

func DeleteProductHandler(productSvc *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			fail(w, http.StatusBadRequest, "Invalid product ID")
			return
		}

		if err := productSvc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, service.ErrProductNotFound) {
				fail(w, http.StatusNotFound, "Product not found")
				return
			}
			slog.Error("delete product failed", "error", err)
			fail(w, http.StatusInternalServerError, "Failed to delete product")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Product deleted successfully"})
	}
}
