package devgateway

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"shopstream/app/models"
	"shopstream/internal/gateway"
	"shopstream/pkg/validate"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	var rows []models.Product
	if err := s.db.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not list products")
		return
	}
	respondData(w, http.StatusOK, rows)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var draft models.ProductDraft
	if !decodeBody(w, r, &draft) {
		return
	}

	if errs := validate.Struct(draft); validate.HasErrors(errs) {
		respondError(w, http.StatusUnprocessableEntity, "validation", validate.First(errs))
		return
	}

	row := draft.Row()
	if err := s.db.Create(&row).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not create product")
		return
	}

	s.hub.broadcast(gateway.ChangeEvent{Table: "products", Type: "INSERT", ID: row.ID})
	respondData(w, http.StatusCreated, row)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in models.Product
	if !decodeBody(w, r, &in) {
		return
	}

	var row models.Product
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "could not load product")
		return
	}

	// Full-row replace: the caller resends every field. Identity and
	// creation time stay server-owned.
	in.ID = row.ID
	in.CreatedAt = row.CreatedAt
	in.Category = models.NormalizeCategory(in.Category)

	if err := s.db.Save(&in).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not update product")
		return
	}

	s.hub.broadcast(gateway.ChangeEvent{Table: "products", Type: "UPDATE", ID: in.ID})
	respondData(w, http.StatusOK, in)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res := s.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not delete product")
		return
	}

	if res.RowsAffected > 0 {
		s.hub.broadcast(gateway.ChangeEvent{Table: "products", Type: "DELETE", ID: uint(id)})
	}
	// Hard delete; a missing id deletes to the same end state.
	respondData(w, http.StatusOK, map[string]uint64{"id": id})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return 0, false
	}
	return id, true
}
