package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/mfalcon/shop-api/internal/httpx"
	"github.com/mfalcon/shop-api/internal/models"
	"github.com/mfalcon/shop-api/internal/store"
	"github.com/mfalcon/shop-api/internal/validation"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler { return &ProductHandler{DB: db} }

type productInput struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// Price is a pointer so a missing field and an explicit zero are told apart;
// zero is a legal price, absence is not.
func (in productInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if in.Price == nil {
		v["price"] = "required"
	} else {
		validation.NonNegativeFloat("price", *in.Price, v)
	}
	return v
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	product := models.Product{Name: input.Name, Price: *input.Price}
	if err := h.DB.WithContext(r.Context()).Create(&product).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := h.DB.WithContext(r.Context()).Order("id").Find(&products).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.DB.WithContext(r.Context()).First(&product, id).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var product models.Product
	if err := h.DB.WithContext(r.Context()).First(&product, id).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	product.Name = input.Name
	product.Price = *input.Price
	if err := h.DB.WithContext(r.Context()).Save(&product).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.DB.WithContext(r.Context()).Delete(&models.Product{}, id)
	if res.Error != nil {
		writeStoreError(w, store.Classify(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
