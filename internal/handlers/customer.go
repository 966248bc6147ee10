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

type CustomerHandler struct {
	DB *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

type customerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (in customerInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Required("phone", in.Phone, v)
	validation.Email("email", in.Email, v)
	return v
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input customerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	customer := models.Customer{Name: input.Name, Email: input.Email, Phone: input.Phone}
	if err := h.DB.WithContext(r.Context()).Create(&customer).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	var customers []models.Customer
	if err := h.DB.WithContext(r.Context()).Order("id").Find(&customers).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers)})
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var customer models.Customer
	if err := h.DB.WithContext(r.Context()).First(&customer, id).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

// Update replaces the editable fields wholesale; partial updates are not a
// thing here.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input customerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var customer models.Customer
	if err := h.DB.WithContext(r.Context()).First(&customer, id).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	if err := h.DB.WithContext(r.Context()).Save(&customer).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

// Delete refuses to remove a customer that still owns orders; order history
// must be deleted explicitly first.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var owned int64
	if err := h.DB.WithContext(r.Context()).Model(&models.Order{}).Where("customer_id = ?", id).Count(&owned).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	if owned > 0 {
		httpx.JSONError(w, http.StatusConflict, "constraint_violation", map[string]any{"orders": owned})
		return
	}
	res := h.DB.WithContext(r.Context()).Delete(&models.Customer{}, id)
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
