package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/mfalcon/shop-api/internal/httpx"
	"github.com/mfalcon/shop-api/internal/models"
	"github.com/mfalcon/shop-api/internal/services"
	"github.com/mfalcon/shop-api/internal/store"
	"github.com/mfalcon/shop-api/internal/validation"
)

// AccountHandler exposes CustomerAccount CRUD. Hashing and the optional
// customer link live in the account service; responses never carry the
// password hash (json:"-" on the model).
type AccountHandler struct {
	DB  *gorm.DB
	Svc *services.AccountService
}

func NewAccountHandler(db *gorm.DB, svc *services.AccountService) *AccountHandler {
	return &AccountHandler{DB: db, Svc: svc}
}

type accountInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	CustomerID *uint  `json:"customer_id"`
}

func (in accountInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("username", in.Username, v)
	validation.Required("password", in.Password, v)
	return v
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input accountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	account, err := h.Svc.Create(r.Context(), services.AccountInput{
		Username:   input.Username,
		Password:   input.Password,
		CustomerID: input.CustomerID,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	var accounts []models.CustomerAccount
	if err := h.DB.WithContext(r.Context()).Order("id").Find(&accounts).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": accounts, "total": len(accounts)})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var account models.CustomerAccount
	if err := h.DB.WithContext(r.Context()).First(&account, id).Error; err != nil {
		writeStoreError(w, store.Classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input accountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	account, err := h.Svc.Update(r.Context(), id, services.AccountInput{
		Username:   input.Username,
		Password:   input.Password,
		CustomerID: input.CustomerID,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.DB.WithContext(r.Context()).Delete(&models.CustomerAccount{}, id)
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
