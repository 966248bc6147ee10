package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mfalcon/shop-api/internal/httpx"
	"github.com/mfalcon/shop-api/internal/models"
	"github.com/mfalcon/shop-api/internal/services"
	"github.com/mfalcon/shop-api/internal/validation"
)

// OrderHandler delegates to the order workflow; it only parses input and
// shapes output.
type OrderHandler struct {
	Svc *services.OrderService
}

func NewOrderHandler(svc *services.OrderService) *OrderHandler { return &OrderHandler{Svc: svc} }

type orderInput struct {
	Date       string  `json:"date"`
	CustomerID uint    `json:"customer_id"`
	ProductIDs *[]uint `json:"product_ids"`
	Status     string  `json:"status"`
}

// orderResponse exposes the derived product-id set alongside the scalar
// fields; the association is never stored redundantly on the order row.
type orderResponse struct {
	ID         uint   `json:"id"`
	Date       string `json:"date"`
	CustomerID uint   `json:"customer_id"`
	Status     string `json:"status"`
	ProductIDs []uint `json:"product_ids"`
}

func toOrderResponse(o *models.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		Date:       o.Date.Format("2006-01-02"),
		CustomerID: o.CustomerID,
		Status:     o.Status,
		ProductIDs: o.ProductIDs(),
	}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input orderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	date := validation.DateYMD("date", input.Date, v)
	validation.PositiveInt("customer_id", int(input.CustomerID), v)
	if input.ProductIDs == nil {
		// an empty list is a legal degenerate order; a missing field is not
		v["product_ids"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	res, err := h.Svc.Place(r.Context(), services.PlaceInput{
		CustomerID: input.CustomerID,
		Date:       date,
		ProductIDs: *input.ProductIDs,
		Status:     input.Status,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"order":       toOrderResponse(&res.Order),
		"requested":   res.Requested,
		"associated":  res.Associated,
		"skipped_ids": res.SkippedIDs,
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Svc.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	items := make([]orderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	order, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, err := h.Svc.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": order.ID, "status": order.Status})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
