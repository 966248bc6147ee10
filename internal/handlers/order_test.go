package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mfalcon/shop-api/internal/models"
	"github.com/mfalcon/shop-api/internal/services"
)

func newOrderFixture(t *testing.T) (*gorm.DB, *OrderHandler, models.Customer, models.Product, models.Product) {
	t.Helper()
	conn := setupTestDB(t)
	h := NewOrderHandler(services.NewOrderService(conn, nil, time.Second))
	customer := models.Customer{Name: "Ann", Email: "a@x.com", Phone: "555-0100"}
	require.NoError(t, conn.Create(&customer).Error)
	widget := models.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, conn.Create(&widget).Error)
	gadget := models.Product{Name: "Gadget", Price: 4.50}
	require.NoError(t, conn.Create(&gadget).Error)
	return conn, h, customer, widget, gadget
}

type placeResponse struct {
	Order struct {
		ID         uint   `json:"id"`
		Date       string `json:"date"`
		CustomerID uint   `json:"customer_id"`
		Status     string `json:"status"`
		ProductIDs []uint `json:"product_ids"`
	} `json:"order"`
	Requested  int    `json:"requested"`
	Associated int    `json:"associated"`
	SkippedIDs []uint `json:"skipped_ids"`
}

// Walks the full workflow: place with one unresolvable id, then transition
// the status, then fetch.
func TestOrderPlacementScenario(t *testing.T) {
	_, h, customer, widget, gadget := newOrderFixture(t)

	body := fmt.Sprintf(`{"date":"2024-01-01","customer_id":%d,"product_ids":[%d,%d,999]}`,
		customer.ID, widget.ID, gadget.ID)
	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(http.MethodPost, "/orders", body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var placed placeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	assert.Equal(t, "Pending", placed.Order.Status)
	assert.Equal(t, "2024-01-01", placed.Order.Date)
	assert.Equal(t, []uint{widget.ID, gadget.ID}, placed.Order.ProductIDs)
	assert.Equal(t, 3, placed.Requested)
	assert.Equal(t, 2, placed.Associated)
	assert.Equal(t, []uint{999}, placed.SkippedIDs)

	// Status moves to Shipped and is visible on the next fetch.
	w2 := httptest.NewRecorder()
	h.UpdateStatus(w2, idRequest(http.MethodPut, "/orders/1/status", `{"status":"Shipped"}`, placed.Order.ID))
	require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())

	w3 := httptest.NewRecorder()
	h.Get(w3, idRequest(http.MethodGet, "/orders/1", "", placed.Order.ID))
	require.Equal(t, http.StatusOK, w3.Code)
	var fetched map[string]any
	require.NoError(t, json.Unmarshal(w3.Body.Bytes(), &fetched))
	assert.Equal(t, "Shipped", fetched["status"])
}

func TestOrderEmptyStatusLeavesPriorStatus(t *testing.T) {
	_, h, customer, widget, _ := newOrderFixture(t)

	body := fmt.Sprintf(`{"date":"2024-01-01","customer_id":%d,"product_ids":[%d]}`, customer.ID, widget.ID)
	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(http.MethodPost, "/orders", body))
	require.Equal(t, http.StatusCreated, w.Code)
	var placed placeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))

	w2 := httptest.NewRecorder()
	h.UpdateStatus(w2, idRequest(http.MethodPut, "/orders/1/status", `{"status":""}`, placed.Order.ID))
	require.Equal(t, http.StatusBadRequest, w2.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp["error"])

	w3 := httptest.NewRecorder()
	h.Get(w3, idRequest(http.MethodGet, "/orders/1", "", placed.Order.ID))
	var fetched map[string]any
	require.NoError(t, json.Unmarshal(w3.Body.Bytes(), &fetched))
	assert.Equal(t, "Pending", fetched["status"])
}

func TestOrderValidation(t *testing.T) {
	_, h, customer, _, _ := newOrderFixture(t)

	// missing date, missing product_ids, zero customer_id — all reported
	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(http.MethodPost, "/orders", `{}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	details := resp["details"].(map[string]any)
	assert.Contains(t, details, "date")
	assert.Contains(t, details, "customer_id")
	assert.Contains(t, details, "product_ids")

	// malformed date
	body := fmt.Sprintf(`{"date":"01/02/2024","customer_id":%d,"product_ids":[]}`, customer.ID)
	w2 := httptest.NewRecorder()
	h.Create(w2, jsonRequest(http.MethodPost, "/orders", body))
	require.Equal(t, http.StatusBadRequest, w2.Code)
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_date", resp["details"].(map[string]any)["date"])
}

func TestOrderUnknownCustomerRejected(t *testing.T) {
	conn, h, _, widget, _ := newOrderFixture(t)

	body := fmt.Sprintf(`{"date":"2024-01-01","customer_id":42,"product_ids":[%d]}`, widget.ID)
	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(http.MethodPost, "/orders", body))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_reference", resp["error"])

	var count int64
	conn.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderEmptyProductListStillCreatesHeader(t *testing.T) {
	_, h, customer, _, _ := newOrderFixture(t)

	body := fmt.Sprintf(`{"date":"2024-01-01","customer_id":%d,"product_ids":[]}`, customer.ID)
	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(http.MethodPost, "/orders", body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed placeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	assert.Zero(t, placed.Associated)
	assert.Empty(t, placed.Order.ProductIDs)
}

func TestOrderDeleteRemovesAssociations(t *testing.T) {
	conn, h, customer, widget, gadget := newOrderFixture(t)

	body := fmt.Sprintf(`{"date":"2024-01-01","customer_id":%d,"product_ids":[%d,%d]}`,
		customer.ID, widget.ID, gadget.ID)
	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(http.MethodPost, "/orders", body))
	require.Equal(t, http.StatusCreated, w.Code)
	var placed placeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))

	w2 := httptest.NewRecorder()
	h.Delete(w2, idRequest(http.MethodDelete, "/orders/1", "", placed.Order.ID))
	require.Equal(t, http.StatusOK, w2.Code)

	var n int64
	require.NoError(t, conn.Table("order_products").Where("order_id = ?", placed.Order.ID).Count(&n).Error)
	assert.Zero(t, n)

	w3 := httptest.NewRecorder()
	h.Get(w3, idRequest(http.MethodGet, "/orders/1", "", placed.Order.ID))
	assert.Equal(t, http.StatusNotFound, w3.Code)
}

func TestOrderCustomStatusOnCreation(t *testing.T) {
	_, h, customer, widget, _ := newOrderFixture(t)

	body := fmt.Sprintf(`{"date":"2024-01-01","customer_id":%d,"product_ids":[%d],"status":"Rush"}`, customer.ID, widget.ID)
	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(http.MethodPost, "/orders", body))
	require.Equal(t, http.StatusCreated, w.Code)
	var placed placeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	assert.Equal(t, "Rush", placed.Order.Status)
}

func TestOrderList(t *testing.T) {
	_, h, customer, widget, gadget := newOrderFixture(t)

	for _, ids := range [][]uint{{widget.ID}, {widget.ID, gadget.ID}} {
		raw, _ := json.Marshal(ids)
		body := fmt.Sprintf(`{"date":"2024-01-01","customer_id":%d,"product_ids":%s}`, customer.ID, raw)
		w := httptest.NewRecorder()
		h.Create(w, jsonRequest(http.MethodPost, "/orders", body))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []placeResponse `json:"-"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}
