package httphandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ifmais/storefront/internal/adapter/httphandler"
	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/ifmais/storefront/internal/core/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSnapshotRepo struct{}

func (nopSnapshotRepo) Load(context.Context) ([]domain.CartLine, error) {
	return nil, nil
}

func (nopSnapshotRepo) Save(context.Context, []domain.CartLine) error {
	return nil
}

type stubAddsViewer struct {
	adds int64
}

func (v stubAddsViewer) ProductAdds(string) (int64, error) {
	return v.adds, nil
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	catalog := domain.NewCatalog(
		[]domain.Product{
			{
				ID:       "1",
				Title:    "Brigadeiro Gourmet",
				Price:    decimal.RequireFromString("4.50"),
				Category: "doces",
			},
			{
				ID:       "3",
				Title:    "Trufa de Chocolate",
				Price:    decimal.RequireFromString("6.00"),
				Category: "doces",
			},
		},
		[]domain.Category{{ID: "doces", Name: "doces", Label: "Doces"}},
	)

	s := service.New(catalog, nopSnapshotRepo{}, nil, time.Minute)

	mux := http.NewServeMux()
	httphandler.RegisterCart(mux, s, s, s)
	httphandler.RegisterCheckout(mux, s)
	httphandler.RegisterCatalog(mux, s)
	httphandler.RegisterActivity(mux, stubAddsViewer{adds: 7})
	return mux
}

func doJSON(
	t *testing.T, mux *http.ServeMux, method, target, body string,
) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func decodeState(
	t *testing.T, w *httptest.ResponseRecorder,
) httphandler.CartState {
	t.Helper()
	var state httphandler.CartState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	return state
}

func TestGetCart(t *testing.T) {
	mux := newTestMux(t)

	w := doJSON(t, mux, http.MethodGet, "/v1/cart", "")

	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	assert.Empty(t, state.Lines)
	assert.Equal(t, "0.00", state.Total)
	assert.False(t, state.Open)
	assert.False(t, state.Notification.Visible)
}

func TestPostItem(t *testing.T) {
	t.Run("AddsProduct", func(t *testing.T) {
		mux := newTestMux(t)

		w := doJSON(t, mux, http.MethodPost, "/v1/cart/items",
			`{"product_id":"1"}`)

		require.Equal(t, http.StatusOK, w.Code)
		state := decodeState(t, w)
		require.Len(t, state.Lines, 1)
		assert.Equal(t, 1, state.Lines[0].Quantity)
		assert.Equal(t, "4.50", state.Lines[0].Subtotal)
		assert.Equal(t, "4.50", state.Total)
		require.True(t, state.Notification.Visible)
		assert.Equal(t, "Brigadeiro Gourmet", state.Notification.Product.Title)
	})

	t.Run("IncrementsExistingLine", func(t *testing.T) {
		mux := newTestMux(t)

		doJSON(t, mux, http.MethodPost, "/v1/cart/items", `{"product_id":"1"}`)
		w := doJSON(t, mux, http.MethodPost, "/v1/cart/items",
			`{"product_id":"1"}`)

		state := decodeState(t, w)
		require.Len(t, state.Lines, 1)
		assert.Equal(t, 2, state.Lines[0].Quantity)
		assert.Equal(t, "9.00", state.Total)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		mux := newTestMux(t)

		w := doJSON(t, mux, http.MethodPost, "/v1/cart/items",
			`{"product_id":"nope"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		mux := newTestMux(t)

		w := doJSON(t, mux, http.MethodPost, "/v1/cart/items", `{broken`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPatchItem(t *testing.T) {
	t.Run("SetsQuantity", func(t *testing.T) {
		mux := newTestMux(t)
		w := doJSON(t, mux, http.MethodPost, "/v1/cart/items",
			`{"product_id":"1"}`)
		lineID := decodeState(t, w).Lines[0].ID

		w = doJSON(t, mux, http.MethodPatch, "/v1/cart/items/"+lineID,
			`{"quantity":3}`)

		require.Equal(t, http.StatusOK, w.Code)
		state := decodeState(t, w)
		require.Len(t, state.Lines, 1)
		assert.Equal(t, 3, state.Lines[0].Quantity)
		assert.Equal(t, "13.50", state.Total)
	})

	t.Run("ZeroQuantityRemoves", func(t *testing.T) {
		mux := newTestMux(t)
		w := doJSON(t, mux, http.MethodPost, "/v1/cart/items",
			`{"product_id":"1"}`)
		lineID := decodeState(t, w).Lines[0].ID

		w = doJSON(t, mux, http.MethodPatch, "/v1/cart/items/"+lineID,
			`{"quantity":0}`)

		state := decodeState(t, w)
		assert.Empty(t, state.Lines)
		assert.Equal(t, "0.00", state.Total)
	})
}

func TestDeleteItem(t *testing.T) {
	t.Run("RemovesLine", func(t *testing.T) {
		mux := newTestMux(t)
		w := doJSON(t, mux, http.MethodPost, "/v1/cart/items",
			`{"product_id":"1"}`)
		lineID := decodeState(t, w).Lines[0].ID

		w = doJSON(t, mux, http.MethodDelete, "/v1/cart/items/"+lineID, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeState(t, w).Lines)
	})

	t.Run("UnknownLineIsNoop", func(t *testing.T) {
		mux := newTestMux(t)
		doJSON(t, mux, http.MethodPost, "/v1/cart/items", `{"product_id":"1"}`)

		w := doJSON(t, mux, http.MethodDelete, "/v1/cart/items/nope", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeState(t, w).Lines, 1)
	})
}

func TestCartCommands(t *testing.T) {
	t.Run("Clear", func(t *testing.T) {
		mux := newTestMux(t)
		doJSON(t, mux, http.MethodPost, "/v1/cart/items", `{"product_id":"1"}`)

		w := doJSON(t, mux, http.MethodPost, "/v1/cart/clear", "")

		state := decodeState(t, w)
		assert.Empty(t, state.Lines)
		assert.Equal(t, "0.00", state.Total)
	})

	t.Run("Toggle", func(t *testing.T) {
		mux := newTestMux(t)

		w := doJSON(t, mux, http.MethodPost, "/v1/cart/toggle", "")
		assert.True(t, decodeState(t, w).Open)

		w = doJSON(t, mux, http.MethodPost, "/v1/cart/toggle", "")
		assert.False(t, decodeState(t, w).Open)
	})

	t.Run("DismissNotification", func(t *testing.T) {
		mux := newTestMux(t)
		doJSON(t, mux, http.MethodPost, "/v1/cart/items", `{"product_id":"1"}`)

		w := doJSON(t, mux, http.MethodPost,
			"/v1/cart/notification/dismiss", "")

		assert.False(t, decodeState(t, w).Notification.Visible)
	})
}

func TestPostCheckout(t *testing.T) {
	t.Run("EmptyCart", func(t *testing.T) {
		mux := newTestMux(t)

		w := doJSON(t, mux, http.MethodPost, "/v1/checkout", "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("ComposesSummary", func(t *testing.T) {
		mux := newTestMux(t)
		doJSON(t, mux, http.MethodPost, "/v1/cart/items", `{"product_id":"1"}`)
		doJSON(t, mux, http.MethodPost, "/v1/cart/items", `{"product_id":"1"}`)
		doJSON(t, mux, http.MethodPost, "/v1/cart/items", `{"product_id":"3"}`)

		w := doJSON(t, mux, http.MethodPost, "/v1/checkout", "")

		require.Equal(t, http.StatusOK, w.Code)
		var summary httphandler.OrderSummary
		require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
		assert.Equal(t, "15.00", summary.Total)
		assert.Contains(t, summary.Summary, "Brigadeiro Gourmet x2")
		assert.Contains(t, summary.Summary, "Total: 15.00")
	})
}

func TestGetCatalog(t *testing.T) {
	mux := newTestMux(t)

	w := doJSON(t, mux, http.MethodGet, "/v1/catalog", "")

	require.Equal(t, http.StatusOK, w.Code)
	var catalog httphandler.Catalog
	require.NoError(t, json.NewDecoder(w.Body).Decode(&catalog))
	require.Len(t, catalog.Products, 2)
	assert.Equal(t, "4.50", catalog.Products[0].Price)
	require.Len(t, catalog.Categories, 1)
	assert.Equal(t, "Doces", catalog.Categories[0].Label)
}

func TestGetProductAdds(t *testing.T) {
	mux := newTestMux(t)

	w := doJSON(t, mux, http.MethodGet, "/v1/activity/1", "")

	require.Equal(t, http.StatusOK, w.Code)
	var adds httphandler.ProductAdds
	require.NoError(t, json.NewDecoder(w.Body).Decode(&adds))
	assert.Equal(t, "1", adds.ProductID)
	assert.Equal(t, int64(7), adds.Adds)
}

func TestAllowJSON(t *testing.T) {
	mux := newTestMux(t)
	handler := httphandler.AllowJSON(mux)

	r := httptest.NewRequest(http.MethodPost, "/v1/cart/items",
		strings.NewReader(`{"product_id":"1"}`))
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
