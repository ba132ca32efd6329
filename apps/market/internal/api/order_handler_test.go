package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/model"
)

const (
	testNFTContract         = "0x54a88333F6e7540eA982261301309048aC431eD5"
	testMarketplaceContract = "0x9656448941C76B79A39BC4ad68f6fb9F01181EC7"
)

type fakeOrderStore struct {
	orders    []model.Order
	createErr error
	listErr   error
	lastPage  int
	lastLimit int
}

func (f *fakeOrderStore) CreateOrder(order model.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	// Newest first, matching the repository's created_at DESC ordering
	f.orders = append([]model.Order{order}, f.orders...)
	return nil
}

func (f *fakeOrderStore) ListOrders(page, limit int) ([]model.Order, error) {
	f.lastPage = page
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}

	offset := (page - 1) * limit
	if offset >= len(f.orders) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.orders) {
		end = len(f.orders)
	}
	return f.orders[offset:end], nil
}

func (f *fakeOrderStore) GetOrderByID(id string) (*model.Order, error) {
	for _, order := range f.orders {
		if order.ID == id {
			found := order
			return &found, nil
		}
	}
	return nil, nil
}

type fakeOutbox struct {
	events []model.OutboxEvent
}

func (f *fakeOutbox) StoreOutboxEvent(event model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func newTestServer(t *testing.T, store *fakeOrderStore, outbox OutboxStore) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>client</html>"), 0o644); err != nil {
		t.Fatalf("Failed to write index.html: %v", err)
	}

	handler := NewOrderHandler(store, outbox, testNFTContract, testMarketplaceContract, zap.NewNop())
	server := NewServer(0, handler, staticDir, zap.NewNop())
	return server.setupRoutes()
}

func postOrder(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/order", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateOrder(t *testing.T) {
	store := &fakeOrderStore{}
	outbox := &fakeOutbox{}
	router := newTestServer(t, store, outbox)

	body := `{
		"tokenId": "42",
		"price": "1.5",
		"sellerAddress": "0xABCdef0000000000000000000000000000000001",
		"seaportOrder": {"parameters": {"offerer": "0xabc"}, "signature": "0x1234"},
		"orderHash": "0xdeadbeef"
	}`

	recorder := postOrder(t, router, body)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp CreateOrderResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Error("Expected success true")
	}
	if resp.Order.ID == "" {
		t.Error("Expected a generated order id")
	}
	if resp.Order.TokenID != "42" {
		t.Errorf("Expected tokenId 42, got %s", resp.Order.TokenID)
	}
	if resp.Order.Price != "1.5" {
		t.Errorf("Expected price 1.5, got %s", resp.Order.Price)
	}

	if len(store.orders) != 1 {
		t.Fatalf("Expected 1 stored order, got %d", len(store.orders))
	}

	stored := store.orders[0]
	if stored.Seller != "0xabcdef0000000000000000000000000000000001" {
		t.Errorf("Expected lower-cased seller, got %s", stored.Seller)
	}
	if !stored.OnChain {
		t.Error("Expected onChain true when orderHash is present")
	}
	if stored.NFTContract != testNFTContract {
		t.Errorf("Expected fixed nft contract, got %s", stored.NFTContract)
	}

	// The settlement payload must round-trip untouched
	var gotPayload, wantPayload interface{}
	if err := json.Unmarshal(stored.SeaportOrder, &gotPayload); err != nil {
		t.Fatalf("Stored payload is not valid JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"parameters": {"offerer": "0xabc"}, "signature": "0x1234"}`), &wantPayload); err != nil {
		t.Fatalf("Failed to unmarshal expected payload: %v", err)
	}
	got, _ := json.Marshal(gotPayload)
	want, _ := json.Marshal(wantPayload)
	if !bytes.Equal(got, want) {
		t.Errorf("Settlement payload changed: got %s, want %s", got, want)
	}

	if len(outbox.events) != 1 {
		t.Fatalf("Expected 1 outbox event, got %d", len(outbox.events))
	}
	if outbox.events[0].EventType != "order_created" {
		t.Errorf("Expected order_created event, got %s", outbox.events[0].EventType)
	}
}

func TestCreateOrderWithoutOrderHash(t *testing.T) {
	store := &fakeOrderStore{}
	router := newTestServer(t, store, nil)

	body := `{
		"tokenId": "7",
		"price": "0.25",
		"sellerAddress": "0xSELLER",
		"seaportOrder": {"parameters": {}}
	}`

	recorder := postOrder(t, router, body)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	if store.orders[0].OnChain {
		t.Error("Expected onChain false when orderHash is absent")
	}
	if store.orders[0].OrderHash != nil {
		t.Error("Expected nil orderHash")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "MissingTokenId",
			body: `{"price":"1","sellerAddress":"0xabc","seaportOrder":{"parameters":{}}}`,
		},
		{
			name: "MissingPrice",
			body: `{"tokenId":"1","sellerAddress":"0xabc","seaportOrder":{"parameters":{}}}`,
		},
		{
			name: "MissingSellerAddress",
			body: `{"tokenId":"1","price":"1","seaportOrder":{"parameters":{}}}`,
		},
		{
			name: "MissingSeaportOrder",
			body: `{"tokenId":"1","price":"1","sellerAddress":"0xabc"}`,
		},
		{
			name: "NullSeaportOrder",
			body: `{"tokenId":"1","price":"1","sellerAddress":"0xabc","seaportOrder":null}`,
		},
		{
			name: "InvalidJSON",
			body: `{`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := &fakeOrderStore{}
			router := newTestServer(t, store, nil)

			recorder := postOrder(t, router, test.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", recorder.Code)
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(recorder.Body).Decode(&errResp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if errResp.Success {
				t.Error("Expected success false")
			}
			if errResp.Error != "Missing parameters" {
				t.Errorf("Expected 'Missing parameters', got %q", errResp.Error)
			}
			if len(store.orders) != 0 {
				t.Errorf("Expected no stored orders, got %d", len(store.orders))
			}
		})
	}
}

func TestCreateOrderStoreFailure(t *testing.T) {
	store := &fakeOrderStore{createErr: errors.New("connection refused")}
	router := newTestServer(t, store, nil)

	body := `{"tokenId":"1","price":"1","sellerAddress":"0xabc","seaportOrder":{"parameters":{}}}`

	recorder := postOrder(t, router, body)
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", recorder.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "Server error" {
		t.Errorf("Expected generic 'Server error', got %q", errResp.Error)
	}
}

func TestListOrdersClamping(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		expectedPage  int
		expectedLimit int
	}{
		{name: "Defaults", query: "", expectedPage: 1, expectedLimit: 12},
		{name: "ZeroPage", query: "?page=0&limit=10", expectedPage: 1, expectedLimit: 10},
		{name: "NegativePage", query: "?page=-3", expectedPage: 1, expectedLimit: 12},
		{name: "ZeroLimit", query: "?limit=0", expectedPage: 1, expectedLimit: 1},
		{name: "NegativeLimit", query: "?limit=-5", expectedPage: 1, expectedLimit: 1},
		{name: "OversizedLimit", query: "?limit=500", expectedPage: 1, expectedLimit: 100},
		{name: "NonNumeric", query: "?page=abc&limit=xyz", expectedPage: 1, expectedLimit: 12},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := &fakeOrderStore{}
			router := newTestServer(t, store, nil)

			req := httptest.NewRequest(http.MethodGet, "/orders"+test.query, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", recorder.Code)
			}
			if store.lastPage != test.expectedPage {
				t.Errorf("Expected page %d, got %d", test.expectedPage, store.lastPage)
			}
			if store.lastLimit != test.expectedLimit {
				t.Errorf("Expected limit %d, got %d", test.expectedLimit, store.lastLimit)
			}
		})
	}
}

func TestCreateThenListReturnsNewestFirst(t *testing.T) {
	store := &fakeOrderStore{}
	router := newTestServer(t, store, nil)

	for _, tokenID := range []string{"1", "2", "3"} {
		body := `{"tokenId":"` + tokenID + `","price":"1","sellerAddress":"0xabc","seaportOrder":{"parameters":{}}}`
		if recorder := postOrder(t, router, body); recorder.Code != http.StatusOK {
			t.Fatalf("Failed to create order %s: status %d", tokenID, recorder.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/orders?page=1&limit=12", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var resp ListOrdersResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.Orders) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(resp.Orders))
	}
	if resp.Orders[0].TokenID != "3" {
		t.Errorf("Expected newest order first, got tokenId %s", resp.Orders[0].TokenID)
	}
}

func TestGetOrder(t *testing.T) {
	store := &fakeOrderStore{}
	router := newTestServer(t, store, nil)

	body := `{"tokenId":"9","price":"2","sellerAddress":"0xabc","seaportOrder":{"parameters":{}}}`
	recorder := postOrder(t, router, body)

	var created CreateOrderResponse
	if err := json.NewDecoder(recorder.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode create response: %v", err)
	}

	t.Run("Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders/"+created.Order.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var resp GetOrderResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Order.ID != created.Order.ID {
			t.Errorf("Expected order %s, got %s", created.Order.ID, resp.Order.ID)
		}
		if resp.Order.TokenID != "9" {
			t.Errorf("Expected tokenId 9, got %s", resp.Order.TokenID)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders/no-such-id", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", rec.Code)
		}

		var errResp ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}
		if errResp.Error != "Not found" {
			t.Errorf("Expected 'Not found', got %q", errResp.Error)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	router := newTestServer(t, &fakeOrderStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp["ok"] {
		t.Error("Expected ok true")
	}
}

func TestStaticFallback(t *testing.T) {
	router := newTestServer(t, &fakeOrderStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/collection/bears/42", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	if !bytes.Contains(recorder.Body.Bytes(), []byte("client")) {
		t.Errorf("Expected index.html fallback, got %q", recorder.Body.String())
	}
}
