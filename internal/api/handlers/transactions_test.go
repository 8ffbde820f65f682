package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
	"github.com/mvanetten/stock-portfolio-analytics/internal/testutil"
)

// TestTransactionHandler_Create tests the POST boundary.
//
// WHY: API-submitted transactions must pass through the same tolerant parse
// boundary as CSV rows. A malformed numeric field is a 400 with the skip
// reason, identical to what the import report would say.
func TestTransactionHandler_Create(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *repository.TransactionRepository) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		return NewTransactionHandler(repo), repo
	}

	post := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return httptest.NewRecorder(), req
	}

	t.Run("creates a buy with prefixed amounts", func(t *testing.T) {
		handler, _ := setupHandler(t)
		w, req := post(`{
			"date": "2024-01-02",
			"instrumentKey": "NASDAQ:AAPL",
			"currency": "USD",
			"type": "buy",
			"quantity": "100",
			"price": "$1,234.56",
			"fees": "10"
		}`)

		handler.Create(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var tx model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&tx)

		if tx.ID == "" {
			t.Error("Expected an assigned ID")
		}
		if tx.Price != 1234.56 || tx.Quantity != 100 || tx.Fees != 10 {
			t.Errorf("Unexpected parsed values: %+v", tx)
		}
	})

	t.Run("creates a split from a ratio pair", func(t *testing.T) {
		handler, _ := setupHandler(t)
		w, req := post(`{
			"date": "2024-06-10",
			"instrumentKey": "NASDAQ:NVDA",
			"currency": "USD",
			"type": "split",
			"splitRatio": "10:1"
		}`)

		handler.Create(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var tx model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&tx)

		if tx.Type != model.TypeSplit || tx.SplitRatio != 10 {
			t.Errorf("Unexpected split: %+v", tx)
		}
	})

	t.Run("rejects malformed quantity with the skip reason", func(t *testing.T) {
		handler, _ := setupHandler(t)
		w, req := post(`{
			"date": "2024-01-02",
			"instrumentKey": "NASDAQ:AAPL",
			"currency": "USD",
			"type": "buy",
			"quantity": "many",
			"price": "150"
		}`)

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "quantity") {
			t.Errorf("Expected skip reason mentioning quantity, got %s", w.Body.String())
		}
	})

	t.Run("rejects malformed instrument key", func(t *testing.T) {
		handler, _ := setupHandler(t)
		w, req := post(`{
			"date": "2024-01-02",
			"instrumentKey": "AAPL",
			"currency": "USD",
			"type": "buy",
			"quantity": "1",
			"price": "150"
		}`)

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects malformed currency", func(t *testing.T) {
		handler, _ := setupHandler(t)
		w, req := post(`{
			"date": "2024-01-02",
			"instrumentKey": "NASDAQ:AAPL",
			"currency": "dollars",
			"type": "buy",
			"quantity": "1",
			"price": "150"
		}`)

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		handler, _ := setupHandler(t)
		w, req := post(`{not json`)

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestTransactionHandler_Transactions tests the list endpoint.
func TestTransactionHandler_Transactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTransactionHandler(repository.NewTransactionRepository(db))

	testutil.NewTransaction().Buy(10, 150).Build(t, db)
	testutil.NewTransaction().Sell(5, 160).Build(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	w := httptest.NewRecorder()

	handler.Transactions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var transactions []model.Transaction
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&transactions)

	if len(transactions) != 2 {
		t.Errorf("Expected 2 transactions, got %d", len(transactions))
	}
}
