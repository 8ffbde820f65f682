package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mvanetten/stock-portfolio-analytics/internal/api/request"
	"github.com/mvanetten/stock-portfolio-analytics/internal/parse"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
	"github.com/mvanetten/stock-portfolio-analytics/internal/validation"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionRepo *repository.TransactionRepository
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionRepo *repository.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{transactionRepo: transactionRepo}
}

// Transactions returns every stored transaction in date order.
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactionRepo.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load transactions", err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

// Create stores a new transaction. Numeric fields are strings and go through
// the same tolerant parse boundary as CSV rows, so a malformed field is a 400
// with the skip reason rather than a silent zero.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validation.ValidateInstrumentKey(req.InstrumentKey); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid instrument key", err)
		return
	}
	if err := validation.ValidateCurrency(req.Currency); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid currency", err)
		return
	}

	result := parse.ParseRow(parse.Row{
		Date:       req.Date,
		Stock:      req.InstrumentKey,
		Type:       req.Type,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Fees:       req.Fees,
		SplitRatio: req.SplitRatio,
	}, req.Currency)
	if !result.Ok() {
		respondError(w, http.StatusBadRequest, result.SkipReason, nil)
		return
	}

	tx := result.Transaction
	if err := h.transactionRepo.Insert(r.Context(), &tx); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store transaction", err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}
