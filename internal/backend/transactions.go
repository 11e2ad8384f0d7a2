package backend

import (
	"errors"
	"net/http"

	"admin-console/internal/models"
	"admin-console/internal/storage"

	"github.com/gin-gonic/gin"
)

type transactionRequest struct {
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Amount   *float64 `json:"amount" validate:"required,gte=0"`
	Discount *float64 `json:"discount" validate:"required,gte=0,lte=100"`
	Note     string   `json:"note" validate:"max=255"`
}

func (r transactionRequest) apply(t *models.Transaction) {
	t.Date = r.Date
	t.Amount = *r.Amount
	t.Discount = *r.Discount
	t.Total = models.ComputeTotal(t.Amount, t.Discount)
	t.Note = r.Note
}

// respondFieldValidation writes the {"errors": {field: [messages]}} 422 body.
func respondFieldValidation(c *gin.Context, errs []fieldError) {
	byField := make(map[string][]string, len(errs))
	for _, e := range errs {
		byField[e.Field] = append(byField[e.Field], e.Message)
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"errors":  byField,
	})
}

// bindTransaction decodes and validates the body, writing the error response
// itself when it returns false.
func bindTransaction(c *gin.Context) (transactionRequest, bool) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if errs := validateRequest(req); errs != nil {
		respondFieldValidation(c, errs)
		return req, false
	}
	return req, true
}

func (s *Server) listTransactions(c *gin.Context) {
	txs, err := s.store.ListTransactions(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	// Transactions are served as a bare array.
	c.JSON(http.StatusOK, txs)
}

func (s *Server) createTransaction(c *gin.Context) {
	req, ok := bindTransaction(c)
	if !ok {
		return
	}

	var t models.Transaction
	req.apply(&t)
	created, err := s.store.CreateTransaction(c.Request.Context(), &t)
	if err != nil {
		s.logger.Error("failed to create transaction", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Transaction not found")
		return
	}
	req, ok := bindTransaction(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	t, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load transaction", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	req.apply(t)
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		s.logger.Error("failed to update transaction", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Transaction not found")
		return
	}
	err := s.store.DeleteTransaction(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to delete transaction", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
