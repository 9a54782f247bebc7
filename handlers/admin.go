package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/services/quote"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/gin-gonic/gin"
)

// ListPendingQuotes returns quotes awaiting review.
func (h *HandlerBundle) ListPendingQuotes(c *gin.Context) {
	quotes, err := h.Quotes.ListPending(c.Request.Context())
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// ListQuotes returns all quotes with skip/limit paging.
func (h *HandlerBundle) ListQuotes(c *gin.Context) {
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	quotes, err := h.Quotes.List(c.Request.Context(), skip, limit)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// GetQuote returns a single quote.
func (h *HandlerBundle) GetQuote(c *gin.Context) {
	q, err := h.Quotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// EditQuote applies a partial admin edit; only the provided fields change.
func (h *HandlerBundle) EditQuote(c *gin.Context) {
	var changes models.QuoteChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	q, err := h.Quotes.Edit(c.Request.Context(), c.Param("id"), adminActor(c), changes)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// ApproveQuote approves a pending quote.
func (h *HandlerBundle) ApproveQuote(c *gin.Context) {
	var input struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&input)

	q, err := h.Quotes.Approve(c.Request.Context(), c.Param("id"), adminActor(c), input.Notes)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// RejectQuote rejects a quote with a reason.
func (h *HandlerBundle) RejectQuote(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	q, err := h.Quotes.Reject(c.Request.Context(), c.Param("id"), adminActor(c), input.Reason)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// SendQuoteToCustomer delivers an approved quote.
func (h *HandlerBundle) SendQuoteToCustomer(c *gin.Context) {
	q, err := h.Quotes.SendToCustomer(c.Request.Context(), c.Param("id"), adminActor(c))
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// QuoteAuditTrail returns the append-only audit entries of a quote, oldest
// first.
func (h *HandlerBundle) QuoteAuditTrail(c *gin.Context) {
	trail, err := h.Quotes.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, trail)
}

func adminActor(c *gin.Context) string {
	return "admin:" + c.GetString("userID")
}

func respondQuoteError(c *gin.Context, err error) {
	var doubleErr *quote.DoubleActionError
	var transErr *quote.TransitionError
	switch {
	case errors.Is(err, quote.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "quote not found", "")
	case errors.As(err, &doubleErr):
		utils.JSONError(c, http.StatusBadRequest, "action already performed", doubleErr.Error())
	case errors.As(err, &transErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid lifecycle transition", transErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "quote operation failed", err.Error())
	}
}
