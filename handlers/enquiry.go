package handlers

import (
	"errors"
	"net/http"

	"github.com/jabezgenics-alt/ezzo-sales/services/engine"
	"github.com/jabezgenics-alt/ezzo-sales/services/enquiry"
	"github.com/jabezgenics-alt/ezzo-sales/services/quote"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/gin-gonic/gin"
)

// CreateEnquiry opens a new enquiry from the customer's first message.
func (h *HandlerBundle) CreateEnquiry(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	reply, err := h.Enquiries.Create(c.Request.Context(), c.GetString("userID"), input.Message)
	if err != nil {
		respondEnquiryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// AnswerEnquiry submits one customer reply to an open enquiry.
func (h *HandlerBundle) AnswerEnquiry(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	reply, err := h.Enquiries.SubmitAnswer(c.Request.Context(), c.Param("id"), input.Message)
	if err != nil {
		respondEnquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// GetEnquiry returns an enquiry with its collected answers.
func (h *HandlerBundle) GetEnquiry(c *gin.Context) {
	enq, err := h.Enquiries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEnquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, enq)
}

// ListMyEnquiries returns the authenticated customer's enquiries.
func (h *HandlerBundle) ListMyEnquiries(c *gin.Context) {
	enquiries, err := h.Enquiries.ListByCustomer(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondEnquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, enquiries)
}

// EnquiryMessages returns the conversation transcript of an enquiry.
func (h *HandlerBundle) EnquiryMessages(c *gin.Context) {
	messages, err := h.Enquiries.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEnquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// PreviewDraft composes the current draft quote for a complete enquiry.
func (h *HandlerBundle) PreviewDraft(c *gin.Context) {
	draft, err := h.Enquiries.PreviewDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEnquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SubmitQuote persists a complete enquiry's draft for admin review.
func (h *HandlerBundle) SubmitQuote(c *gin.Context) {
	q, err := h.Enquiries.SubmitQuote(c.Request.Context(), c.Param("id"), "customer:"+c.GetString("userID"))
	if err != nil {
		respondEnquiryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func respondEnquiryError(c *gin.Context, err error) {
	var cfgErr *engine.ConfigurationError
	switch {
	case errors.Is(err, enquiry.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "enquiry not found", "")
	case errors.Is(err, enquiry.ErrNotComplete):
		utils.JSONError(c, http.StatusConflict, "enquiry incomplete", err.Error())
	case errors.Is(err, quote.ErrDraftNotSubmittable):
		utils.JSONError(c, http.StatusConflict, "draft not submittable", err.Error())
	case errors.As(err, &cfgErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, "service configuration error", cfgErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "enquiry operation failed", err.Error())
	}
}
