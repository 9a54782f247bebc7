package handlers

import (
	"errors"
	"net/http"
	"time"

	ruleRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/rule"
	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateRule stores a business rule after config validation against the
// registered rule kinds.
func (h *HandlerBundle) CreateRule(c *gin.Context) {
	var rule models.BusinessRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Evaluator.ValidateRule(&rule); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid rule config", err.Error())
		return
	}

	now := time.Now()
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := h.RuleRepo.Create(c.Request.Context(), &rule); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create rule", err.Error())
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ListRules returns all business rules.
func (h *HandlerBundle) ListRules(c *gin.Context) {
	rules, err := h.RuleRepo.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list rules", err.Error())
		return
	}
	c.JSON(http.StatusOK, rules)
}

// GetRule returns one business rule.
func (h *HandlerBundle) GetRule(c *gin.Context) {
	rule, err := h.RuleRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ruleRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "rule not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch rule", err.Error())
		return
	}
	c.JSON(http.StatusOK, rule)
}

// UpdateRule replaces a business rule, re-validating its config.
func (h *HandlerBundle) UpdateRule(c *gin.Context) {
	var rule models.BusinessRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	rule.ID = c.Param("id")

	if err := h.Evaluator.ValidateRule(&rule); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid rule config", err.Error())
		return
	}
	rule.UpdatedAt = time.Now()

	if err := h.RuleRepo.Update(c.Request.Context(), &rule); err != nil {
		if errors.Is(err, ruleRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "rule not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update rule", err.Error())
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeleteRule removes a business rule.
func (h *HandlerBundle) DeleteRule(c *gin.Context) {
	if err := h.RuleRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ruleRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "rule not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete rule", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}
