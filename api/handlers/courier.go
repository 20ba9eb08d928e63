package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	er "github.com/courieros/courierstack/internal/errors"
	"github.com/courieros/courierstack/internal/repository"
	"github.com/courieros/courierstack/internal/tracing"
)

type CourierHandler struct {
	repos *repository.Repositories
}

func NewCourierHandler(repos *repository.Repositories) *CourierHandler {
	return &CourierHandler{repos: repos}
}

// MarkProcessed handles the self-service link embedded in reminder emails.
// GET /api/traiter?ref=<reference>
func (h *CourierHandler) MarkProcessed() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := tracing.StartTracerSpan(c.Request.Context(), "CourierHandler.MarkProcessed")
		defer span.Finish()
		tracing.TagComponentRest(span)

		reference := c.Query("ref")
		if reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "missing ref parameter",
			})
			return
		}
		tracing.TagReference(span, reference)

		if err := h.repos.CourierItemRepository.MarkProcessed(ctx, reference); err != nil {
			if errors.Is(err, er.ErrCourierItemNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error": "courier item not found",
				})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "could not update courier item",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Courrier " + reference + " marqué comme traité",
		})
	}
}
