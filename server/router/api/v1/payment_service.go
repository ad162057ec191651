package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/server/middleware"
	"github.com/learnloop/learnloop/store"
)

type recordPaymentRequest struct {
	CourseUID   string `json:"courseUid"`
	AmountCents int64  `json:"amountCents"`
}

// RecordPayment stores a settled purchase for the calling student. Gateway
// integration lives elsewhere; by the time this is called the money moved.
// POST /api/v1/payments
func (s *APIV1Service) RecordPayment(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	if !principal.CanViewStudentDashboard() {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "only students record purchases"})
	}

	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request"})
	}

	ctx := c.Request().Context()
	course, err := s.Modules.Catalog.GetByUID(ctx, req.CourseUID)
	if err != nil {
		return errorResponse(c, err)
	}
	if course == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "course not found"})
	}

	payment, err := s.Modules.Payments.RecordPayment(ctx, &store.Payment{
		CourseID:     course.ID,
		StudentID:    principal.UserID,
		InstructorID: course.InstructorID,
		AmountCents:  req.AmountCents,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"paymentId":   payment.ID,
		"amountCents": payment.AmountCents,
	})
}
