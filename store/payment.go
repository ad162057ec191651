package store

import "context"

// Payment records a settled course purchase. The gateway that produced it is
// out of scope; only the settled record matters here.
type Payment struct {
	ID           int32
	CourseID     int32
	StudentID    int32
	InstructorID int32
	AmountCents  int64
	PaidTs       int64
}

// FindPayment is the find condition for payment.
type FindPayment struct {
	ID           *int32
	CourseID     *int32
	StudentID    *int32
	InstructorID *int32

	// PaidTsAfter filters to payments settled at or after the timestamp.
	PaidTsAfter *int64

	Limit  *int
	Offset *int
}

func (s *Store) CreatePayment(ctx context.Context, create *Payment) (*Payment, error) {
	return s.driver.CreatePayment(ctx, create)
}

func (s *Store) ListPayments(ctx context.Context, find *FindPayment) ([]*Payment, error) {
	return s.driver.ListPayments(ctx, find)
}
