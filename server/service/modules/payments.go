package modules

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/server/mutation"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// RevenuePoint is one month of settled revenue.
type RevenuePoint struct {
	Month        string `json:"month"`
	RevenueCents int64  `json:"revenueCents"`
}

// PaymentService owns settled purchase records.
type PaymentService struct {
	store  *store.Store
	shared cache.Shared
	logger *slog.Logger
}

// ListByInstructor returns payments for the instructor's courses.
func (s *PaymentService) ListByInstructor(ctx context.Context, instructorID int32) ([]*store.Payment, error) {
	return s.store.ListPayments(ctx, &store.FindPayment{InstructorID: &instructorID})
}

// TotalRevenueCents sums settled revenue, marketplace-wide when instructorID
// is nil.
func (s *PaymentService) TotalRevenueCents(ctx context.Context, instructorID *int32) (int64, error) {
	payments, err := s.store.ListPayments(ctx, &store.FindPayment{InstructorID: instructorID})
	if err != nil {
		return 0, err
	}
	var total int64
	for _, p := range payments {
		total += p.AmountCents
	}
	return total, nil
}

// RevenueTrends buckets the last months of settled revenue by calendar month,
// oldest first. Months without payments still appear with zero revenue.
func (s *PaymentService) RevenueTrends(ctx context.Context, instructorID *int32, months int) ([]RevenuePoint, error) {
	if months <= 0 {
		months = 6
	}
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	after := start.Unix()

	payments, err := s.store.ListPayments(ctx, &store.FindPayment{
		InstructorID: instructorID,
		PaidTsAfter:  &after,
	})
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]int64, months)
	for i := 0; i < months; i++ {
		buckets[start.AddDate(0, i, 0).Format("2006-01")] = 0
	}
	for _, p := range payments {
		month := time.Unix(p.PaidTs, 0).Format("2006-01")
		if _, ok := buckets[month]; ok {
			buckets[month] += p.AmountCents
		}
	}

	points := make([]RevenuePoint, 0, len(buckets))
	for month, cents := range buckets {
		points = append(points, RevenuePoint{Month: month, RevenueCents: cents})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points, nil
}

// RecordPayment stores a settled purchase and records the activity.
func (s *PaymentService) RecordPayment(ctx context.Context, create *store.Payment) (*store.Payment, error) {
	if create.AmountCents <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	if create.PaidTs == 0 {
		create.PaidTs = time.Now().Unix()
	}

	payment, err := s.store.CreatePayment(ctx, create)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.CreateActivity(ctx, &store.Activity{
		UID:      shortuuid.New(),
		ActorID:  payment.StudentID,
		Kind:     store.ActivityPurchased,
		CourseID: payment.CourseID,
		Message:  "purchased a course",
	}); err != nil {
		s.logger.Warn("failed to record purchase activity", "course_id", payment.CourseID, "error", err)
	}

	s.applyEffects(ctx, mutation.RecordPayment)
	return payment, nil
}

func (s *PaymentService) applyEffects(ctx context.Context, name string) {
	applyEffects(ctx, name, s.store, s.shared, s.logger)
}
