package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/store"
)

func (d *DB) CreatePayment(ctx context.Context, create *store.Payment) (*store.Payment, error) {
	fields := []string{"course_id", "student_id", "instructor_id", "amount_cents"}
	args := []any{create.CourseID, create.StudentID, create.InstructorID, create.AmountCents}
	if create.PaidTs != 0 {
		fields = append(fields, "paid_ts")
		args = append(args, create.PaidTs)
	}

	stmt := `INSERT INTO payment (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, paid_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.PaidTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create payment")
	}
	return create, nil
}

func (d *DB) ListPayments(ctx context.Context, find *store.FindPayment) ([]*store.Payment, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "payment.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CourseID; v != nil {
		where, args = append(where, "payment.course_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.StudentID; v != nil {
		where, args = append(where, "payment.student_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.InstructorID; v != nil {
		where, args = append(where, "payment.instructor_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.PaidTsAfter; v != nil {
		where, args = append(where, "payment.paid_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, course_id, student_id, instructor_id, amount_cents, paid_ts
		FROM payment
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY paid_ts DESC`
	if v := find.Limit; v != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *v)
		if v := find.Offset; v != nil {
			query += " OFFSET " + placeholder(len(args)+1)
			args = append(args, *v)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query payments")
	}
	defer rows.Close()

	list := make([]*store.Payment, 0)
	for rows.Next() {
		payment := &store.Payment{}
		if err := rows.Scan(
			&payment.ID,
			&payment.CourseID,
			&payment.StudentID,
			&payment.InstructorID,
			&payment.AmountCents,
			&payment.PaidTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan payment")
		}
		list = append(list, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
