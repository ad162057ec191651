package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/store"
)

func (d *DB) CreateEnrollment(ctx context.Context, create *store.Enrollment) (*store.Enrollment, error) {
	stmt := `INSERT INTO enrollment (course_id, student_id)
		VALUES ($1, $2)
		RETURNING id, enrolled_ts`
	if err := d.db.QueryRowContext(ctx, stmt, create.CourseID, create.StudentID).Scan(
		&create.ID,
		&create.EnrolledTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create enrollment")
	}
	return create, nil
}

func (d *DB) UpdateEnrollment(ctx context.Context, update *store.UpdateEnrollment) (*store.Enrollment, error) {
	stmt := `UPDATE enrollment SET completed_ts = $1 WHERE id = $2
		RETURNING id, course_id, student_id, enrolled_ts, completed_ts`
	enrollment := &store.Enrollment{}
	if err := d.db.QueryRowContext(ctx, stmt, update.CompletedTs, update.ID).Scan(
		&enrollment.ID,
		&enrollment.CourseID,
		&enrollment.StudentID,
		&enrollment.EnrolledTs,
		&enrollment.CompletedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update enrollment")
	}
	return enrollment, nil
}

func (d *DB) ListEnrollments(ctx context.Context, find *store.FindEnrollment) ([]*store.Enrollment, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "enrollment.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CourseID; v != nil {
		where, args = append(where, "enrollment.course_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.StudentID; v != nil {
		where, args = append(where, "enrollment.student_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Completed; v != nil {
		if *v {
			where = append(where, "enrollment.completed_ts IS NOT NULL")
		} else {
			where = append(where, "enrollment.completed_ts IS NULL")
		}
	}
	if len(find.CourseIDs) > 0 {
		where = append(where, idListCondition("enrollment.course_id", find.CourseIDs, &args))
	}

	query := `SELECT id, course_id, student_id, enrolled_ts, completed_ts
		FROM enrollment
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY enrolled_ts DESC`
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
		return nil, errors.Wrap(err, "failed to query enrollments")
	}
	defer rows.Close()

	list := make([]*store.Enrollment, 0)
	for rows.Next() {
		enrollment := &store.Enrollment{}
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.CourseID,
			&enrollment.StudentID,
			&enrollment.EnrolledTs,
			&enrollment.CompletedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan enrollment")
		}
		list = append(list, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteEnrollment(ctx context.Context, delete *store.DeleteEnrollment) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM enrollment WHERE id = $1`, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete enrollment")
	}
	return nil
}
