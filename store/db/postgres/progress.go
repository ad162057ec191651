package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/store"
)

func (d *DB) UpsertProgress(ctx context.Context, upsert *store.UpsertProgress) (*store.Progress, error) {
	stmt := `INSERT INTO progress (enrollment_id, student_id, course_id, completed_items, total_items, updated_ts)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (enrollment_id) DO UPDATE SET
			completed_items = EXCLUDED.completed_items,
			total_items = EXCLUDED.total_items,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, enrollment_id, student_id, course_id, completed_items, total_items, updated_ts`
	progress := &store.Progress{}
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.EnrollmentID,
		upsert.StudentID,
		upsert.CourseID,
		upsert.CompletedItems,
		upsert.TotalItems,
		upsert.UpdatedTs,
	).Scan(
		&progress.ID,
		&progress.EnrollmentID,
		&progress.StudentID,
		&progress.CourseID,
		&progress.CompletedItems,
		&progress.TotalItems,
		&progress.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert progress")
	}
	return progress, nil
}

func (d *DB) ListProgress(ctx context.Context, find *store.FindProgress) ([]*store.Progress, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "progress.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.EnrollmentID; v != nil {
		where, args = append(where, "progress.enrollment_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.StudentID; v != nil {
		where, args = append(where, "progress.student_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CourseID; v != nil {
		where, args = append(where, "progress.course_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(find.CourseIDs) > 0 {
		where = append(where, idListCondition("progress.course_id", find.CourseIDs, &args))
	}

	query := `SELECT id, enrollment_id, student_id, course_id, completed_items, total_items, updated_ts
		FROM progress
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC`
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
		return nil, errors.Wrap(err, "failed to query progress")
	}
	defer rows.Close()

	list := make([]*store.Progress, 0)
	for rows.Next() {
		progress := &store.Progress{}
		if err := rows.Scan(
			&progress.ID,
			&progress.EnrollmentID,
			&progress.StudentID,
			&progress.CourseID,
			&progress.CompletedItems,
			&progress.TotalItems,
			&progress.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan progress")
		}
		list = append(list, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
