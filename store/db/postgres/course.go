package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/store"
)

func (d *DB) CreateCourse(ctx context.Context, create *store.Course) (*store.Course, error) {
	fields := []string{"uid", "instructor_id", "title", "description", "category", "price_cents", "published"}
	args := []any{create.UID, create.InstructorID, create.Title, create.Description, create.Category, create.PriceCents, create.Published}

	stmt := `INSERT INTO course (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts, updated_ts, row_status`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
		&create.RowStatus,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create course")
	}
	return create, nil
}

func (d *DB) UpdateCourse(ctx context.Context, update *store.UpdateCourse) (*store.Course, error) {
	set, args := []string{}, []any{}
	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Category; v != nil {
		set, args = append(set, "category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.PriceCents; v != nil {
		set, args = append(set, "price_cents = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Published; v != nil {
		set, args = append(set, "published = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	args = append(args, update.ID)

	stmt := `UPDATE course SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, row_status, created_ts, updated_ts, instructor_id, title, description, category, price_cents, published`
	course := &store.Course{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&course.ID,
		&course.UID,
		&course.RowStatus,
		&course.CreatedTs,
		&course.UpdatedTs,
		&course.InstructorID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.PriceCents,
		&course.Published,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update course")
	}
	return course, nil
}

func (d *DB) ListCourses(ctx context.Context, find *store.FindCourse) ([]*store.Course, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "course.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "course.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.InstructorID; v != nil {
		where, args = append(where, "course.instructor_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "course.category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Published; v != nil {
		where, args = append(where, "course.published = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "course.row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(find.IDs) > 0 {
		where = append(where, idListCondition("course.id", find.IDs, &args))
	}

	query := `SELECT id, uid, row_status, created_ts, updated_ts, instructor_id, title, description, category, price_cents, published
		FROM course
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`
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
		return nil, errors.Wrap(err, "failed to query courses")
	}
	defer rows.Close()

	list := make([]*store.Course, 0)
	for rows.Next() {
		course := &store.Course{}
		if err := rows.Scan(
			&course.ID,
			&course.UID,
			&course.RowStatus,
			&course.CreatedTs,
			&course.UpdatedTs,
			&course.InstructorID,
			&course.Title,
			&course.Description,
			&course.Category,
			&course.PriceCents,
			&course.Published,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan course")
		}
		list = append(list, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteCourse(ctx context.Context, delete *store.DeleteCourse) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete course")
	}
	return nil
}
