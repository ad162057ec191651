package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/store"
)

func (d *DB) CreateActivity(ctx context.Context, create *store.Activity) (*store.Activity, error) {
	fields := []string{"uid", "actor_id", "kind", "course_id", "message"}
	args := []any{create.UID, create.ActorID, create.Kind, create.CourseID, create.Message}

	stmt := `INSERT INTO activity (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create activity")
	}
	return create, nil
}

func (d *DB) ListActivities(ctx context.Context, find *store.FindActivity) ([]*store.Activity, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ActorID; v != nil {
		where, args = append(where, "activity.actor_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CourseID; v != nil {
		where, args = append(where, "activity.course_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Kind; v != nil {
		where, args = append(where, "activity.kind = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(find.CourseIDs) > 0 {
		where = append(where, idListCondition("activity.course_id", find.CourseIDs, &args))
	}

	query := `SELECT id, uid, actor_id, kind, course_id, created_ts, message
		FROM activity
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
		return nil, errors.Wrap(err, "failed to query activities")
	}
	defer rows.Close()

	list := make([]*store.Activity, 0)
	for rows.Next() {
		activity := &store.Activity{}
		if err := rows.Scan(
			&activity.ID,
			&activity.UID,
			&activity.ActorID,
			&activity.Kind,
			&activity.CourseID,
			&activity.CreatedTs,
			&activity.Message,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan activity")
		}
		list = append(list, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
