package postgres

import (
	"fmt"
	"strings"
)

// placeholder returns a numbered placeholder for PostgreSQL ($1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n numbered placeholders.
func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// idListCondition renders "col IN ($i, $i+1, ...)" and appends the values to args.
func idListCondition(col string, ids []int32, args *[]any) string {
	marks := make([]string, 0, len(ids))
	for _, id := range ids {
		marks = append(marks, placeholder(len(*args)+1))
		*args = append(*args, id)
	}
	return col + " IN (" + strings.Join(marks, ", ") + ")"
}
