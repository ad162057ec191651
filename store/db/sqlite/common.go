package sqlite

import "strings"

// placeholder returns a placeholder for SQLite (uses ?).
func placeholder(int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite.
func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// idListCondition renders "col IN (?, ?, ...)" and appends the values to args.
func idListCondition(col string, ids []int32, args *[]any) string {
	marks := make([]string, 0, len(ids))
	for _, id := range ids {
		marks = append(marks, placeholder(len(*args)+1))
		*args = append(*args, id)
	}
	return col + " IN (" + strings.Join(marks, ", ") + ")"
}
