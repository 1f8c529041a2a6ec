package mysql

import "strings"

const (
	reviewsTable   = "ba_reviews"
	countriesTable = "countries"
)

// CHECKSUM TABLE changes with any row change; Checksum is NULL for a missing table.
const checksumSQL = "CHECKSUM TABLE `" + reviewsTable + "`, `" + countriesTable + "`"

// primaryKeySQL lists a table's primary key columns in key order.
const primaryKeySQL = `
SELECT COLUMN_NAME
FROM information_schema.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY'
ORDER BY ORDINAL_POSITION
`

// selectAllSQL reads every column of table. Rows come in primary key order,
// which is the input order; without a primary key the storage order is used.
func selectAllSQL(table string, pk []string) string {
	q := "SELECT * FROM " + quoteIdent(table)
	if len(pk) == 0 {
		return q
	}
	cols := make([]string, len(pk))
	for i, c := range pk {
		cols[i] = quoteIdent(c)
	}
	return q + " ORDER BY " + strings.Join(cols, ", ")
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
