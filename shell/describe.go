package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/xiaobogaga/shardsql/ast"
)

func nHyphen(n int) string {
	buf := bytes.Buffer{}
	for i := 0; i < n; i++ {
		buf.WriteByte('-')
	}
	return buf.String()
}

// Return the maximum width of each column.
func columnsWidth(header []string, rows [][]string) []int {
	ret := make([]int, len(header))
	for i, name := range header {
		ret[i] = len(name)
	}
	for _, row := range rows {
		for i, value := range row {
			if len(value) > ret[i] {
				ret[i] = len(value)
			}
		}
	}
	return ret
}

// +-width-+
func writeSeparator(buf *bytes.Buffer, widths []int) {
	for _, width := range widths {
		buf.WriteString("+-")
		buf.WriteString(nHyphen(width))
		buf.WriteString("-")
	}
	buf.WriteString("+\n")
}

// + value +
func writeRow(buf *bytes.Buffer, widths []int, row []string) {
	for i, value := range row {
		buf.WriteString("+ ")
		buf.WriteString(fmt.Sprintf("%"+fmt.Sprintf("%ds", widths[i]), value))
		buf.WriteString(" ")
	}
	buf.WriteString("+\n")
}

// Print rows like:
// +--------+-----------+
// + column + sharding  +
// +--------+-----------+
// +     id +      true +
// +--------+-----------+
func writeTable(buf *bytes.Buffer, header []string, rows [][]string) {
	widths := columnsWidth(header, rows)
	writeSeparator(buf, widths)
	writeRow(buf, widths, header)
	writeSeparator(buf, widths)
	for _, row := range rows {
		writeRow(buf, widths, row)
	}
	writeSeparator(buf, widths)
}

func position(pos int) string {
	if pos < 0 {
		return "-"
	}
	return strconv.Itoa(pos)
}

// describe prints everything the parser found in sql.
func describe(w io.Writer, sql string, stm *ast.InsertStatement) {
	buf := bytes.Buffer{}
	buf.WriteString(fmt.Sprintf("table: %s\n", stm.TableName()))
	rows := make([][]string, 0, stm.Conditions.Len())
	for _, cond := range stm.Conditions.All() {
		rows = append(rows, []string{cond.Column.Name, ast.ExpressionString(cond.Expression), strconv.FormatBool(cond.ShardingColumn)})
	}
	if len(rows) == 0 && len(stm.Columns) > 0 {
		for _, col := range stm.Columns {
			rows = append(rows, []string{col.Name, "", ""})
		}
	}
	if len(rows) > 0 {
		writeTable(&buf, []string{"column", "value", "sharding"}, rows)
	}
	if stm.GeneratedKey != nil {
		buf.WriteString(fmt.Sprintf("generated key: %s\n", stm.GeneratedKey))
	} else {
		buf.WriteString("generated key: -\n")
	}
	buf.WriteString(fmt.Sprintf("columns end: %s, values end: %s\n",
		position(stm.ColumnsListLastPosition), position(stm.ValuesListLastPosition)))
	for _, token := range stm.SQLTokens {
		pos := token.BeginPosition()
		if pos < 0 {
			buf.WriteString(fmt.Sprintf("%s, no list to splice into\n", token))
			continue
		}
		buf.WriteString(fmt.Sprintf("%s at %q\n", token, sql[:pos]+"^"+sql[pos:]))
	}
	w.Write(buf.Bytes())
}
