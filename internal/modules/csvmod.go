package modules

import (
	"encoding/csv"
	"strings"

	"github.com/latch-lang/latch/internal/value"
)

func csvModule() *value.Dict {
	return dictOf(
		builtin("parse", 1, func(a []value.V) (value.V, error) {
			s, err := wantString(a, 0, "csv.parse")
			if err != nil {
				return nil, err
			}
			r := csv.NewReader(strings.NewReader(s))
			r.FieldsPerRecord = -1
			rows, readErr := r.ReadAll()
			if readErr != nil {
				return nil, parseErr("csv.parse: %s", readErr)
			}
			out := make([]value.V, len(rows))
			for i, row := range rows {
				cells := make([]value.V, len(row))
				for j, c := range row {
					cells[j] = value.String(c)
				}
				out[i] = value.NewList(cells)
			}
			return value.NewList(out), nil
		}),
		builtin("stringify", 1, func(a []value.V) (value.V, error) {
			rows, err := wantList(a, 0, "csv.stringify")
			if err != nil {
				return nil, err
			}
			var buf strings.Builder
			w := csv.NewWriter(&buf)
			for _, rowV := range rows.Items {
				row, ok := rowV.(*value.List)
				if !ok {
					return nil, typeErr("csv.stringify: every row must be a list")
				}
				rec := make([]string, len(row.Items))
				for j, cell := range row.Items {
					rec[j] = cell.String()
				}
				if writeErr := w.Write(rec); writeErr != nil {
					return nil, parseErr("csv.stringify: %s", writeErr)
				}
			}
			w.Flush()
			if w.Error() != nil {
				return nil, parseErr("csv.stringify: %s", w.Error())
			}
			return value.String(buf.String()), nil
		}),
	)
}
