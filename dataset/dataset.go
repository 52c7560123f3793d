// Package dataset reads analogy question sets and writes evaluation
// results in CSV form.
//
// Questions are rows of four fields (a, b, c, expected); the fourth field
// may be omitted for exploratory queries. Results echo the input columns
// and append the predicted token and the expected answer's rank, left
// empty for rows that failed or whose answer was not found.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/analogy"
)

// ReadQuestions parses an analogy question set.
// Blank rows and rows starting with "#" are skipped; rows with fewer than
// three fields are rejected with their row number.
func ReadQuestions(r io.Reader) ([]analogy.Query, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var queries []analogy.Query
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("row %d: expected at least 3 fields (a, b, c), got %d", row, len(record))
		}

		q := analogy.Query{
			A: strings.TrimSpace(record[0]),
			B: strings.TrimSpace(record[1]),
			C: strings.TrimSpace(record[2]),
		}
		if len(record) > 3 {
			q.Expected = strings.TrimSpace(record[3])
		}
		if q.A == "" || q.B == "" || q.C == "" {
			return nil, fmt.Errorf("row %d: empty query token", row)
		}
		queries = append(queries, q)
	}
	return queries, nil
}

// WriteResults writes one row per outcome: the input tokens followed by
// the predicted token and the expected answer's 1-based rank. The rank
// field is empty for NotFound, Invalid and failed rows; the finer
// distinction stays available on the Outcome itself.
func WriteResults(w io.Writer, outcomes []analogy.Outcome) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"a", "b", "c", "expected", "predicted", "rank"}); err != nil {
		return err
	}
	for _, o := range outcomes {
		rank := ""
		if o.Rank.Status == analogy.StatusFound {
			rank = strconv.Itoa(o.Rank.Rank)
		}
		record := []string{o.Query.A, o.Query.B, o.Query.C, o.Query.Expected, o.Predicted, rank}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
