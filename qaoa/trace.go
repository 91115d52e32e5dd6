package qaoa

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// WriteTrace writes the full optimisation trace as CSV, one row per cost
// function evaluation with the angle settings and resulting energy.
func (r *Result) WriteTrace(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader(len(r.Alpha))); err != nil {
		return errors.Wrap(err, "failed to write trace header")
	}
	for _, point := range r.Trace {
		if err := cw.Write(traceRow(point)); err != nil {
			return errors.Wrap(err, "failed to write trace row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush trace")
}

// WriteBest writes a single-row CSV holding the best angle settings found,
// the minimum energy and the algorithm that produced them.
func (r *Result) WriteBest(w io.Writer, opts Options) error {
	cw := csv.NewWriter(w)
	header := append(traceHeader(len(r.Alpha)), "p_success", "algorithm", "budget")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "failed to write result header")
	}
	row := traceRow(TracePoint{Alpha: r.Alpha, Beta: r.Beta, Energy: r.Energy})
	row = append(row, formatFloat(r.PSuccess), opts.Algorithm, strconv.Itoa(opts.Budget))
	if err := cw.Write(row); err != nil {
		return errors.Wrap(err, "failed to write result row")
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush result")
}

// WriteTraceFile is WriteTrace against a created file
func (r *Result) WriteTraceFile(path string) error {
	return writeCSVFile(path, r.WriteTrace)
}

// WriteBestFile is WriteBest against a created file
func (r *Result) WriteBestFile(path string, opts Options) error {
	return writeCSVFile(path, func(w io.Writer) error { return r.WriteBest(w, opts) })
}

func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create result file %q", path)
	}
	defer f.Close()
	return write(f)
}

func traceHeader(rounds int) []string {
	header := make([]string, 0, 2*rounds+1)
	for i := 0; i < rounds; i++ {
		header = append(header, fmt.Sprintf("alpha_%d", i))
	}
	for i := 0; i < rounds; i++ {
		header = append(header, fmt.Sprintf("beta_%d", i))
	}
	return append(header, "energy")
}

func traceRow(point TracePoint) []string {
	row := make([]string, 0, len(point.Alpha)+len(point.Beta)+1)
	for _, a := range point.Alpha {
		row = append(row, formatFloat(a))
	}
	for _, b := range point.Beta {
		row = append(row, formatFloat(b))
	}
	return append(row, formatFloat(point.Energy))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
