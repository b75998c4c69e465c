package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/multierr"

	"github.com/katalvlaran/pcnroute/routing"
)

// csvHeader names the columns written by WriteCSV.
var csvHeader = []string{"success", "hops", "delay", "fee", "reason"}

// WriteCSV writes a header and one row per result.
func WriteCSV(w io.Writer, results []routing.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			strconv.FormatBool(r.Success),
			strconv.Itoa(r.Hops),
			strconv.FormatInt(r.Delay, 10),
			strconv.FormatInt(r.Fee, 10),
			r.Reason.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVPath returns the per-router output file for prefix, "<prefix>_<router>.csv".
func CSVPath(prefix, router string) string {
	return filepath.Clean(fmt.Sprintf("%s_%s.csv", prefix, router))
}

// WriteCSVFile creates path and writes results to it. Write and close errors
// are both reported.
func WriteCSVFile(path string, results []routing.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("metrics: create %s: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return WriteCSV(f, results)
}
