package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/Vincent-lau/schedbench/internal/harness"
	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// leading columns of a detail line before the metrics
const detailKeys = 3

// SummaryRow is one line of the summary CSV.
type SummaryRow struct {
	Scenario  string          `json:"scenario" yaml:"scenario"`
	TaskCount int             `json:"task_count" yaml:"task_count"`
	Average   model.MetricRow `json:"average" yaml:"average"`
	N         int             `json:"n" yaml:"n"`
}

func DetailHeader() []string {
	return append([]string{"scenario", "taskCount", "run"}, model.MetricNames...)
}

func SummaryHeader() []string {
	h := []string{"scenario", "taskCount"}
	for _, n := range model.MetricNames {
		r := []rune(n)
		r[0] = unicode.ToUpper(r[0])
		h = append(h, "avg"+string(r))
	}
	return h
}

func formatRow(m model.MetricRow) []string {
	out := make([]string, 0, model.MetricCount)
	for _, v := range m.Values() {
		out = append(out, strconv.FormatFloat(v, 'f', 10, 64))
	}
	return out
}

// Summaries lists the average row of every scenario that has one.
func Summaries(rep *harness.Report) []SummaryRow {
	var rows []SummaryRow
	for _, sr := range rep.Scenarios {
		if !sr.HasAverage {
			continue
		}
		rows = append(rows, SummaryRow{
			Scenario:  sr.Name,
			TaskCount: sr.TaskCount,
			Average:   sr.Average,
			N:         sr.N,
		})
	}
	return rows
}

// WriteDetail writes one line per successful trial.
func WriteDetail(w io.Writer, rep *harness.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DetailHeader()); err != nil {
		return errors.Wrap(err, "writing detail header")
	}

	for _, sr := range rep.Scenarios {
		for _, t := range sr.Trials {
			if t.Err != nil {
				continue
			}
			line := append([]string{sr.Name, strconv.Itoa(t.TaskCount), strconv.Itoa(t.Run)}, formatRow(t.Row)...)
			if err := cw.Write(line); err != nil {
				return errors.Wrap(err, "writing detail row")
			}
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing detail csv")
}

func WriteSummary(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader()); err != nil {
		return errors.Wrap(err, "writing summary header")
	}

	for _, r := range rows {
		line := append([]string{r.Scenario, strconv.Itoa(r.TaskCount)}, formatRow(r.Average)...)
		if err := cw.Write(line); err != nil {
			return errors.Wrap(err, "writing summary row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing summary csv")
}

// WriteFiles writes both CSV files under dir, creating it if needed, and
// returns their paths.
func WriteFiles(dir, detailName, summaryName string, rep *harness.Report) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", errors.Wrapf(err, "creating %s", dir)
	}

	detail := filepath.Join(dir, detailName)
	summary := filepath.Join(dir, summaryName)

	if err := writeFile(detail, func(w io.Writer) error { return WriteDetail(w, rep) }); err != nil {
		return "", "", err
	}
	if err := writeFile(summary, func(w io.Writer) error { return WriteSummary(w, Summaries(rep)) }); err != nil {
		return "", "", err
	}
	return detail, summary, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// SummarizeDetail recomputes the summary from a detail CSV. Blank lines,
// short lines and lines with a field that is not a finite number are skipped
// with a warning. Rows keep the order scenarios first appear in.
func SummarizeDetail(r io.Reader) ([]SummaryRow, error) {
	type key struct {
		scenario string
		count    int
	}
	var (
		order []key
		sums  = make(map[key][]float64)
		ns    = make(map[key]int)
	)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	for {
		parts, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			log.WithFields(log.Fields{"line": perr.Line, "error": err}).Warn("skipping malformed detail line")
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading detail csv")
		}

		line, _ := cr.FieldPos(0)
		if parts[0] == "scenario" {
			continue
		}
		if len(parts) < detailKeys+model.MetricCount {
			log.WithFields(log.Fields{"line": line}).Warn("skipping short detail line")
			continue
		}

		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			log.WithFields(log.Fields{"line": line, "error": err}).Warn("skipping malformed detail line")
			continue
		}

		vals := make([]float64, model.MetricCount)
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(strings.TrimSpace(parts[detailKeys+i]), 64); err != nil {
				break
			}
		}
		if err != nil {
			log.WithFields(log.Fields{"line": line, "error": err}).Warn("skipping malformed detail line")
			continue
		}
		if !model.RowFromValues(vals).Finite() {
			log.WithFields(log.Fields{"line": line}).Warn("skipping non-finite detail line")
			continue
		}

		k := key{scenario: strings.TrimSpace(parts[0]), count: count}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
			sums[k] = make([]float64, model.MetricCount)
		}
		for i, v := range vals {
			sums[k][i] += v
		}
		ns[k]++
	}

	rows := make([]SummaryRow, 0, len(order))
	for _, k := range order {
		avg := make([]float64, model.MetricCount)
		for i, s := range sums[k] {
			avg[i] = s / float64(ns[k])
		}
		rows = append(rows, SummaryRow{
			Scenario:  k.scenario,
			TaskCount: k.count,
			Average:   model.RowFromValues(avg),
			N:         ns[k],
		})
	}
	return rows, nil
}
