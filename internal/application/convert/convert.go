// Package convert reformats a drug-likeness text report into CSV: one row
// per compound, descriptor columns plus a pass/fail column per rule set.
// The report's block format is the stable input contract here; convert never
// recomputes descriptors or verdicts.
package convert

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"github.com/molsift/molsift/pkg/errors"
)

type record struct {
	fields map[string]string
	rules  map[string]bool // rule name -> passed
}

// Convert reads a full report from r and writes CSV rows to w.  Descriptor
// columns are the sorted union of every block's keys, so reports from
// differently configured runs still convert; rule columns follow in the
// order the report introduces them, holding "pass" or "fail".  Skip notes
// are not rows: a skipped compound never reached evaluation.
func Convert(r io.Reader, w io.Writer) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, errors.CodeReportParse, "reading report")
	}

	var records []*record
	var ruleOrder []string
	seenRule := map[string]bool{}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	for _, block := range strings.Split(strings.TrimSpace(text), "\n\n") {
		block = strings.TrimSpace(block)
		switch {
		case block == "" || strings.HasPrefix(block, "SKIPPED:"):
			continue
		case strings.HasPrefix(block, "Results for "):
			rec, err := matchResults(block, records)
			if err != nil {
				return err
			}
			for rule := range rec.rules {
				if !seenRule[rule] {
					seenRule[rule] = true
					ruleOrder = append(ruleOrder, rule)
				}
			}
		default:
			records = append(records, parseFieldBlock(block))
		}
	}

	return write(w, records, ruleOrder)
}

// parseFieldBlock parses "key: value" lines; lines without a colon are
// ignored, matching the tolerant reader this replaces.
func parseFieldBlock(block string) *record {
	rec := &record{fields: map[string]string{}, rules: map[string]bool{}}
	for _, line := range strings.Split(block, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		rec.fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return rec
}

// matchResults parses a "Results for <name>:" block and attaches the rule
// outcomes to the record carrying that name, searching the most recent
// record first.
func matchResults(block string, records []*record) (*record, error) {
	lines := strings.Split(block, "\n")
	name := strings.TrimSuffix(strings.TrimPrefix(lines[0], "Results for "), ":")

	var rec *record
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].fields["NAME"] == name {
			rec = records[i]
			break
		}
	}
	if rec == nil {
		return nil, errors.New(errors.CodeReportParse, "results block without a matching compound").
			WithDetail("name=" + name)
	}

	current := ""
	for _, line := range lines[1:] {
		if rule, ok := strings.CutSuffix(line, " Rules:"); ok {
			current = rule
			rec.rules[current] = true
			continue
		}
		body := strings.TrimPrefix(line, "\t")
		if current == "" || body == "No violations" {
			continue
		}
		rec.rules[current] = false
	}
	return rec, nil
}

func write(w io.Writer, records []*record, ruleOrder []string) error {
	fieldSet := map[string]bool{}
	for _, rec := range records {
		for key := range rec.fields {
			fieldSet[key] = true
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for key := range fieldSet {
		fields = append(fields, key)
	}
	sort.Strings(fields)

	header := append(append([]string{}, fields...), ruleOrder...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, errors.CodeReportSink, "writing csv header")
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, key := range fields {
			row[i] = rec.fields[key]
		}
		for i, rule := range ruleOrder {
			cell := ""
			if passed, known := rec.rules[rule]; known {
				cell = "fail"
				if passed {
					cell = "pass"
				}
			}
			row[len(fields)+i] = cell
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.CodeReportSink, "writing csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeReportSink, "flushing csv")
	}
	return nil
}
