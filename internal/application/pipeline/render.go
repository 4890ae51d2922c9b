package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/molsift/molsift/pkg/errors"
	"github.com/molsift/molsift/pkg/types/compound"
)

// writeBlock renders one compound's report block and pushes it to the sink.
// The block shape is a stable contract with downstream reformatters: NAME,
// the descriptors in documented order, a blank line, the per-rule results,
// and a terminating blank line.
func writeBlock(w io.Writer, rec *compound.DescriptorRecord, verdicts []compound.RuleVerdict) error {
	var sb strings.Builder
	sb.WriteString("NAME: ")
	sb.WriteString(rec.Name)
	sb.WriteByte('\n')
	for _, label := range compound.DescriptorOrder {
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(rec.FormatValue(label))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	fmt.Fprintf(&sb, "Results for %s:\n", rec.Name)
	for _, v := range verdicts {
		sb.WriteString(v.RuleName)
		sb.WriteString(" Rules:\n")
		if v.Passed() {
			sb.WriteString("\tNo violations\n")
			continue
		}
		for _, msg := range v.Violations {
			sb.WriteByte('\t')
			sb.WriteString(msg)
			sb.WriteByte('\n')
		}
	}
	sb.WriteByte('\n')

	return flushTo(w, sb.String())
}

// writeSkipNote emits the one-line note for a record the provider rejected,
// followed by the standard blank separator.
func writeSkipNote(w io.Writer, name, reason string) error {
	return flushTo(w, fmt.Sprintf("SKIPPED: %s (%s)\n\n", name, reason))
}

// flushTo writes s to the sink in a single call and flushes buffered sinks,
// so each completed block is durable before the next record is read.  Sink
// failures are fatal: partial output already written is not rolled back.
func flushTo(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return errors.Wrap(err, errors.CodeReportSink, "writing report block")
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, errors.CodeReportSink, "flushing report sink")
		}
	}
	return nil
}
