package csv

import (
	"github.com/sirupsen/logrus"

	"github.com/shapestone/flowcsv/internal/tokenizer"
)

// Logger is the subset of logrus's API Reader needs to report
// BadLineModeWarn diagnostics. *logrus.Logger and *logrus.Entry both
// satisfy it.
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// defaultLogger is used when a Reader is constructed without an
// explicit Logger.
func defaultLogger() Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return log
}

func logBadField(log Logger, row, rawRow int64) {
	log.WithFields(logrus.Fields{
		"row":     row,
		"raw_row": rawRow,
	}).Warn("csv: malformed field, using best-effort value")
}

// badDataContextRow reads the row out of a tokenizer.BadDataContext for
// logging; kept as a tiny indirection so logging.go and reader.go agree
// on what gets logged without reader.go importing logrus directly.
func badDataContextRow(ctx tokenizer.BadDataContext) (row, rawRow int64) {
	return ctx.Row, ctx.RawRow
}
