package csv

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderBasic(t *testing.T) {
	r := NewReader(strings.NewReader("a,b,c\nd,e,f\n"))

	rec, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, rec)

	rec, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, []string{"d", "e", "f"}, rec)

	_, err = r.Read()
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderReadAll(t *testing.T) {
	r := NewReader(strings.NewReader("a,b\nc,d\n"))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, records)
}

func TestReaderFieldsPerRecordEnforced(t *testing.T) {
	opts := DefaultReaderOptions()
	opts.FieldsPerRecord = 0

	r, err := NewReaderWithOptions(strings.NewReader("a,b\nc\n"), opts)
	require.NoError(t, err)

	_, err = r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.ErrorIs(t, pe.Err, ErrFieldCount)
}

func TestReaderBadLineModeError(t *testing.T) {
	opts := DefaultReaderOptions()
	opts.BadLineMode = BadLineModeError

	r, err := NewReaderWithOptions(strings.NewReader("a,\"b\n"), opts)
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.ErrorIs(t, pe.Err, ErrBadField)
}

func TestReaderBadLineModeSkip(t *testing.T) {
	opts := DefaultReaderOptions()
	opts.BadLineMode = BadLineModeSkip

	r, err := NewReaderWithOptions(strings.NewReader("a,\"b\n"), opts)
	require.NoError(t, err)

	rec, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b\n"}, rec)
}

func TestReaderCommentAndBlankLines(t *testing.T) {
	opts := DefaultReaderOptions()
	opts.Comment = '#'
	opts.IgnoreBlankLines = true

	r, err := NewReaderWithOptions(strings.NewReader("# header\n\n1,2\n"), opts)
	require.NoError(t, err)

	rec, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, rec)
}

func TestReaderLazyQuotes(t *testing.T) {
	opts := DefaultReaderOptions()
	opts.LazyQuotes = true

	r, err := NewReaderWithOptions(strings.NewReader(`"a",b`+"\n"), opts)
	require.NoError(t, err)

	rec, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, []string{`"a"`, "b"}, rec)
}

func TestOptionsErrorOnInvalidComma(t *testing.T) {
	opts := DefaultReaderOptions()
	opts.Comma = '\r'

	_, err := NewReaderWithOptions(strings.NewReader(""), opts)
	require.Error(t, err)
}
