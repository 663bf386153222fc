package tokenizer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// readAll drains every record from src under cfg, returning each
// record's processed fields.
func readAll(t *testing.T, src string, cfg Config) [][]string {
	t.Helper()
	resolved, err := NewConfig(cfg)
	require.NoError(t, err)

	tok := New(strings.NewReader(src), resolved)
	var out [][]string
	for {
		ok, err := tok.NextRecord()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, tok.Record())
	}
	return out
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		in   string
		cfg  Config
		want [][]string
	}{
		{
			name: "simple record with CRLF",
			in:   "one,two,three\r\n",
			want: [][]string{{"one", "two", "three"}},
		},
		{
			name: "quoted fields",
			in:   "\"one\",\"two\",\"three\"\r\n",
			want: [][]string{{"one", "two", "three"}},
		},
		{
			name: "doubled quote escaping",
			in:   "1,\"two \"\" 2\",3\r\n",
			want: [][]string{{"1", "two \" 2", "3"}},
		},
		{
			name: "missing closing quote consumes rest of record",
			in:   "a,b,\"c\r\nd,e,f\r\n",
			want: [][]string{{"a", "b", "c\r\nd,e,f\r\n"}},
		},
		{
			name: "multi-char delimiter absent",
			in:   "1,2\r\n",
			cfg:  Config{Delimiter: []byte("!#")},
			want: [][]string{{"1,2"}},
		},
		{
			name: "multi-char delimiter false match",
			in:   "1!!#2\r\n",
			cfg:  Config{Delimiter: []byte("!#")},
			want: [][]string{{"1!", "2"}},
		},
		{
			name: "comment line skipped",
			in:   "# comment\r\n1,2\r\n",
			cfg:  Config{AllowComments: true, Comment: '#'},
			want: [][]string{{"1", "2"}},
		},
		{
			name: "blank line skipped",
			in:   "\r\n1,2\r\n",
			cfg:  Config{IgnoreBlankLines: true},
			want: [][]string{{"1", "2"}},
		},
		{
			name: "distinct escape character unfolds escaped quote",
			in:   "\"a\\\"b\",c\r\n",
			cfg:  Config{Escape: '\\'},
			want: [][]string{{`a"b`, "c"}},
		},
		{
			name: "refill mid-field and across delimiter",
			in:   "abcdefghijklmno,pqrs\r\n",
			cfg:  Config{BufferSize: 16},
			want: [][]string{{"abcdefghijklmno", "pqrs"}},
		},
		{
			name: "trailing empty field",
			in:   "a,b,\r\n",
			want: [][]string{{"a", "b", ""}},
		},
		{
			name: "all-empty record",
			in:   ",\r\n",
			want: [][]string{{"", ""}},
		},
		{
			name: "single empty field",
			in:   "\"\"\r\n",
			want: [][]string{{""}},
		},
		{
			name: "LF only",
			in:   "a,b\n",
			want: [][]string{{"a", "b"}},
		},
		{
			name: "CR only",
			in:   "a,b\r",
			want: [][]string{{"a", "b"}},
		},
		{
			name: "no trailing terminator",
			in:   "a,b",
			want: [][]string{{"a", "b"}},
		},
		{
			name: "mixed terminators",
			in:   "a,b\r\nc,d\nE,f\r",
			want: [][]string{{"a", "b"}, {"c", "d"}, {"E", "f"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, tt.in, tt.cfg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSequentialRefillAcrossSource(t *testing.T) {
	src := &appendableReader{data: []byte("1,2\r\n")}
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)

	tok := New(src, cfg)
	ok, err := tok.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"1", "2"}, tok.Record())

	src.data = append(src.data, []byte("3,4\r\n")...)
	ok, err = tok.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"3", "4"}, tok.Record())
}

// appendableReader serves data progressively, simulating a source whose
// tail grows between reads (e.g. a pipe or a tailed file): once drained
// it reports (0, nil) -- "nothing more right now" -- rather than
// io.EOF, so a later NextRecord call can observe data appended after
// the previous one returned.
type appendableReader struct {
	data []byte
	pos  int
}

func (r *appendableReader) Read(dst []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, nil
	}
	n := copy(dst, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func TestFieldCountDeterminismAcrossBufferSizes(t *testing.T) {
	in := "alpha,beta,\"gam,ma\"\r\none,two,three\r\n"
	var reference [][]string

	for size := 1; size <= 64; size++ {
		got := readAll(t, in, Config{BufferSize: size})
		if reference == nil {
			reference = got
		} else if diff := cmp.Diff(reference, got); diff != "" {
			t.Fatalf("buffer size %d diverged from reference (-want +got):\n%s", size, diff)
		}
	}
}

func TestByteCountInvariant(t *testing.T) {
	in := "a,b\r\nc,d,e\r\n"
	cfg, err := NewConfig(Config{CountBytes: true})
	require.NoError(t, err)

	tok := New(strings.NewReader(in), cfg)
	for {
		ok, err := tok.NextRecord()
		require.NoError(t, err)
		if !ok {
			break
		}
	}
	require.Equal(t, int64(len(in)), tok.ByteCount())
	require.Equal(t, int64(len(in)), tok.CharCount())
}

func TestRawRecordReassembly(t *testing.T) {
	in := "a,b\r\nc,\"d\ne\",f\r\ng,h"
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)

	tok := New(strings.NewReader(in), cfg)
	var rebuilt strings.Builder
	for {
		ok, err := tok.NextRecord()
		require.NoError(t, err)
		if !ok {
			break
		}
		rebuilt.WriteString(tok.RawRecord())
	}
	require.Equal(t, in, rebuilt.String())
}

func TestCounterMonotonicity(t *testing.T) {
	in := "a,b\r\nc,d\r\ne,f\r\n"
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)

	tok := New(strings.NewReader(in), cfg)
	var prevChar, prevRow, prevRawRow int64
	for {
		ok, err := tok.NextRecord()
		require.NoError(t, err)
		if !ok {
			break
		}
		require.GreaterOrEqual(t, tok.CharCount(), prevChar)
		require.GreaterOrEqual(t, tok.Row(), prevRow)
		require.GreaterOrEqual(t, tok.RawRow(), prevRawRow)
		prevChar, prevRow, prevRawRow = tok.CharCount(), tok.Row(), tok.RawRow()
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	tok := New(strings.NewReader("a,b\r\n"), cfg)

	require.NoError(t, tok.Close())
	require.NoError(t, tok.Close())
	require.NoError(t, tok.Close())
}

func TestBadDataCallback(t *testing.T) {
	var calls int
	cfg, err := NewConfig(Config{
		OnBadData: func(ctx BadDataContext) { calls++ },
	})
	require.NoError(t, err)

	tok := New(strings.NewReader("a,\"b\r\n"), cfg)
	ok, err := tok.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	_ = tok.Record()
	require.Equal(t, 1, calls)
}

func TestLineBreakInQuotedFieldIsBadData(t *testing.T) {
	var calls int
	cfg, err := NewConfig(Config{
		LineBreakInQuotedFieldIsBadData: true,
		OnBadData:                       func(ctx BadDataContext) { calls++ },
	})
	require.NoError(t, err)

	tok := New(strings.NewReader("\"a\nb\",c\r\n"), cfg)
	ok, err := tok.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	record := tok.Record()
	require.Equal(t, []string{"a\nb", "c"}, record)
	require.Equal(t, 1, calls)
}

func TestIgnoreQuotesDisablesLineBreakCheck(t *testing.T) {
	var calls int
	cfg, err := NewConfig(Config{
		IgnoreQuotes:                    true,
		LineBreakInQuotedFieldIsBadData: true,
		OnBadData:                       func(ctx BadDataContext) { calls++ },
	})
	require.NoError(t, err)

	tok := New(strings.NewReader("\"a\",b\r\n"), cfg)
	ok, err := tok.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"\"a\"", "b"}, tok.Record())
	require.Equal(t, 0, calls)
}
