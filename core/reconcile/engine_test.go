package reconcile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"link-verifier/core/table"
	"link-verifier/core/throttle"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeResolver answers from a fixed table; unknown URLs fail.
type fakeResolver struct {
	meta  map[string]Metadata
	calls []string
}

func (f *fakeResolver) Resolve(ctx context.Context, videoURL string) (Metadata, error) {
	f.calls = append(f.calls, videoURL)
	if m, ok := f.meta[videoURL]; ok {
		return m, nil
	}
	return Metadata{}, errors.New("video not found")
}

type fakeProber struct {
	statuses map[string]string
	err      error
	calls    int
	closed   int
}

func (f *fakeProber) Probe(ctx context.Context, videoURL string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if s, ok := f.statuses[videoURL]; ok {
		return s, nil
	}
	return PlaybackOK, nil
}

func (f *fakeProber) Close() error {
	f.closed++
	return nil
}

// timedResolver records when each resolution started.
type timedResolver struct {
	*fakeResolver
	at []time.Time
}

func (r *timedResolver) Resolve(ctx context.Context, videoURL string) (Metadata, error) {
	r.at = append(r.at, time.Now())
	return r.fakeResolver.Resolve(ctx, videoURL)
}

type countingPacer struct {
	waits int
	err   error
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return p.err
}

type recordingSink struct {
	rows []table.Row
	err  error
}

func (s *recordingSink) Write(row table.Row) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, row.Clone())
	return nil
}

// failingSource fails after yielding its rows.
type failingSource struct {
	rows []table.Row
	err  error
}

func (s *failingSource) Next() (table.Row, error) {
	if len(s.rows) == 0 {
		return table.Row{}, s.err
	}
	r := s.rows[0]
	s.rows = s.rows[1:]
	return r, nil
}

func mustReader(t *testing.T, csv string) *table.Reader {
	t.Helper()
	r, err := table.NewReader(strings.NewReader(csv))
	require.NoError(t, err)
	return r
}

func defaultResolver() *fakeResolver {
	return &fakeResolver{meta: map[string]Metadata{
		"https://youtu.be/abc": {Title: "New Title", Author: "Chan"},
		"https://youtu.be/def": {Title: "Second Video", Author: "Chan"},
		"https://youtu.be/xyz": {Title: "Other", Author: "Band"},
	}}
}

// runToCSV runs the input through a Runner and returns the written table.
func runToCSV(t *testing.T, input string, resolver Resolver, opts Options) (string, *Summary) {
	t.Helper()
	in := mustReader(t, input)

	var buf bytes.Buffer
	out, err := table.NewWriter(&buf, OutputColumns(in.Columns()))
	require.NoError(t, err)

	summary, err := NewRunner(resolver, nil, nil, zap.NewNop(), opts).Run(context.Background(), in, out)
	require.NoError(t, err)
	require.NoError(t, out.Close())
	return buf.String(), summary
}

func TestRunner_GoldenOutput(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("update_run", func(t *testing.T) {
		input := "Card#,URL,Notes\n" +
			"1,https://youtu.be/abc,first\n" +
			"2,https://youtu.be/gone,second\n" +
			"3,https://youtu.be/xyz,third\n"

		got, summary := runToCSV(t, input, defaultResolver(), Options{StartRow: 1})
		g.Assert(t, "update_run", []byte(got))

		assert.Equal(t, 0, summary.Matches)
		assert.Equal(t, 2, summary.Mismatches)
		assert.Equal(t, 1, summary.Errors)
		assert.Equal(t, 2, summary.Updated)
	})

	t.Run("range_row_two", func(t *testing.T) {
		input := "Card#,URL,Youtube-Title,Hashed Info\n" +
			"1,https://youtu.be/abc,New Title," + Fingerprint("New Title", "Chan") + "\n" +
			"2,https://youtu.be/def,,\n"

		resolver := defaultResolver()
		got, summary := runToCSV(t, input, resolver, Options{StartRow: 2, EndRow: 2})
		g.Assert(t, "range_row_two", []byte(got))

		assert.Equal(t, []string{"https://youtu.be/def"}, resolver.calls)
		assert.Equal(t, 1, summary.Processed)
		assert.Equal(t, 1, summary.Mismatches)
	})
}

func TestRunner_StaleRowScenario(t *testing.T) {
	in := mustReader(t, "Card#,URL,Youtube-Title,Hashed Info\n1,https://youtu.be/abc,Old Title,stale\n")
	sink := &recordingSink{}

	summary, err := NewRunner(defaultResolver(), nil, nil, nil, Options{StartRow: 1}).Run(context.Background(), in, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Mismatches)
	assert.Equal(t, 0, summary.Matches)
	require.Len(t, sink.rows, 1)
	assert.Equal(t, "New Title", sink.rows[0].Get(ColumnTitle))
	assert.Equal(t, "1d20b39d7e283da79562063aeee1374d128080a7b5996c96e51b07811a90bb58", sink.rows[0].Get(ColumnFingerprint))

	require.Len(t, summary.Outcomes, 1)
	o := summary.Outcomes[0]
	assert.Equal(t, StatusMismatch, o.Status)
	assert.Equal(t, "Old Title", o.StoredTitle)
	assert.Equal(t, "New Title", o.Title)
	assert.True(t, o.Updated)
}

func TestRunner_ResolutionFailure(t *testing.T) {
	in := mustReader(t, "Card#,URL\n1,https://youtu.be/gone\n2,https://youtu.be/abc\n")
	sink := &recordingSink{}
	core, logs := observer.New(zapcore.InfoLevel)

	summary, err := NewRunner(defaultResolver(), nil, nil, zap.New(core), Options{StartRow: 1}).Run(context.Background(), in, sink)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Matches)
	assert.Equal(t, 1, summary.Mismatches, "only the second row is accounted")
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.ExitCode(false))

	require.Len(t, sink.rows, 2)
	assert.Equal(t, ErrorTitle, sink.rows[0].Get(ColumnTitle))
	assert.Equal(t, "New Title", sink.rows[1].Get(ColumnTitle))

	assert.Equal(t, StatusError, summary.Outcomes[0].Status)
	assert.Equal(t, "video not found", summary.Outcomes[0].Reason)
	assert.Equal(t, 1, logs.FilterMessage("Error processing video").Len())
}

func TestRunner_MissingURLColumn(t *testing.T) {
	in := mustReader(t, "Card#\n1\n")
	resolver := defaultResolver()

	summary, err := NewRunner(resolver, nil, nil, nil, Options{StartRow: 1}).Run(context.Background(), in, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{""}, resolver.calls)
	assert.Equal(t, 1, summary.Errors)
}

func TestRunner_CheckOnlyNeverMutates(t *testing.T) {
	input := "Card#,URL,Youtube-Title,Hashed Info\n" +
		"1,https://youtu.be/abc,Old Title,stale\n" +
		"2,https://youtu.be/gone,Kept,kept\n" +
		"3,https://youtu.be/xyz,Other," + Fingerprint("Other", "Band") + "\n"

	src := mustReader(t, input)
	var rows []table.Row
	for {
		r, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		rows = append(rows, r)
	}
	before := make([]table.Row, len(rows))
	for i := range rows {
		before[i] = rows[i].Clone()
	}

	source := &failingSource{rows: rows, err: io.EOF}
	sink := &recordingSink{}
	summary, err := NewRunner(defaultResolver(), nil, nil, nil, Options{StartRow: 1, CheckOnly: true}).Run(context.Background(), source, sink)
	require.NoError(t, err)

	assert.Empty(t, sink.rows, "check-only never writes")
	assert.Equal(t, before, rows)
	assert.Equal(t, 1, summary.Matches)
	assert.Equal(t, 1, summary.Mismatches)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 1, summary.ExitCode(true))
}

func TestRunner_Idempotent(t *testing.T) {
	input := "Card#,URL,Notes\n" +
		"1,https://youtu.be/abc,first\n" +
		"2,https://youtu.be/def,second\n" +
		"3,https://youtu.be/xyz,third\n"

	first, summary := runToCSV(t, input, defaultResolver(), Options{StartRow: 1})
	assert.Equal(t, 3, summary.Mismatches)

	second, summary := runToCSV(t, first, defaultResolver(), Options{StartRow: 1})
	assert.Equal(t, 0, summary.Mismatches)
	assert.Equal(t, 3, summary.Matches)
	assert.Equal(t, first, second)
}

func TestRunner_RangeExclusivity(t *testing.T) {
	input := "Card#,URL\n" +
		"1,https://youtu.be/abc\n" +
		"2,https://youtu.be/def\n" +
		"3,https://youtu.be/xyz\n" +
		"4,https://youtu.be/gone\n"

	tests := []struct {
		name      string
		opts      Options
		wantCards []string
	}{
		{"All", Options{StartRow: 1}, []string{"1", "2", "3", "4"}},
		{"OpenEnded", Options{StartRow: 3}, []string{"3", "4"}},
		{"Middle", Options{StartRow: 2, EndRow: 3}, []string{"2", "3"}},
		{"PastEnd", Options{StartRow: 9}, nil},
		{"EndBeyondInput", Options{StartRow: 4, EndRow: 100}, []string{"4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			summary, err := NewRunner(defaultResolver(), nil, nil, nil, tt.opts).Run(context.Background(), mustReader(t, input), sink)
			require.NoError(t, err)

			var cards []string
			for _, r := range sink.rows {
				cards = append(cards, r.Get(ColumnCard))
			}
			assert.Equal(t, tt.wantCards, cards)
			assert.Equal(t, len(tt.wantCards), summary.Processed)
			assert.Equal(t, len(tt.wantCards), summary.Matches+summary.Mismatches+summary.Errors)
		})
	}
}

func TestRunner_StopsReadingPastEnd(t *testing.T) {
	rows := []table.Row{
		table.NewRow([]string{ColumnCard, ColumnURL}, []string{"1", "https://youtu.be/abc"}),
	}
	// The source would fail on its second read; the runner must not get there.
	source := &failingSource{rows: rows, err: errors.New("boom")}

	summary, err := NewRunner(defaultResolver(), nil, nil, nil, Options{StartRow: 1, EndRow: 1}).Run(context.Background(), source, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
}

func TestRunner_ZeroRows(t *testing.T) {
	summary, err := NewRunner(defaultResolver(), nil, nil, nil, Options{StartRow: 1, CheckOnly: true}).Run(context.Background(), mustReader(t, "Card#,URL\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 0, summary.ExitCode(true))
}

func TestRunner_Pacing(t *testing.T) {
	input := "Card#,URL\n1,https://youtu.be/abc\n2,https://youtu.be/def\n3,https://youtu.be/xyz\n"

	t.Run("WithoutProber", func(t *testing.T) {
		pacer := &countingPacer{}
		_, err := NewRunner(defaultResolver(), nil, pacer, nil, Options{StartRow: 2}).Run(context.Background(), mustReader(t, input), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, pacer.waits, "one wait per admitted row")
	})

	t.Run("WithProber", func(t *testing.T) {
		pacer := &countingPacer{}
		prober := &fakeProber{}
		_, err := NewRunner(defaultResolver(), prober, pacer, nil, Options{StartRow: 1}).Run(context.Background(), mustReader(t, input), nil)
		require.NoError(t, err)
		assert.Equal(t, 3, pacer.waits)
		assert.Equal(t, 3, prober.calls)
		assert.Equal(t, 0, prober.closed, "the runner does not own the prober")
	})

	t.Run("FailingProberStillSpacesRequests", func(t *testing.T) {
		const delay = 50 * time.Millisecond
		resolver := &timedResolver{fakeResolver: defaultResolver()}
		prober := &fakeProber{err: errors.New("browser crashed")}

		_, err := NewRunner(resolver, prober, throttle.New(delay), nil, Options{StartRow: 1}).Run(context.Background(), mustReader(t, input), nil)
		require.NoError(t, err)

		require.Len(t, resolver.at, 3)
		for i := 1; i < len(resolver.at); i++ {
			assert.GreaterOrEqual(t, resolver.at[i].Sub(resolver.at[i-1]), delay-5*time.Millisecond)
		}
	})

	t.Run("PacerFailureAborts", func(t *testing.T) {
		pacer := &countingPacer{err: context.Canceled}
		_, err := NewRunner(defaultResolver(), nil, pacer, nil, Options{StartRow: 1}).Run(context.Background(), mustReader(t, input), nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorContains(t, err, "row 1 pace")
	})
}

func TestRunner_PlaybackIsAdvisory(t *testing.T) {
	input := "Card#,URL,Youtube-Title,Hashed Info\n" +
		"1,https://youtu.be/abc,New Title," + Fingerprint("New Title", "Chan") + "\n" +
		"2,https://youtu.be/def,,\n"

	prober := &fakeProber{statuses: map[string]string{
		"https://youtu.be/abc": "Video unavailable in your country",
	}}
	sink := &recordingSink{}
	core, logs := observer.New(zapcore.InfoLevel)

	summary, err := NewRunner(defaultResolver(), prober, nil, zap.New(core), Options{StartRow: 1}).Run(context.Background(), mustReader(t, input), sink)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Matches, "playback issue does not turn a match into a mismatch")
	assert.Equal(t, 1, summary.Mismatches)
	assert.Equal(t, 1, summary.PlaybackIssues)
	assert.Equal(t, "Video unavailable in your country", summary.Outcomes[0].Playback)
	assert.Equal(t, PlaybackOK, summary.Outcomes[1].Playback)
	assert.Equal(t, "New Title", sink.rows[0].Get(ColumnTitle))
	assert.Equal(t, 1, logs.FilterMessage("Playback issue detected").Len())
	assert.Equal(t, 2, logs.FilterMessage("Processing row").Len(), "progress is visible at info level")

	issues := summary.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Row)
	assert.Equal(t, 2, issues[1].Row)
}

func TestRunner_ProbeErrorIsAdvisory(t *testing.T) {
	prober := &fakeProber{err: errors.New("navigation timeout")}
	summary, err := NewRunner(defaultResolver(), prober, nil, nil, Options{StartRow: 1}).Run(context.Background(), mustReader(t, "Card#,URL\n1,https://youtu.be/abc\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Mismatches)
	assert.Equal(t, 0, summary.PlaybackIssues)
	assert.Equal(t, "navigation timeout", summary.Outcomes[0].ProbeError)
	assert.True(t, summary.Outcomes[0].HasIssue())
}

func TestRunner_FatalErrors(t *testing.T) {
	t.Run("SourceError", func(t *testing.T) {
		source := &failingSource{err: errors.New("corrupt input")}
		_, err := NewRunner(defaultResolver(), nil, nil, nil, Options{StartRow: 1}).Run(context.Background(), source, nil)
		assert.ErrorContains(t, err, "failed to read row 1")
	})

	t.Run("SinkError", func(t *testing.T) {
		sink := &recordingSink{err: errors.New("disk full")}
		summary, err := NewRunner(defaultResolver(), nil, nil, nil, Options{StartRow: 1}).Run(context.Background(), mustReader(t, "Card#,URL\n1,https://youtu.be/abc\n"), sink)
		assert.ErrorContains(t, err, "disk full")
		assert.ErrorContains(t, err, "row 1 write")
		assert.Equal(t, 0, summary.Processed)
	})

	t.Run("InvalidRange", func(t *testing.T) {
		_, err := NewRunner(defaultResolver(), nil, nil, nil, Options{StartRow: 0}).Run(context.Background(), mustReader(t, "Card#,URL\n"), nil)
		var rangeErr *RangeError
		assert.ErrorAs(t, err, &rangeErr)
	})
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "probe", stageProbe.String())
	assert.Equal(t, "write", stageWrite.String())
	assert.Equal(t, "stage(42)", stage(42).String())
}
