package render

import (
	"context"
	"fmt"
	"html/template"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/bobmcallan/filing-ideas/internal/client"
	"github.com/bobmcallan/filing-ideas/internal/models"
	"github.com/bobmcallan/filing-ideas/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIdeas answers FetchIdeas from a fixed report or error.
type stubIdeas struct {
	mu     sync.Mutex
	report *models.IdeaReport
	err    error
	forced []bool
}

func (s *stubIdeas) FetchIdeas(_ context.Context, forceRefresh bool) (*models.IdeaReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = append(s.forced, forceRefresh)
	return s.report, s.err
}

// stubMovers answers FetchMovers from a fixed index or error.
type stubMovers struct {
	index *models.MoversIndex
	err   error
	calls int
}

func (s *stubMovers) FetchMovers(_ context.Context) (*models.MoversIndex, error) {
	s.calls++
	return s.index, s.err
}

func doc(t *testing.T, h template.HTML) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(string(h)))
	require.NoError(t, err)
	return d
}

func sampleReport() *models.IdeaReport {
	return &models.IdeaReport{
		GeneratedUTC:  "2026-10-16 21:05 UTC",
		UniverseCount: 3412,
		BucketCounts: models.NewBucketCounts(
			models.BucketCount{Bucket: "growth", Count: 3},
			models.BucketCount{Bucket: "value", Count: 1},
		),
		Ideas: []models.Idea{
			{Ticker: "ABC", Bucket: "growth", Score: 7.5, FormType: "8-K", FiledDate: "2026-10-15",
				WhyNow: "Raised guidance", FilingURL: "https://www.sec.gov/abc"},
			{Ticker: "XYZ", Bucket: "value", Score: 6, FormType: "10-Q", FiledDate: "2026-10-14",
				WhyNow: "Buyback", FilingURL: "https://www.sec.gov/xyz"},
		},
	}
}

func f(v float64) *float64 { return &v }

func TestIdeasRenderer_RendersRegions(t *testing.T) {
	board := view.NewBoard()
	src := &stubIdeas{report: sampleReport()}
	r := NewIdeasRenderer(src, board, nil)

	snap := r.Render(context.Background(), false)

	assert.Equal(t, template.HTML("Last update: 2026-10-16 21:05 UTC • NASDAQ: 3412 • Ideas: 2"), snap.Subtitle)
	assert.Equal(t, snap, board.Snapshot(), "the latest result settles on the board")

	stats := doc(t, snap.Stats)
	assert.Equal(t, "Idea buckets", stats.Find("b").First().Text())
	lines := stats.Find(".bucket-line")
	require.Equal(t, 2, lines.Length())
	assert.Equal(t, "growth: 3", lines.Eq(0).Text())
	assert.Equal(t, "value: 1", lines.Eq(1).Text())

	list := doc(t, snap.List)
	cards := list.Find("article.card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "ABC", cards.Eq(0).Find(".ticker").Text())
	assert.Equal(t, "growth", cards.Eq(0).Find(".bucket").Text())
	assert.Equal(t, "Score: 7.5 | 8-K | 2026-10-15", cards.Eq(0).Find(".meta").Text())
	assert.Equal(t, "Raised guidance", cards.Eq(0).Find(".why-now").Text())
	link := cards.Eq(0).Find("a.filing")
	href, _ := link.Attr("href")
	target, _ := link.Attr("target")
	assert.Equal(t, "https://www.sec.gov/abc", href)
	assert.Equal(t, "_blank", target)
	assert.Equal(t, "XYZ", cards.Eq(1).Find(".ticker").Text())
	assert.Equal(t, "Score: 6 | 10-Q | 2026-10-14", cards.Eq(1).Find(".meta").Text())

	assert.Equal(t, []bool{false}, src.forced)
}

func TestIdeasRenderer_ForceRefreshIsPassedThrough(t *testing.T) {
	src := &stubIdeas{report: sampleReport()}
	r := NewIdeasRenderer(src, view.NewBoard(), nil)

	r.Render(context.Background(), true)
	assert.Equal(t, []bool{true}, src.forced)
}

func TestIdeasRenderer_FailureOnlyTouchesSubtitle(t *testing.T) {
	board := view.NewBoard()
	board.Stats.Set("prior stats")
	board.List.Set("prior list")

	src := &stubIdeas{err: fmt.Errorf("%w: connection refused", client.ErrFetchFailure)}
	snap := NewIdeasRenderer(src, board, nil).Render(context.Background(), false)

	assert.Equal(t, template.HTML(SubtitleNoData), snap.Subtitle)
	assert.Equal(t, template.HTML("prior stats"), snap.Stats)
	assert.Equal(t, template.HTML("prior list"), snap.List)
	assert.Equal(t, snap, board.Snapshot())
}

func TestIdeasRenderer_EscapesDocumentValues(t *testing.T) {
	report := &models.IdeaReport{
		GeneratedUTC:  "<i>now</i>",
		UniverseCount: 1,
		BucketCounts:  models.NewBucketCounts(models.BucketCount{Bucket: "<script>x</script>", Count: 1}),
		Ideas: []models.Idea{{
			Ticker:    "<b>EVIL</b>",
			Bucket:    `"quoted"`,
			WhyNow:    `<img src=x onerror="alert(1)">`,
			FilingURL: "javascript:alert(1)",
		}},
	}
	snap := NewIdeasRenderer(&stubIdeas{report: report}, view.NewBoard(), nil).Render(context.Background(), false)

	assert.NotContains(t, string(snap.Subtitle), "<i>")
	assert.NotContains(t, string(snap.Stats), "<script>")
	assert.NotContains(t, string(snap.List), "<img")
	assert.NotContains(t, string(snap.List), "<b>EVIL")
	assert.NotContains(t, string(snap.List), "javascript:")

	list := doc(t, snap.List)
	assert.Equal(t, "<b>EVIL</b>", list.Find(".ticker").Text())
	assert.Equal(t, `<img src=x onerror="alert(1)">`, list.Find(".why-now").Text())
}

func TestIdeasRenderer_EmptyReport(t *testing.T) {
	snap := NewIdeasRenderer(&stubIdeas{report: &models.IdeaReport{}}, view.NewBoard(), nil).Render(context.Background(), false)

	assert.Contains(t, string(snap.Subtitle), "Ideas: 0")
	assert.Equal(t, 0, doc(t, snap.Stats).Find(".bucket-line").Length())
	assert.Equal(t, template.HTML(""), snap.List)
}

// blockingIdeas holds every FetchIdeas call until released or cancelled.
type blockingIdeas struct {
	started chan struct{}
	release chan struct{}
	report  *models.IdeaReport
}

func (b *blockingIdeas) FetchIdeas(ctx context.Context, _ bool) (*models.IdeaReport, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return b.report, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", client.ErrFetchFailure, ctx.Err())
	}
}

func TestIdeasRenderer_ShowsUpdatingWhileInFlight(t *testing.T) {
	src := &blockingIdeas{started: make(chan struct{}), release: make(chan struct{}), report: sampleReport()}
	board := view.NewBoard()
	board.Subtitle.SetText("old")
	r := NewIdeasRenderer(src, board, nil)

	done := make(chan view.Snapshot)
	go func() { done <- r.Render(context.Background(), true) }()

	<-src.started
	assert.Equal(t, template.HTML(SubtitleUpdating), board.Snapshot().Subtitle)
	close(src.release)
	snap := <-done
	assert.Contains(t, string(snap.Subtitle), "Last update:")
	assert.Contains(t, string(board.Snapshot().Subtitle), "Last update:")
}

func TestIdeasRenderer_CancelledRequestLeavesBoardAlone(t *testing.T) {
	board := view.NewBoard()
	settled := NewIdeasRenderer(&stubIdeas{report: sampleReport()}, board, nil).Render(context.Background(), false)

	src := &blockingIdeas{started: make(chan struct{}), release: make(chan struct{})}
	r := NewIdeasRenderer(src, board, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Render(ctx, true)
		close(done)
	}()
	<-src.started
	cancel()
	<-done

	assert.Equal(t, settled, board.Snapshot(), "a disconnect must not show no-data or a stuck placeholder")
}

// sequencedIdeas returns a different report per call, releasing each call on demand.
type sequencedIdeas struct {
	mu      sync.Mutex
	calls   int
	started chan int
	release []chan struct{}
}

func (s *sequencedIdeas) FetchIdeas(_ context.Context, _ bool) (*models.IdeaReport, error) {
	s.mu.Lock()
	n := s.calls
	s.calls++
	s.mu.Unlock()

	s.started <- n
	<-s.release[n]
	return &models.IdeaReport{GeneratedUTC: fmt.Sprintf("response-%d", n)}, nil
}

func TestIdeasRenderer_OverlappingRequestsEachGetTheirOwnResult(t *testing.T) {
	src := &sequencedIdeas{
		started: make(chan int),
		release: []chan struct{}{make(chan struct{}), make(chan struct{})},
	}
	board := view.NewBoard()
	r := NewIdeasRenderer(src, board, nil)

	results := make([]view.Snapshot, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); results[0] = r.Render(context.Background(), true) }()
	first := <-src.started

	wg.Add(1)
	go func() { defer wg.Done(); results[1] = r.Render(context.Background(), true) }()
	second := <-src.started

	// The newer request resolves first, then the older one.
	close(src.release[second])
	for !strings.Contains(string(board.Snapshot().Subtitle), "response-") {
		runtime.Gosched()
	}
	close(src.release[first])
	wg.Wait()

	assert.Contains(t, string(results[0].Subtitle), fmt.Sprintf("response-%d", first))
	assert.Contains(t, string(results[1].Subtitle), fmt.Sprintf("response-%d", second))
	assert.NotContains(t, string(results[0].Subtitle), SubtitleUpdating)
	assert.Contains(t, string(board.Snapshot().Subtitle), fmt.Sprintf("response-%d", second),
		"the older response must not replace the newer one on the board")
}

func sampleIndex() *models.MoversIndex {
	return &models.MoversIndex{
		LookbackDays: 5,
		Thresholds:   &models.Thresholds{OneDayJumpPct: 20},
		Items: []models.MoverRecord{
			{
				Ticker:             "ABC",
				JumpDate:           "2026-10-14",
				NewsClassification: models.ClassificationNoObviousNews,
				OneDayJump:         f(0.205),
				FiveDayMove:        nil,
				NewsHits:           1,
				TopHeadlines:       []models.Headline{},
			},
			{
				Ticker:             "NEWS",
				JumpDate:           "2026-10-13",
				NewsClassification: models.ClassificationHeadlinesFound,
				OneDayJump:         f(0.31),
				FiveDayMove:        f(0.4),
				NewsHits:           9,
				TopHeadlines: []models.Headline{
					{Title: "Deal <announced>", URL: "https://news.example/a?x=1&y=2", Published: "20261012T140000Z"},
					{Title: "Follow-up", URL: "https://news.example/b", Published: "20261012T160000Z"},
				},
			},
		},
	}
}

func TestMoversLookup_EmptyInputPromptsWithoutFetching(t *testing.T) {
	src := &stubMovers{index: sampleIndex()}
	out := view.NewRegion()

	NewMoversLookup(src, nil).Check(context.Background(), "   ", out)

	assert.Equal(t, template.HTML(ResultPrompt), out.HTML())
	assert.Equal(t, 0, src.calls)
}

func TestMoversLookup_NormalizesInput(t *testing.T) {
	src := &stubMovers{index: sampleIndex()}
	out := view.NewRegion()

	NewMoversLookup(src, nil).Check(context.Background(), " abc ", out)

	d := doc(t, out.HTML())
	assert.Equal(t, "ABC", d.Find(".mover-ticker").Text())
	assert.Equal(t, 1, src.calls)
}

func TestMoversLookup_MatchWithoutHeadlines(t *testing.T) {
	out := view.NewRegion()
	NewMoversLookup(&stubMovers{index: sampleIndex()}, nil).Check(context.Background(), "ABC", out)

	d := doc(t, out.HTML())
	assert.Equal(t, "No obvious headlines", d.Find(".badge").Text())
	assert.Equal(t, "Jump day: 2026-10-14", d.Find(".jump-day").Text())
	assert.Equal(t, "1D jump: 20.5%", d.Find(".one-day").Text())
	assert.Equal(t, "5D move: n/a", d.Find(".five-day").Text())
	assert.Equal(t, "News hits (window): 1", d.Find(".news-hits").Text())
	assert.Equal(t, 0, d.Find("ul.headlines").Length())
	assert.Equal(t, "None returned by the news scan in the window before the jump.", d.Find(".no-headlines").Text())
}

func TestMoversLookup_MatchWithHeadlines(t *testing.T) {
	out := view.NewRegion()
	NewMoversLookup(&stubMovers{index: sampleIndex()}, nil).Check(context.Background(), "news", out)

	d := doc(t, out.HTML())
	assert.Equal(t, "Headlines found", d.Find(".badge").Text())
	assert.Equal(t, "5D move: 40.0%", d.Find(".five-day").Text())
	items := d.Find("ul.headlines li")
	require.Equal(t, 2, items.Length())

	a := items.Eq(0).Find("a")
	assert.Equal(t, "Deal <announced>", a.Text())
	href, _ := a.Attr("href")
	assert.Equal(t, "https://news.example/a?x=1&y=2", href)
	rel, _ := a.Attr("rel")
	assert.Equal(t, "noopener noreferrer", rel)
	assert.Equal(t, "(20261012T140000Z)", items.Eq(0).Find(".published").Text())
	assert.Equal(t, 0, d.Find(".no-headlines").Length())
	assert.NotContains(t, string(out.HTML()), "<announced>")
}

func TestMoversLookup_NoMatchUsesConfiguredThresholds(t *testing.T) {
	index := sampleIndex()
	index.Thresholds.OneDayJumpPct = 25
	index.LookbackDays = 7
	out := view.NewRegion()

	NewMoversLookup(&stubMovers{index: index}, nil).Check(context.Background(), "zzz", out)

	d := doc(t, out.HTML())
	assert.Equal(t, "No >25% 1-day jump detected for ZZZ in the last 7 trading days.", d.Text())
	assert.Equal(t, "ZZZ", d.Find("b").Text())
}

func TestMoversLookup_NoMatchUsesDefaults(t *testing.T) {
	out := view.NewRegion()
	NewMoversLookup(&stubMovers{index: &models.MoversIndex{}}, nil).Check(context.Background(), "abc", out)

	assert.Equal(t, "No >20% 1-day jump detected for ABC in the last 5 trading days.", doc(t, out.HTML()).Text())
}

func TestMoversLookup_NoMatchEscapesTicker(t *testing.T) {
	out := view.NewRegion()
	NewMoversLookup(&stubMovers{index: &models.MoversIndex{}}, nil).Check(context.Background(), "<script>", out)

	assert.NotContains(t, string(out.HTML()), "<SCRIPT>")
	assert.Equal(t, "<SCRIPT>", doc(t, out.HTML()).Find("b").Text())
}

func TestMoversLookup_DataUnavailable(t *testing.T) {
	src := &stubMovers{err: &client.DataUnavailableError{Document: "movers.json", StatusCode: 404}}
	out := view.NewRegion()

	NewMoversLookup(src, nil).Check(context.Background(), "ABC", out)

	assert.Equal(t, template.HTML("movers.json not found yet — run the generation job first."), out.HTML())
}

func TestMoversLookup_FetchFailureShowsFixedMessage(t *testing.T) {
	src := &stubMovers{err: fmt.Errorf("%w: dial tcp: connection refused", client.ErrFetchFailure)}
	out := view.NewRegion()

	NewMoversLookup(src, nil).Check(context.Background(), "ABC", out)

	assert.Equal(t, template.HTML(ResultFetchFailed), out.HTML())
	assert.NotContains(t, string(out.HTML()), "dial tcp")
}

func TestMoversLookup_EveryCheckRefetches(t *testing.T) {
	src := &stubMovers{index: sampleIndex()}
	l := NewMoversLookup(src, nil)

	for i := 0; i < 3; i++ {
		l.Check(context.Background(), "ABC", view.NewRegion())
	}
	assert.Equal(t, 3, src.calls)
}

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "ABC", NormalizeTicker(" abc "))
	assert.Equal(t, "BRK.B", NormalizeTicker("\tbrk.b\n"))
	assert.Equal(t, "", NormalizeTicker("   "))
}

func TestRenderMoverResult_DoesNotMutateIndex(t *testing.T) {
	index := sampleIndex()
	before := fmt.Sprintf("%+v", index.Items)

	_, err := RenderMoverResult(index, "NEWS")
	require.NoError(t, err)
	_, err = RenderMoverResult(index, "MISSING")
	require.NoError(t, err)

	assert.Equal(t, before, fmt.Sprintf("%+v", index.Items))
}
