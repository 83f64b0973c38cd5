package aggregator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/provider"
)

func validQuote(symbol string, price float64) models.Quote {
	return models.Quote{Symbol: symbol, Price: price, Open: price - 1, High: price + 1, Low: price - 2, PreviousClose: price - 0.5}
}

func mockProvider(ctrl *gomock.Controller, id string) *MockProvider {
	m := NewMockProvider(ctrl)
	m.EXPECT().ID().Return(id).AnyTimes()
	return m
}

// stubProvider is a hand-written provider for timing and capability tests,
// where gomock's expectations would get in the way.
type stubProvider struct {
	id    string
	calls atomic.Int32
	quote func(ctx context.Context, symbol string) (models.Quote, error)
}

func (s *stubProvider) ID() string { return s.id }

func (s *stubProvider) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	s.calls.Add(1)
	return s.quote(ctx, symbol)
}

type stubSearcher struct {
	*stubProvider
	results []models.SearchResult
	err     error
}

func (s *stubSearcher) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	s.calls.Add(1)
	return s.results, s.err
}

func TestQuote_FallbackStopsAtFirstSuccess(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	a := mockProvider(ctrl, "a")
	b := mockProvider(ctrl, "b")
	c := mockProvider(ctrl, "c")

	gomock.InOrder(
		a.EXPECT().FetchQuote(gomock.Any(), "AAPL").
			Return(models.Quote{}, provider.NewError("a", provider.OpQuote, provider.KindUpstream, "boom")),
		b.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(validQuote("AAPL", 100), nil),
	)
	// c must not be called: no expectation is registered.

	agg := New([]provider.Provider{a, b, c})

	// Act
	q, err := agg.Quote(context.Background(), "AAPL")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "b", q.SourceID)
	assert.Equal(t, 100.0, q.Price)
	assert.GreaterOrEqual(t, q.High, q.Low)
	assert.True(t, q.Low <= q.Price && q.Price <= q.High)
}

func TestQuote_EveryFailureKindFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mockProvider(ctrl, "a")
	b := mockProvider(ctrl, "b")
	c := mockProvider(ctrl, "c")
	d := mockProvider(ctrl, "d")

	a.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(models.Quote{Symbol: "AAPL"}, nil) // all zero
	b.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(models.Quote{}, provider.NewError("b", provider.OpQuote, provider.KindRateLimited, "quota"))
	c.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(models.Quote{Symbol: "AAPL", Price: 10, High: 9, Low: 8}, nil) // price above high
	d.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(validQuote("AAPL", 50), nil)

	q, err := New([]provider.Provider{a, b, c, d}).Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "d", q.SourceID)
}

func TestQuote_AllProvidersFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mockProvider(ctrl, "a")
	b := mockProvider(ctrl, "b")

	a.EXPECT().FetchQuote(gomock.Any(), "ZZZZ").Return(models.Quote{}, provider.NewError("a", provider.OpQuote, provider.KindSymbolNotFound, "unknown"))
	b.EXPECT().FetchQuote(gomock.Any(), "ZZZZ").Return(models.Quote{}, errors.New("connection reset"))

	_, err := New([]provider.Provider{a, b}).Quote(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAllProvidersFailed)

	var failed *provider.AllProvidersFailedError
	require.True(t, errors.As(err, &failed))
	require.Len(t, failed.Attempts, 2)
	assert.Equal(t, "a", failed.Attempts[0].Provider)
	assert.Equal(t, provider.KindSymbolNotFound, failed.Attempts[0].Kind)
	assert.Equal(t, "b", failed.Attempts[1].Provider)
	assert.Equal(t, provider.KindUpstream, failed.Attempts[1].Kind)
	assert.Contains(t, failed.Attempts[1].Message, "connection reset")
}

func TestQuote_CanceledContextStopsChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mockProvider(ctrl, "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New([]provider.Provider{a}).Quote(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, provider.ErrAllProvidersFailed)
}

func TestQuote_CancelDuringCallDoesNotTryNext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &stubProvider{id: "a", quote: func(ctx context.Context, _ string) (models.Quote, error) {
		cancel()
		<-ctx.Done()
		return models.Quote{}, ctx.Err()
	}}
	b := &stubProvider{id: "b", quote: func(context.Context, string) (models.Quote, error) {
		return validQuote("AAPL", 1), nil
	}}

	_, err := New([]provider.Provider{a, b}).Quote(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), b.calls.Load())
}

func TestQuote_TimeoutAndPanicFallBack(t *testing.T) {
	hung := &stubProvider{id: "hung", quote: func(context.Context, string) (models.Quote, error) {
		time.Sleep(time.Second) // ignores ctx on purpose
		return models.Quote{}, nil
	}}
	broken := &stubProvider{id: "broken", quote: func(context.Context, string) (models.Quote, error) {
		panic("nil map")
	}}
	ok := &stubProvider{id: "ok", quote: func(context.Context, string) (models.Quote, error) {
		return validQuote("AAPL", 5), nil
	}}

	start := time.Now()
	q, err := New([]provider.Provider{hung, broken, ok}, WithCallTimeout(50*time.Millisecond)).Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "ok", q.SourceID)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSearch_SkipsProvidersWithoutCapability(t *testing.T) {
	quoteOnly := &stubProvider{id: "quote-only"}
	failing := &stubSearcher{stubProvider: &stubProvider{id: "s1"}, err: provider.NewError("s1", provider.OpSearch, provider.KindUpstream, "down")}
	empty := &stubSearcher{stubProvider: &stubProvider{id: "s2"}, results: []models.SearchResult{}}
	never := &stubSearcher{stubProvider: &stubProvider{id: "s3"}}

	res, err := New([]provider.Provider{quoteOnly, failing, empty, never}).Search(context.Background(), "apple")
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Equal(t, int32(1), failing.calls.Load())
	assert.Equal(t, int32(1), empty.calls.Load())
	assert.Equal(t, int32(0), never.calls.Load())
}

func TestSocialSentiment_NoCapableProvider(t *testing.T) {
	_, err := New([]provider.Provider{&stubProvider{id: "a"}}).SocialSentiment(context.Background(), "AAPL")
	var failed *provider.AllProvidersFailedError
	require.True(t, errors.As(err, &failed))
	assert.Empty(t, failed.Attempts)
}

func TestProfile_SkipsProvidersWithoutProfiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	quoteOnly := mockProvider(ctrl, "a")
	failing := quoteProfileMock{MockProvider: mockProvider(ctrl, "b"), MockProfileFetcher: NewMockProfileFetcher(ctrl)}
	ok := quoteProfileMock{MockProvider: mockProvider(ctrl, "c"), MockProfileFetcher: NewMockProfileFetcher(ctrl)}

	gomock.InOrder(
		failing.MockProfileFetcher.EXPECT().FetchProfile(gomock.Any(), "IBM").
			Return(models.Profile{}, provider.NewError("b", provider.OpProfile, provider.KindRateLimited, "quota")),
		ok.MockProfileFetcher.EXPECT().FetchProfile(gomock.Any(), "IBM").
			Return(models.Profile{Symbol: "IBM", CompanyName: "International Business Machines", SourceID: "c"}, nil),
	)

	p, err := New([]provider.Provider{quoteOnly, failing, ok}).Profile(context.Background(), "IBM")
	require.NoError(t, err)
	assert.Equal(t, "c", p.SourceID)
	assert.Equal(t, "International Business Machines", p.CompanyName)
}
