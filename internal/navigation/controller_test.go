package navigation_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/studystream/internal/catalog"
	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/models"
	"github.com/vytor/studystream/internal/navigation"
	"github.com/vytor/studystream/internal/progress"
	"github.com/vytor/studystream/internal/quiz"
	"github.com/vytor/studystream/internal/repository/memory"
	"github.com/vytor/studystream/internal/testutil"
	"github.com/vytor/studystream/internal/testutil/mocks"
)

func newController(t *testing.T) (*navigation.Controller, *progress.Store) {
	t.Helper()
	cat := testutil.SmallCatalog(t)
	store := progress.Load(context.Background(), memory.NewStore())
	return navigation.New(cat, catalog.NewFilter(cat, nil), store), store
}

func TestOpenTopic(t *testing.T) {
	c, _ := newController(t)

	err := c.OpenTopic("missing")
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))
	assert.Equal(t, navigation.Catalog, c.State())

	require.NoError(t, c.OpenTopic("alpha"))
	assert.Equal(t, navigation.TopicDetail, c.State())
	assert.Equal(t, 0, c.SectionIndex())

	err = c.OpenTopic("beta")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidState))
}

func TestSectionNavigationIsBounded(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.OpenTopic("alpha"))

	require.NoError(t, c.PreviousSection())
	assert.Equal(t, 0, c.SectionIndex())

	require.NoError(t, c.NextSection())
	require.NoError(t, c.NextSection())
	assert.Equal(t, 1, c.SectionIndex())

	require.NoError(t, c.SelectSection(0))
	assert.Equal(t, 0, c.SectionIndex())
	assert.True(t, stderrors.Is(c.SelectSection(2), errors.ErrValidation))
}

func TestStartQuiz_OnlyAtLastSection(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.OpenTopic("alpha"))

	err := c.StartQuiz()
	assert.True(t, stderrors.Is(err, errors.ErrInvalidState))
	assert.Equal(t, navigation.TopicDetail, c.State())

	require.NoError(t, c.NextSection())
	require.NoError(t, c.StartQuiz())
	assert.Equal(t, navigation.QuizActive, c.State())
	assert.Equal(t, quiz.InProgress, c.Session().State())
}

func TestStartQuiz_TopicWithoutSections(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.OpenTopic("gamma"))

	assert.True(t, c.CanStartQuiz())
	require.NoError(t, c.StartQuiz())
}

func TestStartQuiz_EmptyQuizStaysOnTopic(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.OpenTopic("beta"))

	err := c.StartQuiz()
	assert.True(t, stderrors.Is(err, errors.ErrEmptyQuiz))
	assert.Equal(t, navigation.TopicDetail, c.State())
}

func TestFullQuizRecordsProgress(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t)
	require.NoError(t, c.OpenTopic("alpha"))
	require.NoError(t, c.NextSection())
	require.NoError(t, c.StartQuiz())

	rec, err := c.SubmitAnswer(ctx, 1)
	require.NoError(t, err)
	assert.True(t, rec.Correct)
	assert.Equal(t, 1, store.TotalCorrectAnswers())
	require.NoError(t, c.Advance(ctx))
	assert.Equal(t, navigation.QuizActive, c.State())

	rec, err = c.SubmitAnswer(ctx, 3)
	require.NoError(t, err)
	assert.False(t, rec.Correct)
	require.NoError(t, c.Advance(ctx))

	assert.Equal(t, navigation.QuizReview, c.State())
	result, ok := c.Session().Result()
	require.True(t, ok)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Celebrate)
	assert.Equal(t, 50, store.Percentage("alpha"))
	assert.Equal(t, 1, store.TotalCorrectAnswers())
}

func TestCompletionKeepsBestScore(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t)

	playGamma := func(option int) {
		c.Back()
		require.NoError(t, c.OpenTopic("gamma"))
		require.NoError(t, c.StartQuiz())
		_, err := c.SubmitAnswer(ctx, option)
		require.NoError(t, err)
		require.NoError(t, c.Advance(ctx))
	}

	playGamma(2)
	assert.Equal(t, 100, store.Percentage("gamma"))
	playGamma(0)
	assert.Equal(t, 100, store.Percentage("gamma"))

	result, _ := c.Session().Result()
	assert.Equal(t, 0, result.Score)
}

func TestQuizMisuse(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)
	require.NoError(t, c.OpenTopic("gamma"))

	_, err := c.SubmitAnswer(ctx, 0)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidState))

	require.NoError(t, c.StartQuiz())
	assert.True(t, stderrors.Is(c.Advance(ctx), errors.ErrNotAnswered))

	_, err = c.SubmitAnswer(ctx, 4)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidAnswerIndex))

	_, err = c.SubmitAnswer(ctx, 0)
	require.NoError(t, err)
	_, err = c.SubmitAnswer(ctx, 2)
	assert.True(t, stderrors.Is(err, errors.ErrAlreadyAnswered))
	assert.Equal(t, 0, c.Session().CorrectCount())
}

func TestBackDiscardsAttempt(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t)
	require.NoError(t, c.OpenTopic("gamma"))
	require.NoError(t, c.StartQuiz())
	_, err := c.SubmitAnswer(ctx, 2)
	require.NoError(t, err)

	c.Back()

	assert.Equal(t, navigation.Catalog, c.State())
	assert.Equal(t, quiz.NotStarted, c.Session().State())
	assert.Equal(t, 0, store.Percentage("gamma"))
	_, ok := c.Topic()
	assert.False(t, ok)
}

func TestRestartQuiz(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)
	require.NoError(t, c.OpenTopic("gamma"))
	require.NoError(t, c.StartQuiz())
	first := c.Session().ID()
	_, err := c.SubmitAnswer(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, c.Advance(ctx))

	require.NoError(t, c.RestartQuiz())

	assert.Equal(t, navigation.QuizActive, c.State())
	assert.NotEqual(t, first, c.Session().ID())
	assert.Equal(t, 0, c.Session().QuestionIndex())
	assert.Empty(t, c.Session().Answers())

	c.Back()
	assert.True(t, stderrors.Is(c.RestartQuiz(), errors.ErrInvalidState))
}

func TestPersistenceFailureNeverBlocks(t *testing.T) {
	ctx := context.Background()
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, mock.Anything).Return("", false, nil)
	kv.On("SetMany", mock.Anything, mock.Anything).Return(assert.AnError)

	cat := testutil.SmallCatalog(t)
	store := progress.Load(ctx, kv, progress.WithRetry(0, time.Millisecond))
	c := navigation.New(cat, catalog.NewFilter(cat, nil), store)

	require.NoError(t, c.OpenTopic("gamma"))
	require.NoError(t, c.StartQuiz())
	_, err := c.SubmitAnswer(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, c.Advance(ctx))

	assert.Equal(t, navigation.QuizReview, c.State())
	assert.Equal(t, 100, store.Percentage("gamma"))
	assert.Equal(t, 1, store.TotalCorrectAnswers())
}

func TestSetFilter(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	require.NoError(t, c.SetFilter(ctx, "Rust", ""))
	subject, query := c.Filter()
	assert.Equal(t, "Rust", subject)
	assert.Empty(t, query)

	assert.True(t, stderrors.Is(c.SetFilter(ctx, "Haskell", ""), errors.ErrValidation))

	require.NoError(t, c.SetFilter(ctx, "", "maps"))
	subject, _ = c.Filter()
	assert.Equal(t, "all", subject)

	require.NoError(t, c.OpenTopic("alpha"))
	assert.True(t, stderrors.Is(c.SetFilter(ctx, "Go", ""), errors.ErrInvalidState))
}

func TestSetFilter_SearchesOnceAndViewsReuseResults(t *testing.T) {
	ctx := context.Background()
	cat := testutil.SmallCatalog(t)
	searcher := new(mocks.MockSearcher)
	searcher.On("SearchTopics", mock.Anything, "closures", models.SearchFilter{Subject: "all"}).
		Return([]models.TopicSummary{{ID: "gamma"}}, nil).Once()

	c := navigation.New(cat, catalog.NewFilter(cat, searcher), progress.Load(ctx, memory.NewStore()))
	require.NoError(t, c.SetFilter(ctx, "all", "closures"))

	for i := 0; i < 3; i++ {
		v := c.View(ctx).Catalog
		require.Len(t, v.Cards, 1)
		assert.Equal(t, "gamma", v.Cards[0].ID)
		assert.Equal(t, catalog.SourceRemote, v.Source)
	}
	searcher.AssertNumberOfCalls(t, "SearchTopics", 1)

	c.Back()
	assert.Len(t, c.View(ctx).Catalog.Cards, 1, "filter results survive Back")
	searcher.AssertExpectations(t)
}
