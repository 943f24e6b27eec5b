package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestions(t *testing.T) {
	require.Equal(t, 5, Len())
	want := []int{1, 2, 1, 2, 2}
	for i, q := range Questions() {
		assert.Len(t, q.Options, 4, q.Prompt)
		assert.Equal(t, want[i], q.Answer, q.Prompt)
		assert.NotEmpty(t, q.Explanation)
	}
	assert.Equal(t, "' OR '1'='1", Questions()[0].Options[1])
}

func TestPerfectScore(t *testing.T) {
	s, err := Grade([]int{1, 2, 1, 2, 2})
	require.NoError(t, err)
	assert.True(t, s.Finished())
	assert.Equal(t, 100, s.Percent())
	assert.Equal(t, "5 / 5", s.Score())
}

func TestAllWrong(t *testing.T) {
	s, err := Grade([]int{0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Percent())
	assert.Equal(t, "0 / 5", s.Score())
}

func TestGradeWrongLength(t *testing.T) {
	_, err := Grade([]int{1, 2})
	assert.Error(t, err)
	_, err = Grade([]int{1, 2, 1, 2, 9})
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestAnswerLocks(t *testing.T) {
	s := NewSession()
	ok, err := s.Answer(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1 / 5", s.Score())

	_, err = s.Answer(2)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Equal(t, 1, s.Selected(0), "first answer kept")
}

func TestNavigation(t *testing.T) {
	s := NewSession()
	assert.False(t, s.Prev(), "no previous question at start")
	assert.ErrorIs(t, s.Next(), ErrNotAnswered)

	_, err := s.Answer(0)
	require.NoError(t, err)
	require.NoError(t, s.Next())
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, questions[1].Prompt, s.Current().Prompt)

	assert.True(t, s.Prev())
	assert.Equal(t, 0, s.Index())
	_, err = s.Answer(1)
	assert.ErrorIs(t, err, ErrAlreadyAnswered, "going back does not unlock")
}

func TestProgress(t *testing.T) {
	s := NewSession()
	assert.Zero(t, s.Progress())
	_, _ = s.Answer(0)
	assert.InDelta(t, 0.2, s.Progress(), 1e-9)
	assert.Equal(t, -1, s.Selected(1))
	assert.Equal(t, -1, s.Selected(42))
}

func TestRetry(t *testing.T) {
	s, err := Grade([]int{1, 2, 1, 2, 2})
	require.NoError(t, err)
	_, err = s.Answer(0)
	assert.ErrorIs(t, err, ErrFinished)
	assert.ErrorIs(t, s.Next(), ErrFinished)

	s.Retry()
	assert.False(t, s.Finished())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 0, s.Answered())
	assert.Equal(t, "0 / 5", s.Score())
}
