// Package quiz grades the five-question WAF knowledge check.
package quiz

import (
	"errors"
	"fmt"
)

// Sentinel errors for quiz sessions.
// Callers should use errors.Is() to check for these.
var (
	ErrAlreadyAnswered = errors.New("quiz: question already answered")
	ErrInvalidOption   = errors.New("quiz: option out of range")
	ErrNotAnswered     = errors.New("quiz: current question not answered")
	ErrFinished        = errors.New("quiz: already finished")
)

// Question is one multiple-choice item. Answer is the 0-based index of
// the correct option.
type Question struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

var questions = []Question{
	{
		Prompt: "Which payload is a classic SQL injection tautology?",
		Options: []string{
			"<script>alert(1)</script>",
			"' OR '1'='1",
			"../../etc/passwd",
			"; ls -la",
		},
		Answer:      1,
		Explanation: "Closing the quote and appending an always-true OR makes the WHERE clause match every row.",
	},
	{
		Prompt: "In anomaly scoring mode, what happens when a request's total reaches the blocking threshold?",
		Options: []string{
			"It is logged and passed through",
			"The score resets to zero",
			"The request is blocked",
			"The client is rate limited",
		},
		Answer:      2,
		Explanation: "Each violation adds points; the request is blocked once the sum crosses the threshold.",
	},
	{
		Prompt: "Why can %2e%2e%2f slip past a filter that looks for ../?",
		Options: []string{
			"It is a different kind of attack",
			"The filter inspects the request before it is URL-decoded",
			"WAFs ignore percent signs",
			"It only works on Windows servers",
		},
		Answer:      1,
		Explanation: "The application decodes %2e%2e%2f to ../ after the filter has already passed the raw text.",
	},
	{
		Prompt: "Which payload runs JavaScript without a script element?",
		Options: []string{
			"<b>hello</b>",
			"<!-- alert(1) -->",
			"<img src=x onerror=alert(1)>",
			"alert(1)",
		},
		Answer:      2,
		Explanation: "The broken image fires its onerror handler, which executes the script.",
	},
	{
		Prompt: "What is the most effective defense against SQL injection?",
		Options: []string{
			"Blacklisting the word SELECT",
			"Escaping single quotes only",
			"Parameterized queries",
			"Hiding database error messages",
		},
		Answer:      2,
		Explanation: "Bound parameters are never parsed as SQL, so no input can change the query structure.",
	},
}

// Questions returns the quiz in order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// Len is the number of questions.
func Len() int { return len(questions) }

// Session is one run through the quiz. Not safe for concurrent use.
type Session struct {
	current  int
	answers  []int // -1 when unanswered
	finished bool
}

// NewSession starts at question 1 with nothing answered.
func NewSession() *Session {
	s := &Session{answers: make([]int, len(questions))}
	s.Retry()
	return s
}

// Index is the 0-based position of the current question.
func (s *Session) Index() int { return s.current }

// Current returns the question being shown.
func (s *Session) Current() Question { return questions[s.current] }

// Answer locks in option for the current question and reports whether it
// was correct. A question can be answered once.
func (s *Session) Answer(option int) (bool, error) {
	if s.finished {
		return false, ErrFinished
	}
	q := questions[s.current]
	if option < 0 || option >= len(q.Options) {
		return false, fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}
	if s.answers[s.current] >= 0 {
		return false, fmt.Errorf("%w: question %d", ErrAlreadyAnswered, s.current+1)
	}
	s.answers[s.current] = option
	return option == q.Answer, nil
}

// Selected returns the option chosen for question i, or -1.
func (s *Session) Selected(i int) int {
	if i < 0 || i >= len(s.answers) {
		return -1
	}
	return s.answers[i]
}

// Next moves to the following question. On the last question it finishes
// the quiz. The current question must be answered first.
func (s *Session) Next() error {
	if s.finished {
		return ErrFinished
	}
	if s.answers[s.current] < 0 {
		return ErrNotAnswered
	}
	if s.current == len(questions)-1 {
		s.finished = true
		return nil
	}
	s.current++
	return nil
}

// Prev moves back one question. It reports false on the first question.
func (s *Session) Prev() bool {
	if s.finished || s.current == 0 {
		return false
	}
	s.current--
	return true
}

// Finished reports whether the quiz has been completed.
func (s *Session) Finished() bool { return s.finished }

// Correct counts correct answers so far.
func (s *Session) Correct() int {
	n := 0
	for i, a := range s.answers {
		if a == questions[i].Answer {
			n++
		}
	}
	return n
}

// Answered counts answered questions.
func (s *Session) Answered() int {
	n := 0
	for _, a := range s.answers {
		if a >= 0 {
			n++
		}
	}
	return n
}

// Score renders the running score as "n / total".
func (s *Session) Score() string {
	return fmt.Sprintf("%d / %d", s.Correct(), len(questions))
}

// Percent is the share of correct answers, rounded down.
func (s *Session) Percent() int {
	return s.Correct() * 100 / len(questions)
}

// Progress is the answered fraction in [0, 1].
func (s *Session) Progress() float64 {
	return float64(s.Answered()) / float64(len(questions))
}

// Retry clears all answers and returns to question 1.
func (s *Session) Retry() {
	for i := range s.answers {
		s.answers[i] = -1
	}
	s.current = 0
	s.finished = false
}

// Grade runs a full session over answers, one 0-based option per question.
func Grade(answers []int) (*Session, error) {
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("quiz: want %d answers, got %d", len(questions), len(answers))
	}
	s := NewSession()
	for _, a := range answers {
		if _, err := s.Answer(a); err != nil {
			return nil, err
		}
		if err := s.Next(); err != nil {
			return nil, err
		}
	}
	return s, nil
}
