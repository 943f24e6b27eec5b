package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/whatthewaf/whatthewaf/pkg/quiz"
	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

func runQuiz(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	const usage = "whatthewaf quiz [-answers 1,2,1,2,2]"
	cmd := newCommand("quiz", stderr)
	answers := cmd.fs.String("answers", "", "Grade 0-based option indexes, comma-separated, one per question")
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	if *answers != "" {
		picks, err := parseIntList(*answers)
		if err != nil {
			return usageError(stderr, err.Error(), usage)
		}
		s, err := quiz.Grade(picks)
		if err != nil {
			return usageError(stderr, err.Error(), usage)
		}
		fmt.Fprintln(stdout, ui.RenderQuizResult(s))
		return exitOK
	}

	s := quiz.NewSession()
	in := bufio.NewScanner(stdin)
	for !s.Finished() {
		fmt.Fprintln(stdout, ui.RenderQuestion(s.Index(), s.Current(), -1))
		fmt.Fprint(stdout, "answer (1-4): ")
		if !in.Scan() {
			fmt.Fprintln(stdout)
			return exitError
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil {
			printError(stdout, "enter a number from 1 to 4")
			continue
		}
		if _, err := s.Answer(n - 1); err != nil {
			printError(stdout, "%v", err)
			continue
		}
		fmt.Fprintln(stdout, ui.RenderQuestion(s.Index(), s.Current(), n-1))
		fmt.Fprintln(stdout)
		_ = s.Next()
	}
	fmt.Fprintln(stdout, ui.RenderQuizResult(s))
	return exitOK
}

// parseIntList parses "1, 2,3" into ints. Empty items are skipped.
func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}
