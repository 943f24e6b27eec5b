package main

import (
	"fmt"
	"io"

	"github.com/whatthewaf/whatthewaf/pkg/challenge"
	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

func runChallenge(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	const usage = "whatthewaf challenge -level 1..5 <payload>"
	cmd := newCommand("challenge", stderr)
	level := cmd.fs.Int("level", 0, "Level number, 1-5")
	list := cmd.fs.Bool("list", false, "Show every level brief")
	hint := cmd.fs.Bool("hint", false, "Show the hint for -level")
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	if *list {
		for _, lv := range challenge.Levels() {
			fmt.Fprintln(stdout, ui.RenderLevel(lv, false))
			fmt.Fprintln(stdout)
		}
		return exitOK
	}

	lv, err := challenge.Get(*level - 1)
	if err != nil {
		return usageError(stderr, fmt.Sprintf("level must be 1-%d", challenge.Count()), usage)
	}
	if *hint {
		fmt.Fprintln(stdout, ui.Field("Hint", lv.Hint))
		return exitOK
	}

	payload, err := inputText(cmd.fs.Args(), stdin)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	sess, err := a.session(nil)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	res, err := sess.ChallengeValidate(lv.Index, payload)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	attempt := challenge.Attempt{Level: lv.Index, Input: payload, Outcome: challenge.Failure, Reason: res.Reason}
	if res.Success {
		attempt.Outcome = challenge.Success
	}
	fmt.Fprintln(stdout, ui.RenderAttempt(lv, attempt))
	if !res.Success {
		return exitNotBypassed
	}
	return exitOK
}
