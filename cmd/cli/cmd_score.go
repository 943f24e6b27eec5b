package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/whatthewaf/whatthewaf/pkg/jsonutil"
	"github.com/whatthewaf/whatthewaf/pkg/scoring"
	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

func runScore(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	const usage = "whatthewaf score [-scenario name] [-format text|json] [VIOL_CODE ...]"
	cmd := newCommand("score", stderr)
	scenario := cmd.fs.String("scenario", "", "Load a preset: "+scenarioNames())
	list := cmd.fs.Bool("list", false, "List violation codes")
	format := cmd.fs.String("format", "text", "Output format: text, json")
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	if *format != "text" && *format != "json" {
		return usageError(stderr, "unknown format "+*format, usage)
	}
	if *list {
		fmt.Fprintln(stdout, ui.RenderViolations())
		return exitOK
	}
	sess, err := a.session(nil)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	if *scenario != "" {
		if _, err := sess.ScoreSimulate(*scenario); err != nil {
			return usageError(stderr, err.Error(), usage)
		}
	}
	for _, c := range cmd.fs.Args() {
		if _, err := sess.ScoreToggle(strings.ToUpper(c)); err != nil {
			return usageError(stderr, err.Error(), usage)
		}
	}

	snap := sess.ScoreSnapshot()
	if *format == "json" {
		if err := jsonutil.NewStreamEncoder(stdout).Encode(snap); err != nil {
			printError(stderr, "%v", err)
			return exitError
		}
		return exitOK
	}
	fmt.Fprintln(stdout, ui.RenderScore(snap))
	return exitOK
}

func scenarioNames() string {
	names := make([]string, 0, len(scoring.Scenarios()))
	for _, sc := range scoring.Scenarios() {
		names = append(names, sc.Name)
	}
	return strings.Join(names, ", ")
}
