package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/whatthewaf/whatthewaf/pkg/academy"
	"github.com/whatthewaf/whatthewaf/pkg/detector"
	"github.com/whatthewaf/whatthewaf/pkg/jsonutil"
	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

// inputText joins positional args, or reads stdin when there are none.
func inputText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if stdin == nil {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func runDetect(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newCommand("detect", stderr)
	format := cmd.fs.String("format", "text", "Output format: text, json")
	file := cmd.fs.String("file", "", "Check every line of this file (- for stdin)")
	workers := cmd.fs.Int("workers", 4, "Concurrent checks with -file")
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	if *format != "text" && *format != "json" {
		return usageError(stderr, "unknown format "+*format, detectUsage)
	}
	sess, err := a.session(nil)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	if *file != "" {
		return detectFile(sess, *file, *workers, *format == "json", stdin, stdout, stderr)
	}

	text, err := inputText(cmd.fs.Args(), stdin)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	res := sess.Detect(text)
	if *format == "json" {
		if err := jsonutil.NewStreamEncoder(stdout).Encode(res); err != nil {
			printError(stderr, "%v", err)
			return exitError
		}
		return exitOK
	}
	fmt.Fprintln(stdout, ui.RenderDetect(res.Matched))
	return exitOK
}

const detectUsage = "whatthewaf detect [-format text|json] [-file payloads.txt [-workers N]] <text>"

const batchInputWidth = 60

// batchLine is one JSON line of detect -file output.
type batchLine struct {
	Line           int      `json:"line"`
	Input          string   `json:"input"`
	Blocked        bool     `json:"blocked"`
	MatchedRuleIDs []string `json:"matched_rule_ids"`
}

// detectFile checks every non-blank line of path and prints one result per
// line, in file order.
func detectFile(sess *academy.Session, path string, workers int, asJSON bool, stdin io.Reader, stdout, stderr io.Writer) int {
	var in io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			printError(stderr, "%v", err)
			return exitError
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	var inputs []string
	var lineNos []int
	for i, line := range splitLines(string(data)) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		inputs = append(inputs, line)
		lineNos = append(lineNos, i+1)
	}

	results := sess.DetectAll(inputs, workers)
	enc := jsonutil.NewStreamEncoder(stdout)
	blocked := 0
	for i, res := range results {
		if res.Blocked {
			blocked++
		}
		if asJSON {
			if err := enc.Encode(batchLine{Line: lineNos[i], Input: inputs[i], Blocked: res.Blocked, MatchedRuleIDs: res.MatchedRuleIDs}); err != nil {
				printError(stderr, "%v", err)
				return exitError
			}
			continue
		}
		verdict := detector.Allowed
		if res.Blocked {
			verdict = detector.Blocked
		}
		fmt.Fprintf(stdout, "%4d %s %s %s\n", lineNos[i], ui.Badge(string(verdict)), ui.Truncate(inputs[i], batchInputWidth),
			ui.HelpStyle.Render(strings.Join(res.MatchedRuleIDs, ",")))
	}
	if !asJSON {
		fmt.Fprintln(stdout, ui.Field("Blocked", fmt.Sprintf("%d/%d", blocked, len(results))))
	}
	return exitOK
}
