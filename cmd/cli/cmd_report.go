package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/whatthewaf/whatthewaf/pkg/report"
)

var timeNow = time.Now

func runReport(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	const usage = "whatthewaf report [-script file] [-format text|markdown|html|json] [-o file]"
	cmd := newCommand("report", stderr)
	script := cmd.fs.String("script", "", "Shell commands to replay (default: stdin)")
	format := cmd.fs.String("format", "", "Report format: text, markdown, html, json (default: from -o extension)")
	output := cmd.fs.String("o", "", "Write the report to this file")
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	name := *format
	if name == "" && *output != "" {
		name = extension(*output)
	}
	f, err := report.ParseFormat(name)
	if err != nil {
		return usageError(stderr, err.Error(), usage)
	}

	in := stdin
	if *script != "" {
		file, err := os.Open(*script)
		if err != nil {
			printError(stderr, "%v", err)
			return exitError
		}
		defer file.Close()
		in = file
	}

	sess, err := a.session(nil)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	sh, err := newShell(sess, io.Discard)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	if err := replay(sh, in); err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	out := stdout
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			printError(stderr, "%v", err)
			return exitError
		}
		defer file.Close()
		out = file
	}
	if err := sh.gen.Generate(report.Build(sess.Summary(), timeNow()), f, out); err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	return exitOK
}

// replay runs every line of in through sh, stopping at the first failure.
func replay(sh *shell, in io.Reader) error {
	lines, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	for i, line := range splitLines(string(lines)) {
		err := sh.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
