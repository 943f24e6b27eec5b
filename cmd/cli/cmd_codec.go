package main

import (
	"fmt"
	"io"

	"github.com/whatthewaf/whatthewaf/pkg/encoding"
	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

func runEncode(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newCommand("encode", stderr)
	all := cmd.fs.Bool("all", false, "Encode with every mode")
	sample := cmd.fs.Int("sample", 0, "Encode quick sample N (1-5) instead of text")
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	sess, err := a.session(nil)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	var text string
	if *sample > 0 {
		if !sess.Workbench().Load(*sample - 1) {
			return usageError(stderr, fmt.Sprintf("no sample %d", *sample), "whatthewaf encode -sample 1..5")
		}
		text = sess.Workbench().Input
	} else if text, err = inputText(cmd.fs.Args(), stdin); err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	if *all {
		fmt.Fprintln(stdout, ui.RenderEncodeAll(encoding.EncodeWithAll(text)))
		return exitOK
	}
	out, err := sess.Encode(sess.Mode(), text)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	fmt.Fprintln(stdout, out)
	return exitOK
}

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newCommand("decode", stderr)
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	text, err := inputText(cmd.fs.Args(), stdin)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	sess, err := a.session(nil)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	out, err := sess.Decode(sess.Mode(), text)
	if err != nil {
		fmt.Fprintln(stderr, ui.RenderDecodeResult(sess.Mode(), "", err))
		return exitError
	}
	fmt.Fprintln(stdout, out)
	return exitOK
}
