package main

import (
	"fmt"
	"io"

	"github.com/whatthewaf/whatthewaf/pkg/rules"
	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

func runRules(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	const usage = "whatthewaf rules [-category sqli] [-format text|yaml|json]"
	cmd := newCommand("rules", stderr)
	category := cmd.fs.String("category", "", "Only rules of this category")
	format := cmd.fs.String("format", "text", "Output format: text, yaml, json")
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	cat, err := a.catalogue()
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	list := cat.Rules()
	if *category != "" {
		c, ok := rules.ParseCategory(*category)
		if !ok {
			return usageError(stderr, "unknown category "+*category, usage)
		}
		list = cat.ByCategory(c)
	}

	switch *format {
	case "yaml", "json":
		marshal := rules.Marshal
		if *format == "json" {
			marshal = rules.MarshalJSON
		}
		data, err := marshal(rules.MustNew(list...))
		if err != nil {
			printError(stderr, "%v", err)
			return exitError
		}
		_, _ = stdout.Write(data)
		if *format == "json" {
			fmt.Fprintln(stdout)
		}
	case "text":
		fmt.Fprintln(stdout, ui.RenderRules(list))
	default:
		return usageError(stderr, "unknown format "+*format, usage)
	}
	return exitOK
}
