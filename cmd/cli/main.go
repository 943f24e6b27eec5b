// Command whatthewaf is the terminal front end of the What The WAF
// academy: a toy detector, an anomaly score calculator, an encoder
// workbench, bypass challenges and a quiz.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches to a subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	rest := args[1:]
	switch args[0] {
	case "detect", "check":
		return runDetect(rest, stdin, stdout, stderr)
	case "encode", "enc":
		return runEncode(rest, stdin, stdout, stderr)
	case "decode", "dec":
		return runDecode(rest, stdin, stdout, stderr)
	case "score", "calc":
		return runScore(rest, stdin, stdout, stderr)
	case "challenge", "ch":
		return runChallenge(rest, stdin, stdout, stderr)
	case "quiz":
		return runQuiz(rest, stdin, stdout, stderr)
	case "rules":
		return runRules(rest, stdin, stdout, stderr)
	case "shell", "repl":
		return runShell(rest, stdin, stdout, stderr)
	case "report":
		return runReport(rest, stdin, stdout, stderr)
	case "-h", "--help", "help":
		printUsage(stdout)
		return exitOK
	case "-version", "--version", "version":
		fmt.Fprintf(stdout, "whatthewaf v%s (%s, %s)\n", ui.Version, ui.Commit, ui.BuildDate)
		return exitOK
	default:
		printError(stderr, "unknown command %q", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	ui.PrintBanner(w)

	ui.PrintSection(w, "COMMANDS")
	cmds := []struct{ name, desc string }{
		{"detect", "Run text through the rule catalogue (-file for one payload per line)"},
		{"encode", "Encode text (-mode url|base64|html|unicode|double-url, -all)"},
		{"decode", "Decode text with -mode"},
		{"score", "Add up violations (-scenario attack|api-client, -list)"},
		{"challenge", "Submit a bypass for -level 1..5 (-list for briefs)"},
		{"quiz", "Take the quiz interactively or grade -answers 1,2,1,2,2"},
		{"rules", "List rules (-category sqli, -format yaml|json)"},
		{"shell", "Interactive session (-metrics-addr 127.0.0.1:9464)"},
		{"report", "Replay shell commands and print a session report"},
	}
	for _, c := range cmds {
		fmt.Fprintf(w, "  %s %s\n", ui.ValueStyle.Render(fmt.Sprintf("%-10s", c.name)), c.desc)
	}

	fmt.Fprintln(w)
	ui.PrintSection(w, "COMMON FLAGS")
	fmt.Fprintln(w, "  -config file    YAML config (defaults are built in)")
	fmt.Fprintln(w, "  -rules file     extra rules merged into the catalogue")
	fmt.Fprintln(w, "  -log-level lvl  debug, info, warn, error   -v  debug")
	fmt.Fprintln(w, "  -json           JSON logs                  -no-color")
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.HelpStyle.Render("  Example: whatthewaf challenge -level 1 '<SCRIPT>alert(1)</SCRIPT>'"))
}
