package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/whatthewaf/whatthewaf/pkg/academy"
	"github.com/whatthewaf/whatthewaf/pkg/challenge"
	"github.com/whatthewaf/whatthewaf/pkg/encoding"
	"github.com/whatthewaf/whatthewaf/pkg/metrics"
	"github.com/whatthewaf/whatthewaf/pkg/report"
	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

var errQuit = errors.New("quit")

const shellHelp = `  detect <text>             run text through the rules
  encode <text>             encode with the current mode
  decode <text>             decode with the current mode
  mode [name]               show or select the encoder mode
  sample <1-5>              load a quick-fill payload and encode it
  score <code>|reset|show|list|sim <name>
  levels                    list the challenge levels
  challenge <1-5> <text>    submit a bypass
  quiz | answer <1-4> | next | prev | retry
  report [text|markdown|html|json]
  help | quit`

// shell executes one line at a time against a single academy session.
type shell struct {
	sess *academy.Session
	out  io.Writer
	gen  *report.Generator
}

func newShell(sess *academy.Session, out io.Writer) (*shell, error) {
	gen, err := report.NewGenerator()
	if err != nil {
		return nil, err
	}
	return &shell{sess: sess, out: out, gen: gen}, nil
}

// exec runs one command line. Lines may carry a leading ':'. It returns
// errQuit when the user asks to leave.
func (s *shell) exec(line string) error {
	line = strings.TrimPrefix(strings.TrimSpace(line), ":")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "detect", "d":
		fmt.Fprintln(s.out, ui.RenderDetect(s.sess.Detect(rest).Matched))
	case "encode", "e":
		out, err := s.sess.Encode(s.sess.Mode(), rest)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, ui.Field(s.sess.Mode().Label(), out))
	case "decode":
		out, err := s.sess.Decode(s.sess.Mode(), rest)
		fmt.Fprintln(s.out, ui.RenderDecodeResult(s.sess.Mode(), out, err))
	case "mode":
		if rest != "" {
			m, err := encoding.ParseMode(rest)
			if err != nil {
				return err
			}
			if err := s.sess.SetMode(m); err != nil {
				return err
			}
		}
		fmt.Fprintln(s.out, ui.Field("Mode", s.sess.Mode().Label()))
	case "sample":
		n, err := strconv.Atoi(rest)
		if err != nil || !s.sess.Workbench().Load(n-1) {
			return fmt.Errorf("sample must be 1-%d", len(encoding.Samples()))
		}
		wb := s.sess.Workbench()
		fmt.Fprintln(s.out, ui.Field("Input", wb.Input))
		fmt.Fprintln(s.out, ui.Field(wb.Mode().Label(), wb.Output))
	case "score":
		return s.score(rest)
	case "levels":
		for _, lv := range challenge.Levels() {
			fmt.Fprintln(s.out, ui.RenderLevel(lv, s.sess.Progress().IsCompleted(lv.Index)))
		}
		fmt.Fprintln(s.out, ui.RenderChallengeProgress(s.sess.Progress().CompletedCount(), challenge.Count()))
	case "challenge", "ch":
		return s.challenge(rest)
	case "quiz", "answer", "next", "prev", "retry":
		return s.quiz(strings.ToLower(name), rest)
	case "report":
		format, err := report.ParseFormat(rest)
		if err != nil {
			return err
		}
		return s.gen.Generate(report.Build(s.sess.Summary(), timeNow()), format, s.out)
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return nil
}

func (s *shell) score(arg string) error {
	verb, rest, _ := strings.Cut(arg, " ")
	switch strings.ToLower(verb) {
	case "", "show":
	case "reset":
		s.sess.ScoreReset()
	case "list":
		fmt.Fprintln(s.out, ui.RenderViolations())
		return nil
	case "sim", "simulate":
		if _, err := s.sess.ScoreSimulate(rest); err != nil {
			return err
		}
	default:
		if _, err := s.sess.ScoreToggle(strings.ToUpper(verb)); err != nil {
			return err
		}
	}
	fmt.Fprintln(s.out, ui.RenderScore(s.sess.ScoreSnapshot()))
	return nil
}

func (s *shell) challenge(arg string) error {
	num, payload, _ := strings.Cut(arg, " ")
	n, err := strconv.Atoi(num)
	if err != nil {
		return fmt.Errorf("usage: challenge <1-%d> <payload>", challenge.Count())
	}
	lv, err := challenge.Get(n - 1)
	if err != nil {
		return err
	}
	res, err := s.sess.ChallengeValidate(lv.Index, payload)
	if err != nil {
		return err
	}
	a := challenge.Attempt{Level: lv.Index, Input: payload, Outcome: challenge.Failure, Reason: res.Reason}
	if res.Success {
		a.Outcome = challenge.Success
	}
	fmt.Fprintln(s.out, ui.RenderAttempt(lv, a))
	if res.NewlyCompleted {
		fmt.Fprintln(s.out, ui.RenderChallengeProgress(s.sess.Progress().CompletedCount(), challenge.Count()))
	}
	return nil
}

func (s *shell) quiz(verb, arg string) error {
	q := s.sess.Quiz()
	switch verb {
	case "answer":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("usage: answer <1-%d>", len(q.Current().Options))
		}
		if _, err := q.Answer(n - 1); err != nil {
			return err
		}
	case "next":
		if err := q.Next(); err != nil {
			return err
		}
	case "prev":
		q.Prev()
	case "retry":
		q.Retry()
	}
	if q.Finished() {
		fmt.Fprintln(s.out, ui.RenderQuizResult(q))
		return nil
	}
	fmt.Fprintln(s.out, ui.RenderQuestion(q.Index(), q.Current(), q.Selected(q.Index())))
	return nil
}

// repl reads lines from in until EOF or quit. Command errors are printed
// and do not end the loop.
func (s *shell) repl(in io.Reader, prompt string) error {
	sc := bufio.NewScanner(in)
	for {
		if prompt != "" {
			fmt.Fprint(s.out, prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		err := s.exec(sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			printError(s.out, "%v", err)
		}
	}
}

func runShell(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newCommand("shell", stderr)
	metricsAddr := cmd.fs.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	a, code := cmd.parse(args, stdin, stdout, stderr)
	if code != nil {
		return *code
	}
	defer a.log.Sync() //nolint:errcheck

	addr := a.cfg.MetricsAddr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}

	var rec metrics.Recorder = metrics.Nop{}
	if addr != "" {
		prom, err := metrics.NewPrometheus()
		if err != nil {
			printError(stderr, "%v", err)
			return exitError
		}
		srv, err := metrics.Serve(prom, addr, a.log)
		if err != nil {
			printError(stderr, "metrics: %v", err)
			return exitError
		}
		defer srv.Close() //nolint:errcheck
		fmt.Fprintln(stdout, ui.Field("Metrics", srv.URL()))
		rec = prom
	}

	sess, err := a.session(rec)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	sh, err := newShell(sess, stdout)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	prompt := ""
	if ui.StdinIsTerminal() {
		ui.PrintBanner(stdout)
		fmt.Fprintln(stdout, ui.HelpStyle.Render("  type help for commands"))
		prompt = "waf> "
	}
	a.log.Debug("shell started", zap.String("session", sess.ID()))
	if err := sh.repl(stdin, prompt); err != nil {
		printError(stderr, "%v", err)
		return exitError
	}
	return exitOK
}
