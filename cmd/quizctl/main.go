// Command quizctl is a terminal front end for the quiz API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/lshigami/quizforge/config"
	"github.com/lshigami/quizforge/internal/client"
	"github.com/lshigami/quizforge/internal/client/form"
	"github.com/lshigami/quizforge/internal/client/view"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/lshigami/quizforge/internal/logger"
	"github.com/lshigami/quizforge/internal/question"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

const usage = `Usage: quizctl [--api URL] <command> [flags]

Commands:
  list                          list quizzes
  show ID                       show one quiz with its questions
  delete ID [--yes]             delete a quiz after confirmation
  create                        build a quiz interactively
  generate --topic T [--count N] [--yes]
                                draft a quiz with AI, review it, then save
  ping                          check that the API is reachable
`

func main() {
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, interactive))
}

type cli struct {
	api         *client.Client
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer, interactive bool) int {
	fs := pflag.NewFlagSet("quizctl", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.SetInterspersed(false)
	fs.Usage = func() { fmt.Fprint(errOut, usage) }
	apiURL := fs.String("api", "", "quiz API base URL (default $QUIZ_API_URL or "+config.DefaultAPIURL+")")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	base := *apiURL
	if base == "" {
		base = config.NewClientConfig().APIURL
	}
	c := &cli{
		api:         client.New(client.Config{BaseURL: base}),
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var err error
	switch cmd {
	case "list":
		err = c.list(ctx)
	case "show":
		err = c.show(ctx, rest)
	case "delete":
		err = c.remove(ctx, rest, errOut)
	case "create":
		err = c.create(ctx)
	case "generate":
		err = c.generate(ctx, rest, errOut)
	case "ping":
		err = c.ping(ctx)
	default:
		fmt.Fprintf(errOut, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}

	var uerr usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &uerr):
		fmt.Fprintln(errOut, err)
		return 2
	default:
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
}

type usageError string

func (u usageError) Error() string { return string(u) }

func (c *cli) list(ctx context.Context) error {
	d := view.NewDashboard(c.api)
	loadErr := d.Load(ctx)
	if err := d.Render(c.out); err != nil {
		return err
	}
	return loadErr
}

func (c *cli) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("usage: quizctl show ID")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	d := view.NewDetail(c.api)
	loadErr := d.Load(ctx, id)
	if err := d.Render(c.out); err != nil {
		return err
	}
	return loadErr
}

func (c *cli) remove(ctx context.Context, args []string, errOut io.Writer) error {
	fs := pflag.NewFlagSet("delete", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	yes := fs.BoolP("yes", "y", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if fs.NArg() != 1 {
		return usageError("usage: quizctl delete ID [--yes]")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	d := view.NewDashboard(c.api)
	if err := d.Load(ctx); err != nil {
		return err
	}
	if err := d.RequestDelete(id); err != nil {
		return err
	}
	pending, _ := d.PendingDelete()

	if !*yes {
		ok, err := c.confirm(fmt.Sprintf("Delete %q (%d questions)?", pending.Title, pending.QuestionCount))
		if err != nil {
			return err
		}
		if !ok {
			d.CancelDelete()
			fmt.Fprintln(c.out, "Cancelled.")
			return nil
		}
	}
	if err := d.ConfirmDelete(ctx); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Deleted %q.\n", pending.Title)
	return nil
}

func (c *cli) ping(ctx context.Context) error {
	if err := c.api.Ping(ctx); err != nil {
		return fmt.Errorf("API at %s is not reachable: %w", c.api.BaseURL(), err)
	}
	fmt.Fprintf(c.out, "API at %s is reachable.\n", c.api.BaseURL())
	return nil
}

func (c *cli) create(ctx context.Context) error {
	f := form.New()
	title, err := c.prompt("Quiz title: ")
	if err != nil {
		return err
	}
	f.SetTitle(title)

	id := f.Entries()[0].ID
	for n := 1; ; n++ {
		if err := c.editEntry(f, id, n); err != nil {
			return err
		}
		more, err := c.confirm("Add another question?")
		if err != nil {
			return err
		}
		if !more {
			break
		}
		id = f.AddQuestion()
	}
	return c.submit(ctx, f)
}

func (c *cli) editEntry(f *form.Form, id string, n int) error {
	kind, err := c.prompt(fmt.Sprintf("Question %d type, [b]oolean, [i]nput or [c]heckbox (default b): ", n))
	if err != nil {
		return err
	}
	t, err := parseKind(kind)
	if err != nil {
		return err
	}
	if err := f.SetType(id, t); err != nil {
		return err
	}
	text, err := c.prompt(fmt.Sprintf("Question %d text: ", n))
	if err != nil {
		return err
	}
	if err := f.SetText(id, text); err != nil {
		return err
	}
	if t != question.Checkbox {
		return nil
	}
	for i := 0; ; i++ {
		opt, err := c.prompt(fmt.Sprintf("  Option %d (blank to finish): ", i+1))
		if err != nil {
			return err
		}
		if strings.TrimSpace(opt) == "" && i > 0 {
			return nil
		}
		if i > 0 {
			if err := f.AddOption(id); err != nil {
				return err
			}
		}
		if err := f.SetOption(id, i, opt); err != nil {
			return err
		}
	}
}

// submit sends the form, offering to fix problems and retry. The form keeps
// everything entered so far between attempts.
func (c *cli) submit(ctx context.Context, f *form.Form) error {
	for {
		quiz, err := f.Submit(ctx, c.api)
		if err == nil {
			fmt.Fprintf(c.out, "Created quiz %d %q with %d questions.\n", quiz.ID, quiz.Title, len(quiz.Questions))
			return nil
		}

		var invalid *form.Errors
		if errors.As(err, &invalid) {
			c.printFormErrors(f, invalid)
			if err := c.fix(f, invalid); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintln(c.out, "Failed to create quiz:", err)
		retry, perr := c.confirm("Retry?")
		if perr != nil {
			return perr
		}
		if !retry {
			return err
		}
	}
}

func (c *cli) printFormErrors(f *form.Form, errs *form.Errors) {
	if errs.Title != "" {
		fmt.Fprintln(c.out, "- title:", errs.Title)
	}
	for i, e := range f.Entries() {
		if problems := errs.Entries[e.ID]; len(problems) > 0 {
			fmt.Fprintf(c.out, "- question %d: %s\n", i+1, strings.Join(problems, ", "))
		}
	}
}

// fix re-prompts only the fields that failed validation.
func (c *cli) fix(f *form.Form, errs *form.Errors) error {
	if errs.Title != "" {
		title, err := c.prompt("Quiz title: ")
		if err != nil {
			return err
		}
		f.SetTitle(title)
	}
	for i, e := range f.Entries() {
		if len(errs.Entries[e.ID]) == 0 {
			continue
		}
		if strings.TrimSpace(e.Text) == "" {
			text, err := c.prompt(fmt.Sprintf("Question %d text: ", i+1))
			if err != nil {
				return err
			}
			if err := f.SetText(e.ID, text); err != nil {
				return err
			}
		}
		if e.Type != question.Checkbox {
			continue
		}
		for j, o := range e.Options {
			if strings.TrimSpace(o) != "" {
				continue
			}
			opt, err := c.prompt(fmt.Sprintf("Question %d option %d: ", i+1, j+1))
			if err != nil {
				return err
			}
			if err := f.SetOption(e.ID, j, opt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *cli) generate(ctx context.Context, args []string, errOut io.Writer) error {
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	topic := fs.StringP("topic", "t", "", "what the quiz is about")
	count := fs.IntP("count", "n", 5, "number of questions (1-20)")
	yes := fs.BoolP("yes", "y", false, "save the draft without asking")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if strings.TrimSpace(*topic) == "" {
		return usageError("usage: quizctl generate --topic T [--count N] [--yes]")
	}

	draft, err := c.api.GenerateDraft(ctx, *topic, *count)
	if err != nil {
		return err
	}
	printDraft(c.out, draft)

	if !*yes {
		ok, err := c.confirm("Save this quiz?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(c.out, "Draft discarded.")
			return nil
		}
	}
	return c.submit(ctx, form.FromDraft(*draft))
}

func printDraft(w io.Writer, draft *dto.CreateQuizRequest) {
	fmt.Fprintf(w, "Draft: %s\n", draft.Title)
	for i, q := range draft.Questions {
		v := view.Present(i+1, dto.QuestionResponse{Text: q.Text, Type: q.Type, Options: q.Options})
		fmt.Fprintf(w, "%d. %s  [%s]\n", v.Number, v.Text, v.Label)
		if v.Type == question.Checkbox {
			for _, choice := range v.Choices {
				fmt.Fprintf(w, "   [ ] %s\n", choice)
			}
		}
	}
}

func (c *cli) prompt(label string) (string, error) {
	if c.interactive {
		fmt.Fprint(c.out, label)
	}
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("input ended before the quiz was complete")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) confirm(label string) (bool, error) {
	answer, err := c.prompt(label + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func parseKind(s string) (question.Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "b", "boolean":
		return question.Boolean, nil
	case "i", "input":
		return question.Input, nil
	case "c", "checkbox":
		return question.Checkbox, nil
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, usageError(fmt.Sprintf("invalid quiz id %q", s))
	}
	return uint(id), nil
}
