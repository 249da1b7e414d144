package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/assignment"
	"github.com/17dpatra/studentassignmenttracker/core/auth"
	"github.com/17dpatra/studentassignmenttracker/core/course"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

// reportedError has already been shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

type command struct {
	usage string
	run   func(cli *commandLine, args []string) error
}

func (cli *commandLine) commands() map[string]command {
	return map[string]command{
		"register":          {"register -username USERNAME - create an account (password prompted)", (*commandLine).register},
		"login":             {"login -username USERNAME - log in (password prompted)", (*commandLine).login},
		"logout":            {"logout - forget the stored session", (*commandLine).logout},
		"whoami":            {"whoami - show the logged in user", (*commandLine).whoami},
		"courses":           {"courses [-sort name|start_date|end_date] [-order asc|desc] - list courses", (*commandLine).listCourses},
		"course-add":        {"course-add -name NAME -start YYYY-MM-DD -end YYYY-MM-DD - add a course", (*commandLine).addCourse},
		"course-edit":       {"course-edit -id ID [-name NAME] [-start DATE] [-end DATE] - edit a course", (*commandLine).editCourse},
		"course-delete":     {"course-delete -id ID [-yes] - delete a course and all its assignments", (*commandLine).deleteCourse},
		"assignments":       {"assignments [-sort title|description|due_date|priority|course_id] [-order asc|desc] - list assignments", (*commandLine).listAssignments},
		"assignment-add":    {"assignment-add -title TITLE -due DATE -course ID [-description TEXT] [-priority low|medium|high] - add an assignment", (*commandLine).addAssignment},
		"assignment-edit":   {"assignment-edit -id ID [-title] [-due] [-course] [-description] [-priority] - edit an assignment", (*commandLine).editAssignment},
		"assignment-delete": {"assignment-delete -id ID [-yes] - delete an assignment", (*commandLine).deleteAssignment},
		"calendar":          {"calendar [-month YYYY-MM] - show assignments by due date", (*commandLine).calendar},
		"config":            {"config - print the effective configuration", (*commandLine).printConfig},
	}
}

type commandLine struct {
	conf        *core.Config
	logger      core.Logger
	auth        *auth.Service
	courses     *course.Client
	assignments *assignment.Client

	in  io.Reader
	out io.Writer
}

func (cli *commandLine) commandNames() []string {
	cmds := cli.commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cli *commandLine) printUsage() {
	cmds := cli.commands()
	fmt.Fprintln(cli.out, "Usage:")
	for _, name := range cli.commandNames() {
		fmt.Fprintln(cli.out, "  "+cmds[name].usage)
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd, ok := cli.commands()[args[1]]
	if !ok {
		if args[1] == "help" || args[1] == "-h" || args[1] == "--help" {
			cli.printUsage()
			return errHelp
		}
		return core.UnknownChoiceError("command", args[1], cli.commandNames())
	}
	return cmd.run(cli, args[2:])
}

// flagSet returns a flag set reporting to the CLI's output.
func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// newContext bounds one command by api.timeout.
func (cli *commandLine) newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cli.conf.API.Timeout)
}

func (cli *commandLine) readPassword(fs *flag.FlagSet) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

// confirm asks a yes/no question; anything but y/yes is a no.
func (cli *commandLine) confirm(question string) bool {
	fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(cli.in).ReadString('\n')
	switch core.CleanString(answer, true /* lower */) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Notify prints form messages.
func (cli *commandLine) Notify(msg string) {
	fmt.Fprintln(cli.out, msg)
}

// requireSession fails early when nobody is logged in or the session expired.
func (cli *commandLine) requireSession(ctx context.Context) error {
	_, err := cli.auth.Current(ctx)
	switch errors.Cause(err) {
	case nil:
		return nil
	case auth.ErrNoSession:
		return errors.New("not logged in, run `tracker login -username USERNAME` first")
	case auth.ErrSessionExpired:
		return errors.New("session expired, run `tracker login -username USERNAME` again")
	default:
		return err
	}
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var rErr *core.RequestError
	switch {
	case core.IsValidation(err):
		return errors.Cause(err).Error()
	case errors.As(err, &rErr):
		return rErr.Message
	case core.IsTransport(err):
		return "could not reach the tracker API: " + err.Error()
	default:
		return err.Error()
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
