package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"modernize/internal/composer"
	"modernize/internal/content"
	"modernize/internal/pagination"
	"modernize/internal/payload"
	"modernize/internal/services"
	"modernize/internal/variant"
)

const wizardHelp = `Commands:
  add <path>...              add pages to the job
  children <path> [direct]   add the pages below path
  remove <path|#>...         remove pages by path or row number
  next | prev | show         page through the selection
  goto <#>                   show the page starting at row #
  rules                      list the rules the job will apply
  set <option> <value>       name, target, conf, page-handling, source-root,
                             target-root, overwrite, reprocess
  options                    show the job options
  submit                     schedule the job
  quit                       leave without submitting`

// wizard drives a session from line-oriented commands.
type wizard struct {
	session *composer.Session
	opts    payload.Options
	out     io.Writer
}

func (w *wizard) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(w.out, "Composing a %s job. Type 'help' for commands.\n", w.session.Policy().Type())
	for {
		fmt.Fprint(w.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		done, err := w.execute(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(w.out, "error: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

func (w *wizard) execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "add":
		if len(args) == 0 {
			return false, errors.New("add needs at least one path")
		}
		result, err := w.session.Select(ctx, args)
		if err != nil {
			return false, err
		}
		w.show(result.Window)
	case "children":
		if len(args) == 0 {
			return false, errors.New("children needs a path")
		}
		direct := len(args) > 1 && strings.EqualFold(args[1], "direct")
		result, err := w.session.IncludeChildren(ctx, args[0], direct)
		if err != nil {
			return false, err
		}
		w.show(result.Window)
	case "remove", "rm":
		if len(args) == 0 {
			return false, errors.New("remove needs a path or row number")
		}
		paths, err := w.resolveRows(args)
		if err != nil {
			return false, err
		}
		result, err := w.session.Remove(ctx, paths)
		if err != nil {
			return false, err
		}
		for _, p := range result.Missing {
			fmt.Fprintf(w.out, "%s is not in the list\n", p)
		}
		w.show(result.Window)
	case "next":
		window, err := w.session.Next()
		if err != nil {
			return false, err
		}
		w.show(window)
	case "prev":
		window, err := w.session.Prev()
		if err != nil {
			return false, err
		}
		w.show(window)
	case "show", "ls":
		w.show(w.session.Window())
	case "goto":
		if len(args) != 1 {
			return false, errors.New("goto needs a row number")
		}
		row, err := strconv.Atoi(args[0])
		if err != nil || row < 1 {
			return false, fmt.Errorf("invalid row %q", args[0])
		}
		window, err := w.session.Restart(row - 1)
		if err != nil {
			return false, err
		}
		w.show(window)
	case "rules":
		w.printRules()
	case "set":
		if len(args) < 1 {
			return false, errors.New("set needs an option name")
		}
		if err := applyOption(&w.opts, args[0], strings.Join(args[1:], " ")); err != nil {
			return false, err
		}
		w.printOptions()
	case "options":
		w.printOptions()
	case "submit":
		submission, err := w.session.Submit(ctx, w.opts)
		if err != nil {
			if errors.Is(err, services.ErrBusy) {
				return false, err
			}
			return false, nil
		}
		printSubmission(w.out, submission)
		return true, nil
	case "help", "?":
		fmt.Fprintln(w.out, wizardHelp)
	case "quit", "exit", "q":
		if n := w.session.Len(); n > 0 {
			fmt.Fprintf(w.out, "Discarding %d selected item(s)\n", n)
		}
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (type 'help')", command)
	}
	return false, nil
}

func (w *wizard) show(window pagination.Window) {
	printWindow(w.out, w.session.Policy(), window)
}

// resolveRows maps 1-based row numbers onto item paths and passes other
// arguments through.
func (w *wizard) resolveRows(args []string) ([]string, error) {
	var items []*content.Item
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		row, err := strconv.Atoi(arg)
		if err != nil {
			paths = append(paths, arg)
			continue
		}
		if items == nil {
			items = w.session.Items()
		}
		if row < 1 || row > len(items) {
			return nil, fmt.Errorf("row %d out of range (1-%d)", row, len(items))
		}
		paths = append(paths, items[row-1].Path)
	}
	return paths, nil
}

func (w *wizard) printRules() {
	snapshot := w.session.Snapshot()
	policy := w.session.Policy()
	for _, domain := range policy.Domains() {
		ids := snapshot.RuleIDs[domain]
		fmt.Fprintf(w.out, "%s (%d):\n", variant.RuleField(domain), len(ids))
		for _, id := range ids {
			fmt.Fprintf(w.out, "  %s\n", id)
		}
	}
}

func (w *wizard) printOptions() {
	o := w.opts
	fmt.Fprintf(w.out, "  name:          %s\n", o.Name)
	fmt.Fprintf(w.out, "  target:        %s\n", o.TargetPath)
	fmt.Fprintf(w.out, "  conf:          %s\n", o.ConfPath)
	fmt.Fprintf(w.out, "  page-handling: %s\n", o.PageHandling)
	fmt.Fprintf(w.out, "  source-root:   %s\n", o.SourceRoot)
	fmt.Fprintf(w.out, "  target-root:   %s\n", o.TargetRoot)
	fmt.Fprintf(w.out, "  overwrite:     %s\n", yesNo(o.Overwrite))
	fmt.Fprintf(w.out, "  reprocess:     %s\n", yesNo(o.Reprocess))
}

func applyOption(opts *payload.Options, key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "name":
		opts.Name = value
	case "target":
		opts.TargetPath = value
	case "conf":
		opts.ConfPath = value
	case "source-root":
		opts.SourceRoot = value
	case "target-root":
		opts.TargetRoot = value
	case "page-handling":
		handling, err := payload.ParsePageHandling(value)
		if err != nil {
			return err
		}
		opts.PageHandling = handling
	case "overwrite", "reprocess":
		enabled, err := parseSwitch(value)
		if err != nil {
			return err
		}
		if strings.EqualFold(key, "overwrite") {
			opts.Overwrite = enabled
		} else {
			opts.Reprocess = enabled
		}
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "", "on", "yes", "true":
		return true, nil
	case "off", "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}
