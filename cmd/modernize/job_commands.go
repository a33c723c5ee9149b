package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"modernize/internal/composer"
	"modernize/internal/payload"
)

// jobFlags are the scalar job choices shared by create and wizard.
type jobFlags struct {
	jobType      string
	name         string
	target       string
	conf         string
	pageHandling string
	sourceRoot   string
	targetRoot   string
	overwrite    bool
	reprocess    bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.jobType, "type", "t", "structure", "Job type: component, policy, structure, or full")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Job name")
	cmd.Flags().StringVar(&f.target, "target", "", "Target path for converted components or policies")
	cmd.Flags().StringVar(&f.conf, "conf", "", "Configuration path receiving imported policies")
	cmd.Flags().StringVar(&f.pageHandling, "page-handling", "none", "Page handling: none, restore, or copy")
	cmd.Flags().StringVar(&f.sourceRoot, "source-root", "", "Source root when copying pages")
	cmd.Flags().StringVar(&f.targetRoot, "target-root", "", "Target root when copying pages")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Overwrite existing content at the target")
	cmd.Flags().BoolVar(&f.reprocess, "reprocess", false, "Reprocess content that was already converted")
}

func (f jobFlags) options() (payload.Options, error) {
	handling, err := payload.ParsePageHandling(f.pageHandling)
	if err != nil {
		return payload.Options{}, err
	}
	return payload.Options{
		Name:         strings.TrimSpace(f.name),
		ConfPath:     strings.TrimSpace(f.conf),
		TargetPath:   strings.TrimSpace(f.target),
		SourceRoot:   strings.TrimSpace(f.sourceRoot),
		TargetRoot:   strings.TrimSpace(f.targetRoot),
		Overwrite:    f.overwrite,
		Reprocess:    f.reprocess,
		PageHandling: handling,
	}, nil
}

func newJobCommand(ctx *commandContext) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Compose and schedule conversion jobs",
	}

	jobCmd.AddCommand(newJobCreateCommand(ctx))
	jobCmd.AddCommand(newJobWizardCommand(ctx))

	return jobCmd
}

func newJobCreateCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var paths []string
	var childRoots []string
	var direct bool
	var yes bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Select pages and schedule a job in one step",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths = append(paths, args...)
			if len(paths) == 0 && len(childRoots) == 0 {
				return errors.New("at least one --path or --children root is required")
			}
			opts, err := flags.options()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			noticeOut := out
			if jsonOut {
				noticeOut = cmd.ErrOrStderr()
			}
			return ctx.withSession(flags, noticeOut, func(session *composer.Session) error {
				if len(paths) > 0 {
					if _, err := session.Select(cmd.Context(), paths); err != nil {
						return err
					}
				}
				for _, root := range childRoots {
					if _, err := session.IncludeChildren(cmd.Context(), root, direct); err != nil {
						return err
					}
				}

				if !jsonOut {
					printWindow(out, session.Policy(), session.Window())
				}
				if !yes {
					confirmed, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Submit job %q with %d item(s)?", opts.Name, session.Len()))
					if err != nil {
						return err
					}
					if !confirmed {
						fmt.Fprintln(out, "Aborted; nothing was submitted")
						return nil
					}
				}

				submission, err := session.Submit(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, submissionJSON(submission))
				}
				printSubmission(out, submission)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&paths, "path", "p", nil, "Page path to add (repeatable)")
	cmd.Flags().StringSliceVar(&childRoots, "children", nil, "Add every page below this path (repeatable)")
	cmd.Flags().BoolVar(&direct, "direct", false, "With --children, only add immediate children")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Submit without asking for confirmation")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the scheduled job as JSON")
	return cmd
}

func newJobWizardCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Compose a job interactively",
		Long: "Reads commands from stdin, one per line. Type 'help' for the list of commands.\n" +
			"The draft lives only for the duration of the wizard.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return ctx.withSession(flags, out, func(session *composer.Session) error {
				w := &wizard{session: session, opts: opts, out: out}
				return w.run(cmd.Context(), cmd.InOrStdin())
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func submissionJSON(s composer.Submission) map[string]any {
	return map[string]any{
		"request_id": s.RequestID,
		"job":        s.Scheduled.Job,
		"message":    s.Scheduled.Message,
		"buckets":    s.Buckets,
		"journal_id": s.JournalID,
		"payload":    s.Payload,
	}
}
