package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xtal/project"
	"github.com/dhamidi/xtal/xtal/codebase"
)

func newCheckCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Parse every source file and report diagnostics",
		Long: `Parse the project's source files, or the given files and directories,
and print one "file:line:col: CODE: message" line per diagnostic. Exits
non-zero when any file has errors. With --watch, keeps polling and
re-checks files as they change.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load()
			if err != nil {
				return err
			}
			files, err := checkTargets(proj, args)
			if err != nil {
				return err
			}
			if watch {
				if len(args) == 0 {
					files = nil
				}
				return runWatch(cmd.Context(), cmd.OutOrStdout(), proj, files)
			}
			return runCheck(cmd.OutOrStdout(), proj, files)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-check files when they change")

	return cmd
}

// checkTargets resolves the command line paths against the project. Named
// directories replace the configured source directories.
func checkTargets(proj *project.Project, args []string) ([]string, error) {
	if len(args) == 0 {
		return proj.Files()
	}

	var files, dirs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			dirs = append(dirs, arg)
		} else {
			files = append(files, arg)
		}
	}
	if len(dirs) > 0 {
		proj.RootDir = "."
		proj.Config.Source.Dirs = dirs
		found, err := proj.Files()
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func runCheck(w io.Writer, proj *project.Project, files []string) error {
	cb := codebase.New(proj)
	for _, path := range files {
		if err := cb.ScanFile(path); err != nil {
			return err
		}
	}

	diags := cb.Diagnostics()
	for _, e := range diags {
		fmt.Fprintln(w, e)
	}
	log.Infof("checked %d files, %d errors", len(files), len(diags))
	if len(diags) > 0 {
		return fmt.Errorf("%d errors in %d files", len(diags), len(files))
	}
	return nil
}

// runWatch polls files until interrupted. A nil files slice follows the
// project's source directories, picking up new files as they appear.
func runWatch(ctx context.Context, w io.Writer, proj *project.Project, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cb := codebase.New(proj)
	watcher := codebase.NewFileWatcher(cb, func(path string, info *codebase.FileInfo) {
		if info == nil {
			fmt.Fprintf(w, "%s: removed\n", path)
			return
		}
		if len(info.Errors) == 0 {
			fmt.Fprintf(w, "%s: ok\n", path)
			return
		}
		for _, e := range info.Errors {
			fmt.Fprintln(w, e)
		}
	})
	watcher.SetFiles(files)
	watcher.Start()
	defer watcher.Stop()

	<-ctx.Done()
	return nil
}
