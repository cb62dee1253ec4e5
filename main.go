package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chazu/patternhub/pkg/logging"
	"github.com/chazu/patternhub/pkg/measure"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose      bool
		profilesPath string
		app          *App
	)
	root := &cobra.Command{
		Use:           "patternhub",
		Short:         "Draft sewing pattern blocks from body measurements",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logging.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			var opts []Option
			if profilesPath != "" {
				t, err := loadProfiles(profilesPath)
				if err != nil {
					return err
				}
				opts = append(opts, WithProfiles(t))
			}
			app = NewApp(opts...)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log construction details to stderr")
	root.PersistentFlags().StringVar(&profilesPath, "profiles", "", "fit profile table (YAML) replacing the built-in one")

	get := func() *App { return app }
	root.AddCommand(
		newMethodsCmd(get),
		newProfilesCmd(get),
		newDraftCmd(get),
		newCompareCmd(get),
	)
	return root
}

func loadProfiles(path string) (*measure.ProfileTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := measure.LoadProfiles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func newMethodsCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the drafting methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTITLE\tUNIT\tFILE")
			for _, e := range app().Catalog().Entries() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key(), e.Title(), e.Method.Unit(), e.Filename)
			}
			return tw.Flush()
		},
	}
}

func newProfilesCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the fit profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := app().Profiles()
			def := t.DefaultProfile().Name
			for i, name := range t.Names() {
				mark := " "
				if name == def {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s\n", mark, i, name)
			}
			return nil
		},
	}
}

type draftFlags struct {
	input     string
	script    string
	out       string
	noGuides  bool
	noMarkers bool
	derived   bool
}

// prepare loads the measurement file and script into the working input.
func (f draftFlags) prepare(a *App, key string, stderr io.Writer) error {
	if f.input != "" {
		data, err := os.ReadFile(f.input)
		if err != nil {
			return err
		}
		if err := a.LoadInput(key, data); err != nil {
			return fmt.Errorf("%s: %w", f.input, err)
		}
	}
	if f.script != "" {
		src, err := os.ReadFile(f.script)
		if err != nil {
			return err
		}
		res, err := a.Evaluate(key, string(src))
		if err != nil {
			return err
		}
		for _, e := range res.Errors {
			fmt.Fprintf(stderr, "%s:%d:%d: %s\n", f.script, e.Line, e.Col, e.Message)
		}
		if len(res.Errors) > 0 {
			return fmt.Errorf("%s: %d script error(s)", f.script, len(res.Errors))
		}
	}
	if f.noGuides || f.noMarkers {
		in, err := a.Input(key)
		if err != nil {
			return err
		}
		v := in.View()
		v.ShowGuides = v.ShowGuides && !f.noGuides
		v.ShowMarkers = v.ShowMarkers && !f.noMarkers
		if err := a.SetView(key, v); err != nil {
			return err
		}
	}
	return nil
}

func newDraftCmd(app func() *App) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "draft <method>",
		Short: "Draft one pattern and export it as SVG or DXF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, key := app(), args[0]
			e, err := a.Catalog().Entry(key)
			if err != nil {
				return err
			}
			if err := f.prepare(a, key, cmd.ErrOrStderr()); err != nil {
				return err
			}
			d, err := a.Regenerate(key)
			if err != nil {
				return err
			}
			preview, err := a.Preview(key)
			if err != nil {
				return err
			}
			for _, w := range preview.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			out := lo.Ternary(f.out == "", e.Filename, f.out)
			if err := a.Export(key, preview, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: wrote %s (%d points)\n", d.Name, out, len(preview.Points))
			if f.derived {
				keys := lo.Keys(preview.Derived)
				slices.Sort(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s = %.2f %s\n", k, preview.Derived[k], preview.Unit)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "measurement file (YAML) over the method defaults")
	cmd.Flags().StringVarP(&f.script, "script", "s", "", "measurement script applied after the input file")
	cmd.Flags().StringVarP(&f.out, "output", "o", "", "output file, .svg or .dxf (default: the method's file name)")
	cmd.Flags().BoolVar(&f.noGuides, "no-guides", false, "hide construction guides")
	cmd.Flags().BoolVar(&f.noMarkers, "no-markers", false, "hide point markers and labels")
	cmd.Flags().BoolVar(&f.derived, "derived", false, "print the derived values")
	return cmd
}

func newCompareCmd(app func() *App) *cobra.Command {
	var (
		inputs []string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "compare <method> -i a.yaml -i b.yaml ...",
		Short: "Draft several measurement sets of one method into a single document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, key := app(), args[0]
			e, err := a.Catalog().Entry(key)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("compare needs at least one --input")
			}
			for i, path := range inputs {
				if i > 0 {
					if _, err := a.Duplicate(key); err != nil {
						return err
					}
				}
				if err := (draftFlags{input: path}).prepare(a, key, cmd.ErrOrStderr()); err != nil {
					return err
				}
				d, err := a.Regenerate(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", d.Name, d.Color, path)
			}
			out = lo.Ternary(out == "", e.StackFilename, out)
			if err := a.ExportDrafts(key, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "measurement file (YAML); repeat for each draft")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, .svg or .dxf (default: the method's drafts file name)")
	return cmd
}
