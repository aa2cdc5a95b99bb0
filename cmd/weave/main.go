// Command weave is a small CLI over the engine package: render a
// template file against a JSON data file, or check a template for
// syntax errors. Deliberately thin — spec.md §1 places CLI examples out
// of scope; this exists only to exercise the public API end-to-end.
// Grounded on the cobra root-command-with-subcommands shape of
// opal-lang-opal/cli/main.go.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/weave/builtins"
	"github.com/aledsdavies/weave/engine"
	"github.com/aledsdavies/weave/interp"
	"github.com/aledsdavies/weave/loader"
	"github.com/aledsdavies/weave/value"
	"github.com/aledsdavies/weave/weaveerr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "weave:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "weave",
		Short:         "Render and check weave templates",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newRenderCmd(), newCheckCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var includeDir string
	cmd := &cobra.Command{
		Use:   "render <template> <data.json>",
		Short: "Render a template file against a JSON data file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], args[1], includeDir)
		},
	}
	cmd.Flags().StringVar(&includeDir, "include-dir", "", "directory of partials available to {% include %}, loaded by name")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <template>",
		Short: "Parse and compile a template, reporting any syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func runRender(cmd *cobra.Command, templatePath, dataPath, includeDir string) error {
	src, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("reading data: %w", err)
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("parsing data as JSON: %w", err)
	}
	globals := fromJSON(generic)

	e := engine.New()
	registerBuiltins(e)

	if includeDir != "" {
		fsys, err := loader.New(includeDir, ".txt", ".html", ".tmpl")
		if err != nil {
			return fmt.Errorf("loading include directory: %w", err)
		}
		for _, name := range fsys.Names() {
			text, _ := fsys.Template(name)
			if _, err := e.AddTemplate(name, text); err != nil {
				return fmt.Errorf("compiling partial %q: %w", name, err)
			}
		}
	}

	h, err := e.AddTemplate(templatePath, string(src))
	if err != nil {
		return printable(err)
	}
	out, err := h.Render(globals)
	if err != nil {
		return printable(err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runCheck(templatePath string) error {
	src, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}
	e := engine.New()
	if _, err := e.AddTemplate(templatePath, string(src)); err != nil {
		return printable(err)
	}
	fmt.Println("ok")
	return nil
}

// registerBuiltins populates e's filter/formatter table from the
// builtins package, bridging its flat registration map onto the
// Engine's AddFilter/AddFormatter surface.
func registerBuiltins(e *engine.Engine) {
	reg := map[string]interp.Function{}
	builtins.Register(reg)
	for name, fn := range reg {
		if fn.Filter != nil {
			e.AddFilter(name, fn.Filter)
		} else {
			e.AddFormatter(name, fn.Formatter)
		}
	}
}

func printable(err error) error {
	if we, ok := err.(*weaveerr.Error); ok && we.HasSpan {
		return fmt.Errorf("\n%s", we.Pretty())
	}
	return err
}

func fromJSON(v interface{}) value.Value {
	switch x := v.(type) {
	case nil:
		return value.None
	case bool:
		return value.Bool(x)
	case float64:
		if x == float64(int64(x)) {
			return value.Integer(int64(x))
		}
		return value.Float(x)
	case string:
		return value.String(x)
	case []interface{}:
		out := make([]value.Value, len(x))
		for i, item := range x {
			out[i] = fromJSON(item)
		}
		return value.List(out)
	case map[string]interface{}:
		out := make(map[string]value.Value, len(x))
		for k, item := range x {
			out[k] = fromJSON(item)
		}
		return value.Map(out)
	default:
		return value.None
	}
}
