package cli

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/lite-lake/infra-siteops/internal/application/pipeline"
	"github.com/lite-lake/infra-siteops/internal/domain/graph"
	"github.com/lite-lake/infra-siteops/internal/domain/service"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

// loadPipeline loads, validates and assembles the pipeline, printing any
// validation warnings first.
func loadPipeline(ctx context.Context, c *Context, opts ...pipeline.Option) (*pipeline.Orchestrator, error) {
	w := c.Workflow()
	cfg, warnings, err := w.LoadAndValidate(ctx)
	if err != nil {
		return nil, err
	}
	printIssues(c.Err, warnings)
	return w.Pipeline(cfg, opts...)
}

func printIssues(out io.Writer, issues []service.ValidationIssue) {
	for _, vi := range issues {
		fmt.Fprintf(out, "%s %s: %s\n", WarningStyle.Render("⚠"), vi.Field, vi.Message)
	}
}

func printWarnings(out io.Writer, indent string, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(out, "%s%s %s\n", indent, WarningStyle.Render("⚠"), w)
	}
}

func printPlan(out io.Writer, plan *valueobject.Plan, detail bool) {
	if !plan.HasChanges() {
		fmt.Fprintln(out, "No changes detected.")
		return
	}

	fmt.Fprintln(out, TitleStyle.Render("Execution Plan:"))
	stage := ""
	for _, ch := range plan.Changes() {
		if ch.Type() == valueobject.ChangeTypeNoop {
			continue
		}
		if ch.Stage() != stage {
			stage = ch.Stage()
			fmt.Fprintln(out, EnvStyle.Render(stage))
		}
		prefix, style := FormatChangeType(ch.Type())
		fmt.Fprintln(out, style.Render(fmt.Sprintf("  %s %s: %s", prefix, ch.Kind(), ch.Name())))
		if detail {
			printChangeDetail(out, ch)
		} else if ch.Type() == valueobject.ChangeTypeUpdate {
			for _, action := range ch.Actions() {
				fmt.Fprintf(out, "      - %s\n", action)
			}
		}
	}

	summary := plan.Summary()
	fmt.Fprintf(out, "\nPlan: %d to create, %d to update, %d to delete.\n",
		summary[valueobject.ChangeTypeCreate],
		summary[valueobject.ChangeTypeUpdate],
		summary[valueobject.ChangeTypeDelete])
}

// printChangeDetail prints the properties that differ between the old and new
// state of a node.
func printChangeDetail(out io.Writer, ch *valueobject.Change) {
	before := nodeProperties(ch.OldState())
	after := nodeProperties(ch.NewState())

	keys := mapset.NewThreadUnsafeSet[string]()
	for k := range before {
		keys.Add(k)
	}
	for k := range after {
		keys.Add(k)
	}
	sorted := keys.ToSlice()
	sort.Strings(sorted)

	for _, k := range sorted {
		old, hadOld := before[k]
		cur, hasNew := after[k]
		switch {
		case !hadOld:
			fmt.Fprintf(out, "      + %s = %v\n", k, cur)
		case !hasNew:
			fmt.Fprintf(out, "      - %s = %v\n", k, old)
		case !reflect.DeepEqual(old, cur):
			fmt.Fprintf(out, "      ~ %s: %v -> %v\n", k, old, cur)
		}
	}
}

func nodeProperties(state any) graph.Properties {
	n, ok := state.(*graph.Node)
	if !ok || n == nil {
		return nil
	}
	props, err := n.Properties.Normalize()
	if err != nil {
		return n.Properties
	}
	return props
}
