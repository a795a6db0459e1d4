package generators

import (
	"context"
	"fmt"

	"github.com/better-appgen/appgen/internal/config"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Stage pairs a Generator with an optional condition. When is an expression
// over the configuration binding (app_name, locale, with_simple_form,
// skip_docker, ...); an empty When always runs.
type Stage struct {
	Generator Generator
	When      string

	program *vm.Program
}

// Report lists the stage names that ran and that were skipped, in order.
type Report struct {
	Ran     []string
	Skipped []string
}

// Pipeline runs stages strictly in order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline compiles every stage condition up front so a bad expression
// fails before anything is generated.
func NewPipeline(stages ...Stage) (*Pipeline, error) {
	bindingShape := (&config.Configuration{}).Binding()
	compiled := make([]Stage, 0, len(stages))
	for _, s := range stages {
		if s.Generator == nil {
			return nil, fmt.Errorf("stage without generator")
		}
		if s.When != "" {
			program, err := expr.Compile(s.When, expr.Env(bindingShape), expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("compiling condition for %s: %w", s.Generator.Name(), err)
			}
			s.program = program
		}
		compiled = append(compiled, s)
	}
	return &Pipeline{stages: compiled}, nil
}

// MustPipeline is NewPipeline for fixed stage lists.
func MustPipeline(stages ...Stage) *Pipeline {
	p, err := NewPipeline(stages...)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultPipeline returns the standard generation order.
func DefaultPipeline() *Pipeline {
	return MustPipeline(
		Stage{Generator: RailsApp{}},
		Stage{Generator: Gems{}},
		Stage{Generator: Vite{}},
		Stage{Generator: Locale{}},
		Stage{Generator: SimpleForm{}, When: "with_simple_form"},
		Stage{Generator: Docker{}, When: "!skip_docker"},
	)
}

// Names returns the stage names in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Generator.Name()
	}
	return names
}

// Run executes each enabled stage. The first failure stops the run; files
// written by earlier stages stay on disk.
func (p *Pipeline) Run(ctx context.Context, env *Env) (Report, error) {
	var report Report
	binding := env.Config.Binding()

	for _, s := range p.stages {
		name := s.Generator.Name()
		if err := ctx.Err(); err != nil {
			return report, err
		}

		enabled, err := s.enabled(binding)
		if err != nil {
			return report, fmt.Errorf("generator %s: evaluating condition: %w", name, err)
		}
		if !enabled {
			env.Logger.Info("skipping generator", "generator", name, "when", s.When)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		env.Logger.Info("running generator", "generator", name)
		if err := s.Generator.Generate(ctx, env); err != nil {
			return report, fmt.Errorf("generator %s: %w", name, err)
		}
		report.Ran = append(report.Ran, name)
	}
	return report, nil
}

func (s Stage) enabled(binding map[string]any) (bool, error) {
	if s.program == nil {
		return true, nil
	}
	out, err := expr.Run(s.program, binding)
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}
