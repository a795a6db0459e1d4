package generators

import "context"

// SimpleForm adds SimpleForm with a Tailwind wrapper.
type SimpleForm struct{}

func (SimpleForm) Name() string { return "simple_form" }

func (SimpleForm) Generate(_ context.Context, env *Env) error {
	if _, err := env.Kit.MergeManifestList("Gemfile", []string{`gem "simple_form"`}); err != nil {
		return err
	}
	return env.render("config/initializers/simple_form.rb", "simple_form/simple_form.rb")
}
