package generators

import "context"

var appGems = []string{
	`gem "solid_cache"`,
	`gem "solid_queue"`,
	`gem "solid_cable"`,
	`gem "dotenv-rails"`,
	`gem "rails-i18n"`,
}

// Gems adds the runtime gems and the multi-database configuration backing
// Solid Cache, Solid Queue and Solid Cable.
type Gems struct{}

func (Gems) Name() string { return "gems" }

func (Gems) Generate(_ context.Context, env *Env) error {
	added, err := env.Kit.MergeManifestList("Gemfile", appGems)
	if err != nil {
		return err
	}
	env.Logger.Debug("merged Gemfile", "added", added)
	return env.render("config/database.yml", "rails/database.yml")
}
