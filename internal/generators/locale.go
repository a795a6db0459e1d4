package generators

import (
	"context"
	"regexp"
)

var applicationClassLine = regexp.MustCompile(`class Application < Rails::Application[^\n]*\n`)

// Locale configures time zone, default locale and UUID primary keys, and
// ships translations for locales that have them.
type Locale struct{}

func (Locale) Name() string { return "locale" }

func (Locale) Generate(_ context.Context, env *Env) error {
	snippet, err := env.Templates.Render("locale/application.rb", env.Config)
	if err != nil {
		return err
	}
	inserted, err := env.Kit.InsertAfter("config/application.rb", applicationClassLine, snippet)
	if err != nil {
		return err
	}
	if !inserted {
		env.Logger.Debug("application.rb left unchanged", "locale", env.Config.Locale())
	}

	if !env.Config.HasLocaleTemplates() {
		env.Logger.Warn("no translation files for locale", "locale", env.Config.Locale())
		return nil
	}
	locale := env.Config.Locale()
	return env.render("config/locales/"+locale+".yml", "locale/"+locale+".yml")
}
