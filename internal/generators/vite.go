package generators

import (
	"context"
	"fmt"

	"github.com/better-appgen/appgen/internal/mutate"
)

const yarnVersion = "yarn@4.5.3"

var (
	viteDependencies = map[string]string{
		"@hotwired/stimulus":    "^3.2.2",
		"@hotwired/turbo-rails": "^8.0.12",
	}
	viteDevDependencies = map[string]string{
		"@tailwindcss/postcss": "^4.0.0",
		"autoprefixer":         "^10.4.20",
		"postcss":              "^8.5.1",
		"tailwindcss":          "^4.0.0",
		"vite":                 "^6.0.7",
	}
	viteDirs = []string{
		"app/assets/images",
		"app/assets/javascripts/controllers",
		"app/assets/stylesheets",
	}
	viteFiles = [][2]string{
		{"vite.config.js", "vite/vite.config.js"},
		{"postcss.config.js", "vite/postcss.config.js"},
		{"app/assets/stylesheets/application.css", "vite/application.css"},
		{"app/assets/javascripts/application.js", "vite/application.js"},
		{"app/assets/javascripts/controllers/application.js", "vite/controllers/application.js"},
		{"app/assets/javascripts/controllers/hello_controller.js", "vite/controllers/hello_controller.js"},
		{"app/assets/javascripts/controllers/index.js", "vite/controllers/index.js"},
		{"app/helpers/vite_helper.rb", "vite/vite_helper.rb"},
		{"Procfile.dev", "root/Procfile.dev"},
		{".yarnrc.yml", "root/yarnrc.yml"},
		{".gitignore", "root/gitignore"},
		{".env.example", "root/env.example"},
		{".env", "root/env.example"},
		{"app/views/layouts/application.html.erb", "layouts/application.html.erb"},
	}
)

// Vite sets up Vite, Tailwind CSS and Stimulus in place of the asset
// pipeline.
type Vite struct{}

func (Vite) Name() string { return "vite" }

func (Vite) Generate(_ context.Context, env *Env) error {
	for _, dir := range viteDirs {
		if err := env.Kit.MkdirAll(dir); err != nil {
			return err
		}
	}
	if err := env.Kit.Remove("app/assets/stylesheets/application.css"); err != nil {
		return err
	}

	err := env.Kit.MergeStructuredManifest("package.json", mutate.PackageManifest{
		Name:            env.Config.AppNameDash(),
		Dependencies:    viteDependencies,
		DevDependencies: viteDevDependencies,
		Scripts: map[string]string{
			"dev":   fmt.Sprintf("vite --host 0.0.0.0 --port %d", env.Config.VitePort()),
			"build": "vite build",
		},
		Extra: map[string]any{
			"type":           "module",
			"packageManager": yarnVersion,
		},
	})
	if err != nil {
		return err
	}

	if err := env.renderAll(viteFiles); err != nil {
		return err
	}
	return env.renderExecutable("bin/dev", "bin/dev")
}
