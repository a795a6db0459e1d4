package generators

import (
	"context"
	"fmt"
)

var dockerScripts = [][2]string{
	{"script/dc-up", "docker/dc-up"},
	{"script/dc-down", "docker/dc-down"},
	{"script/dc-shell", "docker/dc-shell"},
}

// Docker writes the development container setup and its helper scripts.
type Docker struct{}

func (Docker) Name() string { return "docker" }

func (Docker) Generate(_ context.Context, env *Env) error {
	err := env.renderAll([][2]string{
		{"Dockerfile.dev", "docker/Dockerfile.dev"},
		{"docker-compose.yml", "docker/docker-compose.yml"},
	})
	if err != nil {
		return err
	}
	for _, s := range dockerScripts {
		if err := env.renderExecutable(s[0], s[1]); err != nil {
			return fmt.Errorf("creating %s: %w", s[0], err)
		}
	}
	return nil
}
