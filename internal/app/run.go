package app

import (
	"context"
	"fmt"

	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/interp"
	"github.com/vk/archetype/internal/loader"
	"github.com/vk/archetype/internal/render"
)

// Run executes one generation: open the archetype, interpret its script
// graph, and render the output files.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	catalog, err := loader.Open(ctx, a.config.ArchetypePath)
	if err != nil {
		return fmt.Errorf("failed to open archetype: %w", err)
	}
	defer catalog.Close()

	a.logger.Info("🚀 Generating project.", "archetype", catalog.Archetype.Name, "out", a.config.OutputDir)

	it := interp.New(catalog.Scripts, interp.Options{
		Inputs:          a.inputSource(),
		BatchProperties: a.config.Properties,
		Policy:          a.substitutionPolicy(),
	})
	tree, err := it.Run(ctx, catalog.Archetype.Root)
	if err != nil {
		return fmt.Errorf("script interpretation failed: %w", err)
	}
	a.logger.Debug("Script graph interpreted.", "properties", len(it.Properties().VisibleNames()))

	renderer := render.New(it.Properties(), tree)
	if err := renderer.Render(ctx, catalog.Archetype, catalog.PayloadRoot, a.config.OutputDir); err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	a.logger.Info("🏁 Generation finished.")
	return nil
}
