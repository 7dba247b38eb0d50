package main

import (
	"fmt"
	"os"

	"github.com/mlaurent/officeday/pkg/assets"
	"github.com/mlaurent/officeday/pkg/config"
	"github.com/mlaurent/officeday/pkg/world"

	"github.com/rs/zerolog/log"
)

func loadPipeline(configs []string) (*config.Config, *assets.Store, *world.Building, *world.TaskList, error) {
	cfg, err := config.Process(configs)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("could not load configuration: %w", err)
	}

	roots, err := assets.LoadRoots(cfg.Assets.Roots)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	store, err := assets.NewStore(cfg.Data.Manifest, roots, cfg.Assets.Scale)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	building, err := world.LoadBuilding(cfg.Data.Floors)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	tasks, err := world.LoadTasks(cfg.Data.Tasks)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return cfg, store, building, tasks, nil
}

// checkCommand validates every data file, composes every floor, and
// resolves every declared asset, reporting what would degrade to a
// placeholder at runtime. Exits nonzero when anything is wrong.
func checkCommand(configs []string) error {
	_, store, building, tasks, err := loadPipeline(configs)
	if err != nil {
		return err
	}

	problems := 0

	composer := world.NewComposer(store)
	for _, number := range building.AllFloors() {
		if _, err := composer.Compose(building, number); err != nil {
			fmt.Printf("floor %d: %s\n", number, err)
			problems++
		}
	}

	for _, key := range store.Manifest().Keys() {
		store.Resolve(key)
	}
	for _, key := range store.MissingAssets() {
		fmt.Printf("missing asset: %s\n", key)
		problems++
	}

	for _, issue := range tasks.Validate(building) {
		fmt.Printf("task issue: %s\n", issue)
		problems++
	}

	if problems > 0 {
		fmt.Printf("%d problem(s) found\n", problems)
		os.Exit(1)
	}

	fmt.Println("all content checks passed")
	return nil
}

func statsCommand(configs []string) error {
	_, store, building, tasks, err := loadPipeline(configs)
	if err != nil {
		return err
	}

	for _, key := range store.Manifest().Keys() {
		store.Resolve(key)
	}

	assetStats := store.Stats()
	buildingStats := building.Stats()

	fmt.Printf("assets declared:   %d\n", assetStats.Declared)
	fmt.Printf("assets missing:    %d\n", assetStats.Missing)
	fmt.Printf("floors:            %d\n", buildingStats.Floors)
	fmt.Printf("placed objects:    %d\n", buildingStats.Objects)
	fmt.Printf("npcs:              %d\n", buildingStats.NPCs)
	fmt.Printf("main tasks:        %d\n", len(tasks.Main()))
	fmt.Printf("side tasks:        %d\n", len(tasks.Side()))
	return nil
}

func packCommand(dir string, out string) error {
	count, err := assets.WriteBundle(dir, out)
	if err != nil {
		return err
	}

	log.Info().
		Str("bundle", out).
		Int("files", count).
		Msg("bundle written")
	return nil
}
