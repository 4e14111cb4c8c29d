// Package config loads level files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sarchlab/kitchen/kitchen"
	"github.com/sarchlab/kitchen/recipe"
)

// EnvPrefix is the prefix of the environment variables that override level
// settings, e.g. KITCHEN_MAX_CONCURRENT_ORDERS.
const EnvPrefix = "KITCHEN"

// ErrNoLevelFile is returned when the level file cannot be found.
var ErrNoLevelFile = errors.New("level file not found")

type recipeEntry struct {
	Name        string   `mapstructure:"name"`
	Ingredients []string `mapstructure:"ingredients"`
	TimeBudget  float64  `mapstructure:"time_budget"`
}

type levelFile struct {
	IntervalBetweenDrops float64       `mapstructure:"interval_between_drops"`
	MaxConcurrentOrders  int           `mapstructure:"max_concurrent_orders"`
	Seed                 int64         `mapstructure:"seed"`
	Recipes              []recipeEntry `mapstructure:"recipes"`
}

// A Level is a validated level file.
type Level struct {
	kitchen.LevelConfig

	// Seed feeds the recipe sampler. Zero means the file did not set one.
	Seed int64
}

// Recipes returns the recipes of the level's catalog.
func (l Level) Recipes() []recipe.Recipe {
	recipes := make([]recipe.Recipe, 0, l.Catalog.Len())
	for i := range l.Catalog.Len() {
		recipes = append(recipes, l.Catalog.At(i))
	}

	return recipes
}

// LoadDotEnv loads the given .env files into the environment. Missing files
// are skipped; with no argument it looks for .env in the working directory.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("interval_between_drops", 0)
	v.SetDefault("max_concurrent_orders", 0)
	v.SetDefault("seed", 0)

	return v
}

// LoadLevel reads a level file. The format follows the file extension (YAML,
// JSON, or TOML). Environment variables with the KITCHEN_ prefix override the
// scalar settings of the file.
func LoadLevel(path string) (Level, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Level{}, fmt.Errorf("%w: %s", ErrNoLevelFile, path)
		}

		return Level{}, fmt.Errorf("load level %s: %w", path, err)
	}

	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Level{}, fmt.Errorf("load level %s: %w", path, err)
	}

	var raw levelFile
	if err := v.Unmarshal(&raw); err != nil {
		return Level{}, fmt.Errorf("load level %s: %w", path, err)
	}

	level, err := raw.level()
	if err != nil {
		return Level{}, fmt.Errorf("load level %s: %w", path, err)
	}

	return level, nil
}

func (f levelFile) level() (Level, error) {
	var errs []error

	recipes := make([]recipe.Recipe, 0, len(f.Recipes))

	for _, entry := range f.Recipes {
		ingredients, err := recipe.ParseIngredients(entry.Ingredients)
		if err != nil {
			errs = append(errs, fmt.Errorf("recipe %q: %w", entry.Name, err))
			continue
		}

		recipes = append(recipes, recipe.Recipe{
			Name:        entry.Name,
			Ingredients: ingredients,
			TimeBudget:  entry.TimeBudget,
		})
	}

	catalog := recipe.List(recipes)

	if len(errs) == 0 && len(recipes) > 0 {
		validated, err := recipe.NewList(recipes...)
		if err != nil {
			errs = append(errs, err)
		} else {
			catalog = validated
		}
	}

	level := Level{
		LevelConfig: kitchen.LevelConfig{
			IntervalBetweenDrops: f.IntervalBetweenDrops,
			MaxConcurrentOrders:  f.MaxConcurrentOrders,
			Catalog:              catalog,
		},
		Seed: f.Seed,
	}

	errs = append(errs, level.Validate())

	if err := errors.Join(errs...); err != nil {
		return Level{}, err
	}

	return level, nil
}
