package templates

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/freedom_case_2/replydraft/internal/models"
)

// LibraryEntry is one template in a YAML library file.
type LibraryEntry struct {
	models.NewTemplate `yaml:",inline"`
	SuccessCount       int `yaml:"success_count"`
	UsageCount         int `yaml:"usage_count"`
}

type Library struct {
	Templates []LibraryEntry `yaml:"templates"`
}

// Seeder is implemented by repositories that accept historic statistics.
type Seeder interface {
	Seed(ctx context.Context, t models.NewTemplate, successes, attempts int) (models.ResponseTemplate, error)
}

// BulkSeeder is implemented by repositories that import a library atomically.
type BulkSeeder interface {
	SeedLibrary(ctx context.Context, lib Library) (int, error)
}

func LoadLibrary(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Library{}, fmt.Errorf("read template library: %w", err)
	}
	return ParseLibrary(data)
}

func ParseLibrary(data []byte) (Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return Library{}, fmt.Errorf("parse template library: %w", err)
	}
	v := validator.New()
	for i, e := range lib.Templates {
		if err := v.Struct(e.NewTemplate); err != nil {
			return Library{}, fmt.Errorf("template %d (%q): %w", i, e.Title, err)
		}
		if e.SuccessCount < 0 || e.UsageCount < e.SuccessCount {
			return Library{}, fmt.Errorf("template %d (%q): success_count must be within [0, usage_count]", i, e.Title)
		}
	}
	return lib, nil
}

// Import loads every library entry into repo in file order. Historic counts
// are kept when repo implements Seeder or BulkSeeder.
func Import(ctx context.Context, repo Repository, lib Library) (int, error) {
	if bulk, ok := repo.(BulkSeeder); ok {
		return bulk.SeedLibrary(ctx, lib)
	}
	seeder, canSeed := repo.(Seeder)
	for i, e := range lib.Templates {
		var err error
		if canSeed {
			_, err = seeder.Seed(ctx, e.NewTemplate, e.SuccessCount, e.UsageCount)
		} else {
			_, err = repo.Add(ctx, e.NewTemplate)
		}
		if err != nil {
			return i, fmt.Errorf("import %q: %w", e.Title, err)
		}
	}
	return len(lib.Templates), nil
}
