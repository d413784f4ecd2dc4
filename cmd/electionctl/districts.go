package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// districtNamespace derives stable ids for districts listed without one.
var districtNamespace = uuid.MustParse("9b0f7a4e-4d1c-4a5e-9f2b-6c1d3e8a7b50")

type districtFile struct {
	Districts []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"districts"`
}

func parseDistricts(r io.Reader) ([]domain.District, error) {
	var file districtFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode districts: %w", err)
	}

	districts := make([]domain.District, 0, len(file.Districts))
	names := make(map[string]bool, len(file.Districts))
	ids := make(map[uuid.UUID]bool, len(file.Districts))
	for i, entry := range file.Districts {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("district %d: name is required", i+1)
		}
		if names[strings.ToLower(name)] {
			return nil, fmt.Errorf("district %q is listed twice", name)
		}
		names[strings.ToLower(name)] = true

		id := uuid.NewSHA1(districtNamespace, []byte(strings.ToLower(name)))
		if entry.ID != "" {
			parsed, err := uuid.Parse(entry.ID)
			if err != nil {
				return nil, fmt.Errorf("district %q: invalid id: %w", name, err)
			}
			id = parsed
		}
		if ids[id] {
			return nil, fmt.Errorf("district %q reuses id %s", name, id)
		}
		ids[id] = true

		districts = append(districts, domain.District{ID: id, Name: name})
	}
	return districts, nil
}

func seedDistrictsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-districts",
		Short: "Insert or rename the districts listed in a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			districts, err := parseDistricts(f)
			if err != nil {
				return err
			}

			db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := postgres.NewDistrictRepository(db)
			for i := range districts {
				if err := repo.Save(ctx, &districts[i]); err != nil {
					return fmt.Errorf("district %q: %w", districts[i].Name, err)
				}
			}

			logger.Info("districts seeded", "event", "districts_seeded", "component", programName, "count", len(districts))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "districts.yaml", "YAML file with a districts list")
	return cmd
}
