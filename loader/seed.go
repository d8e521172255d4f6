package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridoystarlord/bakery/entities"
	"github.com/ridoystarlord/bakery/orm"
)

// SeedFile is the YAML seed format:
//
//	bakeries:
//	  - name: La Boulangerie
//	    profit_margin: 0
//	    chefs:
//	      - name: Jolie
//	        contact_details: jolie@example.com
type SeedFile struct {
	Bakeries []SeedBakery `yaml:"bakeries"`
}

type SeedBakery struct {
	Name         string     `yaml:"name"`
	ProfitMargin float64    `yaml:"profit_margin"`
	Chefs        []SeedChef `yaml:"chefs"`
}

type SeedChef struct {
	Name           string  `yaml:"name"`
	ContactDetails *string `yaml:"contact_details"`
}

// SeedResult counts the rows a seed inserted.
type SeedResult struct {
	Bakeries int
	Chefs    int
}

func LoadSeedFile(filename string) (*SeedFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and checks a seed document. Unknown keys are errors.
func ParseSeed(data []byte) (*SeedFile, error) {
	var sf SeedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}
	for i, b := range sf.Bakeries {
		if b.Name == "" {
			return nil, fmt.Errorf("bakery %d: name is required", i+1)
		}
		for j, c := range b.Chefs {
			if c.Name == "" {
				return nil, fmt.Errorf("bakery %q chef %d: name is required", b.Name, j+1)
			}
		}
	}
	return &sf, nil
}

// Apply inserts every bakery of sf followed by its chefs. It stops at the
// first failure; rows inserted before it stay.
func Apply(ctx context.Context, store *entities.Store, sf *SeedFile) (SeedResult, error) {
	var res SeedResult
	for _, b := range sf.Bakeries {
		bakeryID, err := store.Bakeries.Insert(ctx, entities.BakeryActive{
			Name:         orm.Set(b.Name),
			ProfitMargin: orm.Set(b.ProfitMargin),
		})
		if err != nil {
			return res, fmt.Errorf("insert bakery %q: %w", b.Name, err)
		}
		res.Bakeries++

		for _, c := range b.Chefs {
			chef := entities.ChefActive{
				Name:     orm.Set(c.Name),
				BakeryID: orm.Set(bakeryID),
			}
			if c.ContactDetails != nil {
				chef.ContactDetails = orm.Set(c.ContactDetails)
			}
			if _, err := store.Chefs.Insert(ctx, chef); err != nil {
				return res, fmt.Errorf("insert chef %q: %w", c.Name, err)
			}
			res.Chefs++
		}
	}
	return res, nil
}
