package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasTable maps each logical prospect field to the header substrings
// that identify its column in a CSV export. Matching is case-insensitive
// substring containment.
type AliasTable struct {
	Name      []string `yaml:"name"`
	First     []string `yaml:"first"`
	Last      []string `yaml:"last"`
	Email     []string `yaml:"email"`
	Phone     []string `yaml:"phone"`
	Facebook  []string `yaml:"facebook"`
	Instagram []string `yaml:"instagram"`
	LinkedIn  []string `yaml:"linkedin"`
	TikTok    []string `yaml:"tiktok"`
}

// DefaultAliases covers the header vocabularies of the supported export
// formats (generic CRM CSVs, Facebook data files, LinkedIn connection
// exports).
func DefaultAliases() AliasTable {
	return AliasTable{
		Name:      []string{"name", "buyer", "customer", "client", "prospect"},
		First:     []string{"first name", "firstname", "first", "given"},
		Last:      []string{"last name", "lastname", "last", "surname", "family"},
		Email:     []string{"email", "e-mail", "mail"},
		Phone:     []string{"phone", "mobile", "cell", "tel", "number"},
		Facebook:  []string{"facebook", "fb profile", "fb link"},
		Instagram: []string{"instagram", "ig handle", "ig link"},
		LinkedIn:  []string{"linkedin"},
		TikTok:    []string{"tiktok", "tik tok"},
	}
}

// LoadAliases reads an alias table from a YAML file. Fields left empty in
// the file fall back to the defaults, so an override file only needs the
// vocabularies it changes.
func LoadAliases(path string) (AliasTable, error) {
	table := DefaultAliases()

	data, err := os.ReadFile(path)
	if err != nil {
		return table, fmt.Errorf("failed to read alias file: %w", err)
	}

	var overrides AliasTable
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return table, fmt.Errorf("failed to parse alias file: %w", err)
	}

	if len(overrides.Name) > 0 {
		table.Name = overrides.Name
	}
	if len(overrides.First) > 0 {
		table.First = overrides.First
	}
	if len(overrides.Last) > 0 {
		table.Last = overrides.Last
	}
	if len(overrides.Email) > 0 {
		table.Email = overrides.Email
	}
	if len(overrides.Phone) > 0 {
		table.Phone = overrides.Phone
	}
	if len(overrides.Facebook) > 0 {
		table.Facebook = overrides.Facebook
	}
	if len(overrides.Instagram) > 0 {
		table.Instagram = overrides.Instagram
	}
	if len(overrides.LinkedIn) > 0 {
		table.LinkedIn = overrides.LinkedIn
	}
	if len(overrides.TikTok) > 0 {
		table.TikTok = overrides.TikTok
	}

	return table, nil
}
