// Package catalog defines the item records managed by the pebble CLI and the
// data it seeds a fresh database with.
package catalog

import (
	"fmt"
	"strings"
)

// Category groups items in the shop.
type Category string

// Item categories.
const (
	CategoryBasic    Category = "Basic"
	CategorySupport  Category = "Support"
	CategoryUpgrades Category = "Upgrades"
	CategoryArmor    Category = "Armor"
	CategoryWeapons  Category = "Weapons"
	CategoryCaster   Category = "Caster"
)

// Categories lists every category in shop order.
var Categories = []Category{
	CategoryBasic,
	CategorySupport,
	CategoryUpgrades,
	CategoryArmor,
	CategoryWeapons,
	CategoryCaster,
}

// ParseCategory matches name against the known categories, ignoring case.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// MarshalText stores the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if _, err := ParseCategory(string(c)); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// UnmarshalText reads a category name written by MarshalText.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Item is a shop item. A nil ID lets the store assign one on insert.
type Item struct {
	ID       *int64   `db:"id" json:"id" yaml:"id"`
	Name     string   `db:"name" json:"name" yaml:"name"`
	Category Category `db:"category" json:"category" yaml:"category"`
	Cost     int      `db:"cost" json:"cost" yaml:"cost"`
	Tags     []string `db:"tags" json:"tags,omitempty" yaml:"tags,omitempty"`
	Note     *string  `db:"note" json:"note,omitempty" yaml:"note,omitempty"`
}

// TableName implements types.Model.
func (Item) TableName() string { return "items" }

// Fields implements types.Model.
func (Item) Fields() []string {
	return []string{"id", "name", "category", "cost", "tags", "note"}
}

// Free reports whether the item costs nothing.
func (i Item) Free() bool { return i.Cost == 0 }

func (i Item) String() string {
	if i.Free() {
		return fmt.Sprintf("%s (free, %s)", i.Name, i.Category)
	}
	return fmt.Sprintf("%s - %d gold (%s)", i.Name, i.Cost, i.Category)
}
