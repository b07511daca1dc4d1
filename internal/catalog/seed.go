package catalog

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/pebble/internal/store"
)

// starterItems is the shop inventory seeded into an empty items table.
var starterItems = []Item{
	{Name: "Iron Branch", Category: CategoryBasic, Cost: 50, Tags: []string{"stats"}},
	{Name: "Magic Stick", Category: CategoryBasic, Cost: 200, Tags: []string{"charges"}},
	{Name: "Boots of Speed", Category: CategoryBasic, Cost: 500, Tags: []string{"movement"}},
	{Name: "Observer Ward", Category: CategorySupport, Cost: 0, Tags: []string{"vision"}},
	{Name: "Sentry Ward", Category: CategorySupport, Cost: 75, Tags: []string{"vision", "detection"}},
	{Name: "Power Treads", Category: CategoryUpgrades, Cost: 1400, Tags: []string{"movement", "stats"}},
	{Name: "Blink Dagger", Category: CategoryUpgrades, Cost: 2250, Tags: []string{"mobility"}},
	{Name: "Black King Bar", Category: CategoryArmor, Cost: 4050, Tags: []string{"spell immunity"}},
	{Name: "Daedalus", Category: CategoryWeapons, Cost: 5150, Tags: []string{"crit"}},
	{Name: "Divine Rapier", Category: CategoryWeapons, Cost: 5600, Tags: []string{"damage"}, Note: strPtr("dropped on death")},
	{Name: "Aghanims Scepter", Category: CategoryCaster, Cost: 4200, Tags: []string{"upgrade"}},
}

func strPtr(s string) *string { return &s }

// StarterItems returns a copy of the seed inventory.
func StarterItems() []Item {
	out := make([]Item, len(starterItems))
	for i, it := range starterItems {
		it.Tags = append([]string(nil), it.Tags...)
		out[i] = it
	}
	return out
}

// Seed creates the items table and fills it with the starter inventory when
// it is empty. It returns the number of items inserted, 0 when the table
// already held data.
func Seed(ctx context.Context, items *store.Table[Item]) (int, error) {
	if err := items.CreateTable(ctx); err != nil {
		return 0, err
	}
	n, err := items.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	seed := StarterItems()
	for _, it := range seed {
		if _, err := items.Insert(ctx, it); err != nil {
			return 0, fmt.Errorf("seeding %s: %w", it.Name, err)
		}
	}
	return len(seed), nil
}
