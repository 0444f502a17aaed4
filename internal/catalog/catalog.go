// Package catalog holds the static validation and capacity rules for every
// race distance. The catalog is built once at startup and shared read-only;
// it never changes after construction.
package catalog

import (
	"race-registry/internal/domain"
)

// ShirtColorUnknown is the sentinel color for distances without a mapping.
const ShirtColorUnknown = "unknown"

// Category describes one race distance with its capacity and shirt color.
type Category struct {
	Distance   string
	Capacity   int
	ShirtColor string
}

// Catalog answers membership and capacity questions for the fixed category set.
type Catalog struct {
	order      []string
	categories map[string]Category
	ageGroups  map[string]struct{}
	genders    map[string]struct{}
}

// New builds a catalog from explicit category data. Categories keep the order
// given, which fixes the scan order for owner and statistics queries.
func New(categories []Category, ageGroups, genders []string) *Catalog {
	c := &Catalog{
		categories: make(map[string]Category, len(categories)),
		ageGroups:  make(map[string]struct{}, len(ageGroups)),
		genders:    make(map[string]struct{}, len(genders)),
	}
	for _, cat := range categories {
		c.order = append(c.order, cat.Distance)
		c.categories[cat.Distance] = cat
	}
	for _, g := range ageGroups {
		c.ageGroups[g] = struct{}{}
	}
	for _, g := range genders {
		c.genders[g] = struct{}{}
	}
	return c
}

// Default returns the catalog for the reference event: four distances with
// their capacities and shirt colors, six age groups, two gender markers.
func Default() *Catalog {
	return New(
		[]Category{
			{Distance: "5km", Capacity: 200, ShirtColor: "blue"},
			{Distance: "10km", Capacity: 300, ShirtColor: "green"},
			{Distance: "21km", Capacity: 250, ShirtColor: "orange"},
			{Distance: "42km", Capacity: 200, ShirtColor: "red"},
		},
		[]string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"},
		[]string{"M", "F"},
	)
}

// Distances returns the valid distances in their fixed deterministic order.
func (c *Catalog) Distances() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// CapacityLimit returns the maximum number of entrants for a distance.
func (c *Catalog) CapacityLimit(distance string) (int, error) {
	cat, ok := c.categories[distance]
	if !ok {
		return 0, domain.ErrUnknownDistance
	}
	return cat.Capacity, nil
}

// ShirtColorFor returns the shirt color derived from a distance, or the
// "unknown" sentinel for unmapped distances.
func (c *Catalog) ShirtColorFor(distance string) string {
	cat, ok := c.categories[distance]
	if !ok {
		return ShirtColorUnknown
	}
	return cat.ShirtColor
}

func (c *Catalog) IsValidDistance(distance string) bool {
	_, ok := c.categories[distance]
	return ok
}

func (c *Catalog) IsValidAgeGroup(ageGroup string) bool {
	_, ok := c.ageGroups[ageGroup]
	return ok
}

func (c *Catalog) IsValidGender(gender string) bool {
	_, ok := c.genders[gender]
	return ok
}
