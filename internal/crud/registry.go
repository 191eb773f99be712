package crud

import "storefront/internal/model"

// ForeignKey declares one resolvable reference field of an entity kind. Field
// is the payload/column name carrying the referenced id; the resolved target
// record is embedded in responses under Relation after TargetBlacklist is
// applied. The scalar id column is what gets persisted.
type ForeignKey struct {
	Field           string
	Relation        string
	Target          model.Resource
	TargetBlacklist []string
}

// Descriptor is the per-kind configuration the engine operates through:
// backing table, human-readable labels for messages, response blacklist and
// foreign-key declarations.
type Descriptor struct {
	Kind        model.Resource
	Table       string
	Singular    string
	Plural      string
	Blacklist   []string
	ForeignKeys []ForeignKey
}

// Registry maps entity-kind tags to their descriptors. It is built once at
// startup and read-only afterwards, so request handling never does
// stringly-typed configuration lookups.
type Registry map[model.Resource]Descriptor

// userBlacklist is applied wherever a user record leaves the engine, either
// directly or embedded as a resolved reference.
var userBlacklist = []string{"password", "token"}

// NewRegistry returns the static registry of every entity kind the engine
// serves.
func NewRegistry() Registry {
	descriptors := []Descriptor{
		{
			Kind:      model.ResourceUsers,
			Table:     "users",
			Singular:  "User",
			Plural:    "Users",
			Blacklist: userBlacklist,
		},
		{
			Kind:     model.ResourceRoles,
			Table:    "roles",
			Singular: "Role",
			Plural:   "Roles",
		},
		{
			Kind:     model.ResourcePermissions,
			Table:    "permissions",
			Singular: "Permission",
			Plural:   "Permissions",
			ForeignKeys: []ForeignKey{
				{Field: "role_id", Relation: "role", Target: model.ResourceRoles},
			},
		},
		{
			Kind:     model.ResourceProducts,
			Table:    "products",
			Singular: "Product",
			Plural:   "Products",
			ForeignKeys: []ForeignKey{
				{Field: "user_id", Relation: "user", Target: model.ResourceUsers, TargetBlacklist: userBlacklist},
				{Field: "category_id", Relation: "category", Target: model.ResourceCategories},
			},
		},
		{
			Kind:     model.ResourceCategories,
			Table:    "categories",
			Singular: "Category",
			Plural:   "Categories",
		},
	}

	reg := make(Registry, len(descriptors))
	for _, d := range descriptors {
		reg[d.Kind] = d
	}
	return reg
}

// Lookup resolves a kind tag to its descriptor.
func (r Registry) Lookup(kind model.Resource) (Descriptor, bool) {
	d, ok := r[kind]
	return d, ok
}
