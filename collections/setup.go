// Package collections bootstraps the PocketBase collections used by the
// SOR-BOQ matching service.
package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the sor_items collection, which
// holds the single current SOR snapshot. A snapshot save replaces every row,
// so there is only ever one logical price list.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "sor_items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
		// rate_resolved distinguishes "rate is 0" from "rate never parsed".
		c.Fields.Add(&core.BoolField{Name: "rate_resolved", Required: false})
		c.Fields.Add(&core.TextField{Name: "table_no", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_sor_items_code", true, "code", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
