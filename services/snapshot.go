package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// SorCollection is the PocketBase collection holding the current SOR
// snapshot.
const SorCollection = "sor_items"

// ReplaceSorSnapshot replaces the entire persisted SOR snapshot with the
// given records, in one transaction. There is no partial merge: the previous
// snapshot is deleted wholesale. Duplicate codes keep their first occurrence
// so the stored set stays unique per code. Storage order follows input order,
// which keeps fuzzy tie-breaking stable across runs.
func ReplaceSorSnapshot(app core.App, records []SorRecord) error {
	return app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId(SorCollection)
		if err != nil {
			return fmt.Errorf("find %s collection: %w", SorCollection, err)
		}

		existing, err := txApp.FindAllRecords(SorCollection)
		if err != nil {
			return fmt.Errorf("load existing snapshot: %w", err)
		}
		for _, r := range existing {
			if err := txApp.Delete(r); err != nil {
				return fmt.Errorf("clear snapshot: %w", err)
			}
		}

		seen := make(map[string]bool, len(records))
		order := 0
		for _, rec := range records {
			if rec.Code == "" || seen[rec.Code] {
				continue
			}
			seen[rec.Code] = true
			order++

			row := core.NewRecord(col)
			row.Set("code", rec.Code)
			row.Set("description", rec.Description)
			row.Set("unit", rec.Unit)
			row.Set("table_no", rec.TableNo)
			row.Set("sort_order", order)
			// A number field cannot hold null, so resolvedness is stored
			// alongside the value.
			if rec.Rate != nil {
				row.Set("rate", *rec.Rate)
				row.Set("rate_resolved", true)
			} else {
				row.Set("rate", 0)
				row.Set("rate_resolved", false)
			}

			if err := txApp.Save(row); err != nil {
				return fmt.Errorf("save record %s: %w", rec.Code, err)
			}
		}
		return nil
	})
}

// ReadSorSnapshot loads the current snapshot in stored order. An empty slice
// means no price list has been saved yet.
func ReadSorSnapshot(app core.App) ([]SorRecord, error) {
	rows, err := app.FindRecordsByFilter(SorCollection, "code != ''", "sort_order", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	records := make([]SorRecord, 0, len(rows))
	for _, row := range rows {
		rec := SorRecord{
			Code:        row.GetString("code"),
			Description: row.GetString("description"),
			Unit:        row.GetString("unit"),
			TableNo:     row.GetString("table_no"),
		}
		if row.GetBool("rate_resolved") {
			rate := row.GetFloat("rate")
			rec.Rate = &rate
		}
		records = append(records, rec)
	}
	return records, nil
}
