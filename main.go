package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sormatch/collections"
	"sormatch/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── SOR snapshot ─────────────────────────────────────────
		se.Router.GET("/sor", handlers.HandleSORList(app))
		se.Router.POST("/sor/pages", handlers.HandleSORPageCount(app))
		se.Router.POST("/sor/extract", handlers.HandleSORExtract(app))
		se.Router.POST("/sor/save", handlers.HandleSORSave(app))

		// ── Matching runs ────────────────────────────────────────
		se.Router.POST("/match", handlers.HandleMatch(app))
		se.Router.POST("/match/export/excel", handlers.HandleMatchExportExcel(app))
		se.Router.POST("/match/export/pdf", handlers.HandleMatchExportPDF(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
