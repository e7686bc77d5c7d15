package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"tendertrail/database"
	"tendertrail/importer"
)

func main() {
	dbPath := flag.String("db", "tendertrail.db", "Path to the service database")
	source := flag.String("source", "", "Source the file belongs to")
	file := flag.String("file", "", "Raw records file (.xlsx or .json)")
	flag.Parse()

	if *source == "" || *file == "" {
		log.Fatal("-source and -file are required")
	}

	db, err := database.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var inserted int
	switch strings.ToLower(filepath.Ext(*file)) {
	case ".xlsx":
		inserted, err = importer.NewXLSXImporter(db).Import(*file, *source)
	case ".json":
		inserted, err = importer.NewJSONImporter(db).Import(*file, *source)
	default:
		log.Fatalf("unsupported file type %q", filepath.Ext(*file))
	}
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d raw records for source %s\n", inserted, *source)
}
