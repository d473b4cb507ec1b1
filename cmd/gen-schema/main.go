// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Command gen-schema generates the archetype table JSON Schema file and
// checks the embedded default table against it.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/holomush/warband/internal/archetype"
)

func main() {
	outPath := pflag.String("out", filepath.Join("schemas", "archetypes.schema.json"), "schema output path")
	pflag.Parse()

	if err := generate(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "gen-schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", *outPath)
}

func generate(outPath string) error {
	schema, err := archetype.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generating schema: %w", err)
	}
	if err := archetype.ValidateSchema(archetype.DefaultTable()); err != nil {
		return fmt.Errorf("embedded table does not match the schema: %s", archetype.FormatSchemaError(err))
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(outPath, schema, 0o600); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
