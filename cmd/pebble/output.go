package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pebble/internal/catalog"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// printItems writes items in the chosen format. Text output prints one item
// per line prefixed by its key.
func printItems(w io.Writer, format string, items []catalog.Item) error {
	switch format {
	case outputJSON:
		return printJSON(w, items)
	case outputYAML:
		return printYAML(w, items)
	}
	for _, it := range items {
		fmt.Fprintf(w, "%4d  %s\n", itemID(it), it)
	}
	return nil
}

// printItem writes a single item in the chosen format.
func printItem(w io.Writer, format string, it catalog.Item) error {
	switch format {
	case outputJSON:
		return printJSON(w, it)
	case outputYAML:
		return printYAML(w, it)
	}
	fmt.Fprintf(w, "id:       %d\n", itemID(it))
	fmt.Fprintf(w, "name:     %s\n", it.Name)
	fmt.Fprintf(w, "category: %s\n", it.Category)
	fmt.Fprintf(w, "cost:     %d\n", it.Cost)
	if len(it.Tags) > 0 {
		fmt.Fprintf(w, "tags:     %v\n", it.Tags)
	}
	if it.Note != nil {
		fmt.Fprintf(w, "note:     %s\n", *it.Note)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	return enc.Close()
}

func itemID(it catalog.Item) int64 {
	if it.ID == nil {
		return 0
	}
	return *it.ID
}
