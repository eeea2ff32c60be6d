// Package pkg provides the libraries behind originchart, a layout and
// connectivity engine for origin-path charts.
//
// # Overview
//
// A character is built by picking one origin in each of six ordered steps
// (home world, birthright, lure of the void, trials and travails,
// motivation, career). Every origin sits in one or more of nine slots, and
// an origin may follow the previous pick only when one of its slots is
// adjacent to one of the previous pick's slots and its requirements admit
// that pick. The packages are organized as:
//
//  1. [origin] - Domain types: steps, nodes, selections, direction
//  2. [chart] - The pure engine: positions, connectivity, step rows, edges
//  3. [catalog] - Reading and validating origin catalogs (files, MongoDB)
//  4. [pipeline] - Orchestration (load → resolve picks → compute) with caching
//  5. [cache], [config], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
//	catalog file / MongoDB
//	         ↓
//	    [catalog] package (decode, validate)
//	         ↓
//	    [pipeline] package (resolve picks, cache lookup)
//	         ↓
//	    [chart] package (layout + connections)
//	         ↓
//	    JSON layout, text table, HTTP response
//
// # Quick Start
//
//	cat, _ := catalog.Load(ctx, "origins.yaml")
//	sel, _ := catalog.ResolveSelections(cat, catalog.Picks{"homeWorld": "void-born"})
//	layout := chart.Compute(cat.Nodes, sel, chart.Options{Guided: true})
//
//	for _, step := range layout.Steps {
//	    for _, card := range step.Cards {
//	        if card.IsValidNext {
//	            fmt.Println(step.Label, card.ID)
//	        }
//	    }
//	}
//
// The chart engine is pure and never logs or fails: malformed origins are
// defaulted or dropped. Problems are reported at the catalog boundary as a
// [catalog.Report].
package pkg
