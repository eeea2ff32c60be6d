// Package catalog loads origin catalogs and selection files for the chart
// engine.
//
// # Overview
//
// A catalog is a list of origin records. Records can come from a JSON,
// YAML or TOML document, or from a MongoDB collection with one document
// per origin. Every record is normalized through the same decoder, so the
// accepted fields are identical across sources:
//
//	[[origins]]
//	id = "hive-world"
//	step = "homeWorld"
//	positions = [5]
//	name = "Hive World"
//	xpCost = 0
//
//	[[origins]]
//	id = "fringe-survivor"
//	step = "birthright"
//	position = 1
//	requirements = { excludedSteps = ["hive-world"] }
//
// Decoding is weakly typed: "3" decodes as 3 and a single position decodes
// as a one-element list. Keys the decoder does not know are kept in
// [origin.Metadata.Extra].
//
// A catalog split across files can be loaded with a [GlobSource] pattern
// such as "catalogs/**/*.toml"; [Open] chooses between it and a
// [FileSource] from the path alone.
//
// # Validation
//
// Loading never rejects a catalog because of a bad record. Instead
// [Validate] produces a [Report] of issues: records without an ID, origins
// without a recognized step (which the chart engine leaves out), slots
// outside 0–8, duplicate IDs and requirements that name unknown origins.
// Only a document that cannot be parsed at all is an error.
//
// # Selections
//
// [ResolveSelections] turns a step → origin ID mapping, as read by
// [ReadSelections], into [origin.Selections] checked against the catalog.
package catalog
