// Package origin defines the domain types shared by the origin chart engine
// and its loaders.
//
// # Overview
//
// Character creation walks six ordered steps, from home world to career.
// Each step offers a row of origins ("nodes"), and each origin occupies one
// or more horizontal slots numbered 0 through 8. A choice in one step limits
// the choices in the neighbouring step to origins whose slots sit at most
// one column away.
//
// This package only models that data. The layout and connectivity rules
// live in [github.com/matzehuels/originchart/pkg/chart], and decoding from
// files or databases lives in [github.com/matzehuels/originchart/pkg/catalog].
//
// # Selections
//
// The engine reads confirmed choices through the narrow [SelectionReader]
// interface rather than a document type. [Selections] is the map-backed
// implementation used by the CLI and the HTTP API; a [Selection] carries
// only the origin ID and its slot set.
//
// # Labels
//
// Step display labels are resolved through an injected [LabelFunc]. The
// English defaults are available from [DefaultLabel].
package origin
