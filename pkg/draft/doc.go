// Package draft defines the contract shared by the drafting methods.
//
// A method turns a typed measurement input into a Drawing: named
// construction points in the method's own unit, plus an ordered list of
// draw operations in page millimetres grouped into layers. Drawings are
// values; once returned they are never mutated, so a store can hand the
// same *Drawing to several readers.
package draft
