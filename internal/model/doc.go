// Package model defines the entity shapes managed by the portal core.
//
// All records are plain value types with enumerated status fields. There is
// no inheritance and no behavior beyond small validation helpers; the entity
// store (internal/entity) owns every instance and is the only writer.
//
// Statuses are open string enums: the constants below enumerate the values
// the portal itself produces, but no transition order is enforced. A product
// may move from Awaiting through Testing to Complete, yet the generic
// update path accepts any value.
package model
