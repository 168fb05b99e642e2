// Package geom provides the integer grid geometry shared by room templates
// and placed rooms.
//
// # Coordinates
//
// All positions are cells on an integer grid. Y grows upward: a doorway
// facing north sits on the top edge of its room, and the cell directly
// outside it is one row above.
//
// # Bounds
//
// [Bounds] is an axis-aligned box whose Lower and Upper corners are both
// inside the box. Two boxes overlap only when they share at least one cell:
//
//	a := geom.Bounds{Lower: geom.Point{X: 0, Y: 0}, Upper: geom.Point{X: 4, Y: 4}}
//	b := a.Translate(geom.Point{X: 5})
//	a.Overlaps(b) // false: the boxes touch along x=4|x=5 but share no cell
//
// # Doorways
//
// A [Doorway] is a value type. Rooms copy their template's doorways on
// creation and mutate the copy's [ConnectionState] while a layout is built.
package geom
