// Package affected propagates a type-level change to the public methods
// whose signature touches that type through its receiver, a parameter, a
// return value, or transitively through a field, so a report can tell a
// reader which API surface is actually at risk from a given type change.
package affected
