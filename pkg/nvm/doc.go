// Package nvm models the device's word-addressed non-volatile memory.
//
// A Store reads and writes 16-bit words at fixed offsets. Layout describes
// a fixed record as an ordered list of named fields and derives their
// offsets once; Allocator hands out consecutive Regions after it so each
// service can claim a block of words for its own configuration.
package nvm
