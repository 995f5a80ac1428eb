// Package persistence keeps the device's non-volatile memory image on disk.
//
// The image is a CBOR document holding every word of the store. FileStore
// serves reads from memory and writes the whole image through to disk on
// every write, so a restart sees exactly what was last written.
package persistence
