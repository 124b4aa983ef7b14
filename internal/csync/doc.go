// Package csync provides thread-safe collections.
//
// Set is an insertion-ordered set guarded by a read-write mutex. The
// settings store uses it as its tracked-key registry: the order keys are
// added in is the order they are written to Settings.xml, which keeps the
// persisted file stable across saves.
//
// Example usage:
//
//	keys := csync.NewSet[string]()
//	keys.Add("Zoom", "ChatFont")
//	for _, k := range keys.Items() {
//		fmt.Println(k)
//	}
package csync
