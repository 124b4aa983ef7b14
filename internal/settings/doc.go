// Package settings holds the chat plugin's user preferences.
//
// A Store keeps one typed Value per key of its schema, mirrors them into an
// XML document on Save and writes that document to <base dir>/Settings.xml:
//
//	<Settings>
//	  <Setting Key="ChatBackgroundColor">
//	    <Value>#FF000000</Value>
//	  </Setting>
//	  <Setting Key="Zoom">
//	    <Value>100</Value>
//	  </Setting>
//	</Settings>
//
// Every value has a Kind. Text coming from the file or from the UI is
// coerced through the kind's codec; malformed colors and fonts fall back to
// opaque black and "Microsoft Sans Serif, 12pt" instead of failing.
//
// The Store is not safe for concurrent use. It is meant to be driven from
// the UI goroutine, which is also where Subscribe callbacks run.
package settings
