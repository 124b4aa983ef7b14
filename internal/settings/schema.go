package settings

// Keys of the chat plugin's settings.
const (
	KeyChatBackgroundColor = "ChatBackgroundColor"
	KeyTimeStampColor      = "TimeStampColor"
	KeyChatFont            = "ChatFont"
	KeyZoom                = "Zoom"
)

// Definition declares a setting: its kind and default in text form.
type Definition struct {
	Key         string
	Kind        Kind
	Default     string
	Description string
}

// DefaultSchema returns the chat plugin's settings in display order.
func DefaultSchema() []Definition {
	return []Definition{
		{
			Key:         KeyChatBackgroundColor,
			Kind:        KindColor,
			Default:     "#FF000000",
			Description: "Background of the chat log",
		},
		{
			Key:         KeyTimeStampColor,
			Kind:        KindColor,
			Default:     "#FF800080",
			Description: "Color of message timestamps",
		},
		{
			Key:         KeyChatFont,
			Kind:        KindFont,
			Default:     "Microsoft Sans Serif, 12pt",
			Description: "Font used for chat lines",
		},
		{
			Key:         KeyZoom,
			Kind:        KindFloat,
			Default:     "100",
			Description: "Zoom level in percent",
		},
	}
}

// Keys lists the keys of a schema in order.
func Keys(schema []Definition) []string {
	keys := make([]string, len(schema))
	for i, def := range schema {
		keys[i] = def.Key
	}
	return keys
}
