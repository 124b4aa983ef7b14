// Package config provides the chatprefs application configuration.
//
// The application keeps everything in one base directory, by default the
// directory holding the executable, overridable with $CHATPREFS_HOME:
//
//	<base dir>/
//	├── config.json     # application config (this package)
//	├── Settings.xml    # user settings (package settings)
//	└── chatprefs.log   # log output
//
// config.json holds plain key-value options:
//
//	{
//	  "log_level": "info",
//	  "log_file": "chatprefs.log",
//	  "watch_settings": true,
//	  "watch_debounce_ms": 300,
//	  "preview_markdown": true,
//	  "preview_style": "dracula"
//	}
//
// String values may reference environment variables with $VAR or ${VAR}.
//
// Example usage:
//
//	dir, err := config.BaseDir()
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := config.NewManager(dir)
//	if err := manager.Load(); err != nil {
//		log.Fatal(err)
//	}
//	cfg := manager.Get()
package config
