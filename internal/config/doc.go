// Package config loads cattery's settings.
//
// Settings come from ~/.config/cattery/config.toml (or an explicit path),
// then from CATTERY_* environment variables, then from defaults:
//
//	base_url = "https://cataas.com"   # CATTERY_BASE_URL
//	timeout  = "15s"                  # CATTERY_TIMEOUT
//	storage  = "file"                 # CATTERY_STORAGE: file, sqlite or memory
//	data_dir = "~/.local/share/cattery"  # CATTERY_DATA_DIR
//	log_file = "<data_dir>/cattery.log"  # CATTERY_LOG_FILE
//
// A missing config file is not an error. Tilde paths are expanded and relative
// paths are made absolute.
package config
