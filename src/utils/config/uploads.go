package config

import (
	"github.com/spf13/viper"
)

type Uploads struct {
	// Directory attachment files are stored in
	Dir string

	// Per-file size cap in bytes
	MaxFileSize int64

	MaxFilesPerRequest int
}

func setUploadsDefaults() {
	viper.SetDefault("Uploads.Dir", "./uploads")
	viper.SetDefault("Uploads.MaxFileSize", "10485760")
	viper.SetDefault("Uploads.MaxFilesPerRequest", "5")
}
