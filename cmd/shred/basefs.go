package main

import (
	"github.com/aegistudio/shaft"
	"github.com/spf13/afero"
)

var basePath string

func init() {
	rootCmd.PersistentFlags().StringVar(
		&basePath, "base-path", basePath,
		"resolve every target under this directory and refuse to leave it")
	options = append(options, shaft.Provide(func() afero.Fs {
		var fs afero.Fs = afero.NewOsFs()
		if basePath != "" {
			fs = afero.NewBasePathFs(fs, basePath)
		}
		return fs
	}))
}
