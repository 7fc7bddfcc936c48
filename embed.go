package main

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed all:frontend
var frontendFiles embed.FS

// frontendFS serves the viewer pages from the root of the embedded tree.
func frontendFS() (fs.FS, error) {
	sub, err := fs.Sub(frontendFiles, "frontend")
	if err != nil {
		return nil, fmt.Errorf("frontend assets: %w", err)
	}
	return sub, nil
}
