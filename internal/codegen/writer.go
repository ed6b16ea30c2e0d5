package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpattn/verge/internal/domain"
)

// Artifact is one rendered output file, addressed relative to the output
// directory.
type Artifact struct {
	Path string
	Data []byte
}

// BuildArtifacts renders one generated package per version, oldest first.
// Every file is rendered before anything can be written, so a failure never
// leaves a partial artifact tree behind.
func BuildArtifacts(
	chain *domain.VersionChain,
	schemasByVersion map[domain.VersionKey][]domain.SchemaDefinition,
	routesByVersion map[domain.VersionKey][]domain.Endpoint,
) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, chain.Len())
	for _, version := range chain.Versions() {
		source, err := RenderVersionSource(version.Key, schemasByVersion[version.Key], routesByVersion[version.Key])
		if err != nil {
			return nil, err
		}
		pkg := PackageName(version.Key)
		artifacts = append(artifacts, Artifact{
			Path: filepath.Join(pkg, "schema.go"),
			Data: source,
		})
	}
	return artifacts, nil
}

// WriteArtifacts writes the rendered files under dir, creating package
// directories as needed.
func WriteArtifacts(dir string, artifacts []Artifact) error {
	for _, artifact := range artifacts {
		target := filepath.Join(dir, artifact.Path)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create artifact directory for %s: %w", artifact.Path, err)
		}
		if err := os.WriteFile(target, artifact.Data, 0o644); err != nil {
			return fmt.Errorf("write artifact %s: %w", artifact.Path, err)
		}
	}
	return nil
}
