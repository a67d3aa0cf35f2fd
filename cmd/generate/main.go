package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-charts/internal/config"
	"gopkg.in/yaml.v3"
)

const (
	schemaName = "chartsync-config.json"
	sampleName = "chartsync.yaml"
)

// generate writes the config schema to dir and a sample config next to it if none exists yet.
func generate(dir string) error {
	schemaJSON, err := config.SchemaJSON()
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(dir, schemaName)
	sampleConfigPath := filepath.Join(dir, sampleName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		return err
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	if _, err := os.Stat(sampleConfigPath); !os.IsNotExist(err) {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config.Default())
	if err != nil {
		return err
	}

	// lets editors with the yaml language server validate the file
	yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

	if err := os.WriteFile(sampleConfigPath, yamlBytes, 0o644); err != nil {
		return err
	}

	log.Printf("Sample config successfully generated at %s", sampleConfigPath)

	return nil
}

func main() {
	if err := generate("./config"); err != nil {
		log.Fatalf("Failed to generate config files: %v", err)
	}
}
