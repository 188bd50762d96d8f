// Package config loads and saves the achfile YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level achfile.yaml configuration.
type Config struct {
	SFTP  SFTPConfig  `yaml:"sftp"`
	Store StoreConfig `yaml:"store"`
	Sync  SyncConfig  `yaml:"sync"`
}

// SFTPConfig holds SFTP connection settings for the partner drop folder.
type SFTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password,omitempty"`
	KeyPath  string `yaml:"key_path,omitempty"`
	// TimeoutSeconds bounds the SSH dial.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// StoreConfig locates the relational store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// SyncConfig controls the drop-folder sync job.
type SyncConfig struct {
	// RemoteDir is the SFTP drop folder to ingest from.
	RemoteDir string `yaml:"remote_dir"`
	// ArchiveDir is where processed files are moved on the remote.
	ArchiveDir string `yaml:"archive_dir"`
	// ClientID is prefixed onto archived filenames.
	ClientID string `yaml:"client_id,omitempty"`
	// CreatedBy is recorded on every ach_files row the sync creates.
	CreatedBy string `yaml:"created_by"`
}

// Load reads an achfile.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new deployment.
func Default() *Config {
	return &Config{
		SFTP: SFTPConfig{
			Port:           22,
			TimeoutSeconds: 30,
		},
		Store: StoreConfig{
			Path: "./data/achfile.db",
		},
		Sync: SyncConfig{
			RemoteDir:  ".",
			ArchiveDir: "archive",
			CreatedBy:  "achfile-sync",
		},
	}
}
