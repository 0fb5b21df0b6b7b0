package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
	"github.com/dmitrijs2005/gophchat/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. The same struct is
// used for JSON and YAML files; durations use timex.Duration so both "168h"
// and integer nanoseconds are accepted.
type FileConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	APIPrefix        string          `json:"api_prefix" yaml:"api_prefix"`
	Environment      string          `json:"environment" yaml:"environment"`
	LogLevel         string          `json:"log_level" yaml:"log_level"`
	DatabaseDSN      string          `json:"database_dsn" yaml:"database_dsn"`
	StorageBackend   string          `json:"storage_backend" yaml:"storage_backend"`
	SecretKey        string          `json:"secret_key" yaml:"secret_key"`
	SessionTTL       *timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	BcryptCost       int             `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	MaxBodyBytes     int64           `json:"max_body_bytes" yaml:"max_body_bytes"`
	S3RootUser       string          `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket         string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicURL      string          `json:"s3_public_url" yaml:"s3_public_url"`
	EventsBackend    string          `json:"events_backend" yaml:"events_backend"`
	RedisURL         string          `json:"redis_url" yaml:"redis_url"`
	KafkaBrokers     []string        `json:"kafka_brokers" yaml:"kafka_brokers"`
	KafkaTopic       string          `json:"kafka_topic" yaml:"kafka_topic"`
}

// parseFile loads the file named by -c/-config (if any) and copies every
// field it sets into config. Files ending in .yaml or .yml are read as YAML,
// anything else as JSON. Unreadable or malformed files panic.
func parseFile(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.APIPrefix, c.APIPrefix)
	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.MaxBodyBytes > 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	setString(&config.EventsBackend, c.EventsBackend)
	setString(&config.RedisURL, c.RedisURL)
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	setString(&config.KafkaTopic, c.KafkaTopic)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
