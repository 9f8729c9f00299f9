package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jo-hoe/goschedule/internal/backend/awsclient"
	"github.com/jo-hoe/goschedule/internal/backend/blobstore"
	"github.com/jo-hoe/goschedule/internal/backend/database"
	"github.com/jo-hoe/goschedule/internal/backend/imageprocessing"

	"github.com/caarlos0/env/v9"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type" env:"DATABASE_TYPE" validate:"oneof=dynamodb sqlite redis badger"`
	ConnectionString string `yaml:"connectionString" env:"DATABASE_CONNECTION_STRING"`
	TableName        string `yaml:"tableName" env:"DYNAMODB_TABLE_NAME"`
}

type BlobStore struct {
	Type         string `yaml:"type" env:"BLOBSTORE_TYPE" validate:"oneof=s3 minio filesystem"`
	Bucket       string `yaml:"bucket" env:"AWS_STORAGE_BUCKET_NAME"`
	Endpoint     string `yaml:"endpoint" env:"BLOBSTORE_ENDPOINT"`
	Path         string `yaml:"path" env:"BLOBSTORE_PATH"`
	UseSSL       bool   `yaml:"useSSL" env:"BLOBSTORE_USE_SSL"`
	UsePathStyle bool   `yaml:"usePathStyle" env:"BLOBSTORE_USE_PATH_STYLE"`
}

type AWS struct {
	Region          string `yaml:"region" env:"AWS_REGION"`
	AccessKeyID     string `yaml:"accessKeyId" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secretAccessKey" env:"AWS_ACCESS_SECRET_KEY"`
}

// Display is the target resolution of the latest image
type Display struct {
	Width  int `yaml:"width" env:"DISPLAY_WIDTH" validate:"min=1"`
	Height int `yaml:"height" env:"DISPLAY_HEIGHT" validate:"min=1"`
}

type ServiceConfig struct {
	Port     int    `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
	LogLevel string `yaml:"logLevel" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	// StoreTimeout bounds every single call to the blob or metadata store
	StoreTimeout time.Duration `yaml:"storeTimeout" env:"STORE_TIMEOUT" validate:"min=1"`
	// MaxUploadSize uses the echo body limit notation, e.g. "20M"
	MaxUploadSize string `yaml:"maxUploadSize" env:"MAX_UPLOAD_SIZE" validate:"required"`
	// MaxImagePixels rejects stored images whose decoded size is above
	// width*height, 0 disables the check
	MaxImagePixels int `yaml:"maxImagePixels" env:"MAX_IMAGE_PIXELS" validate:"min=0"`

	Database  Database  `yaml:"database"`
	BlobStore BlobStore `yaml:"blobStore"`
	AWS       AWS       `yaml:"aws"`
	Display   Display   `yaml:"display"`

	// Commands run before the display resize of the latest image
	Commands []imageprocessing.CommandConfig `yaml:"commands"`
}

func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:           8080,
		LogLevel:       "info",
		StoreTimeout:   10 * time.Second,
		MaxUploadSize:  "20M",
		MaxImagePixels: 50_000_000,
		Database:       Database{Type: database.TypeDynamoDB},
		BlobStore:      BlobStore{Type: blobstore.TypeS3},
		Display:        Display{Width: 1200, Height: 825},
	}
}

// LoadConfig loads the YAML file at configPath on top of the defaults and then
// applies environment variables, including those from a .env file. A missing
// YAML file is not an error.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("config file not found, using defaults and environment", "path", configPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	// Load .env if available; ignore error if file does not exist
	_ = godotenv.Load()

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate checks the configuration once at start
func (config *ServiceConfig) Validate() error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	if _, err := bytes.Parse(config.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid maxUploadSize %q: %w", config.MaxUploadSize, err)
	}

	// the latest image is decoded again at display size after the resize
	if config.MaxImagePixels > 0 && config.MaxImagePixels < config.Display.Width*config.Display.Height {
		return fmt.Errorf("maxImagePixels %d is below the display size %dx%d", config.MaxImagePixels, config.Display.Width, config.Display.Height)
	}

	if config.Database.Type == database.TypeDynamoDB {
		if config.Database.TableName == "" {
			return errors.New("database.tableName is required for dynamodb")
		}
		if config.AWS.Region == "" {
			return errors.New("aws.region is required for dynamodb")
		}
	}

	switch config.BlobStore.Type {
	case blobstore.TypeS3:
		if config.BlobStore.Bucket == "" {
			return errors.New("blobStore.bucket is required for s3")
		}
		if config.AWS.Region == "" {
			return errors.New("aws.region is required for s3")
		}
	case blobstore.TypeMinio:
		if config.BlobStore.Bucket == "" || config.BlobStore.Endpoint == "" {
			return errors.New("blobStore.bucket and blobStore.endpoint are required for minio")
		}
	case blobstore.TypeFilesystem:
		if config.BlobStore.Path == "" {
			return errors.New("blobStore.path is required for filesystem")
		}
	}

	if err := validateCommands(config.Commands); err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}
	return nil
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []imageprocessing.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		// Validate name is not empty
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}

		// Validate name is unique
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true

		if !imageprocessing.DefaultRegistry.IsRegistered(cmd.Name) {
			return fmt.Errorf("unknown command %s, available: %s", cmd.Name,
				strings.Join(imageprocessing.DefaultRegistry.GetRegisteredNames(), ", "))
		}
	}

	// Parameters are checked by building the commands once
	_, err := imageprocessing.DefaultRegistry.CreateAll(commands)
	return err
}

func (config *ServiceConfig) databaseConfig() database.Config {
	return database.Config{
		Type:             config.Database.Type,
		ConnectionString: config.Database.ConnectionString,
		TableName:        config.Database.TableName,
		AWS:              config.awsCredentials(),
	}
}

func (config *ServiceConfig) blobStoreConfig() blobstore.Config {
	return blobstore.Config{
		Type:         config.BlobStore.Type,
		Bucket:       config.BlobStore.Bucket,
		Endpoint:     config.BlobStore.Endpoint,
		Path:         config.BlobStore.Path,
		UseSSL:       config.BlobStore.UseSSL,
		UsePathStyle: config.BlobStore.UsePathStyle,
		AWS:          config.awsCredentials(),
	}
}

func (config *ServiceConfig) awsCredentials() awsclient.Credentials {
	return awsclient.Credentials{
		Region:          config.AWS.Region,
		AccessKeyID:     config.AWS.AccessKeyID,
		SecretAccessKey: config.AWS.SecretAccessKey,
	}
}
