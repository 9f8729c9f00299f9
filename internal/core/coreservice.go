package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/jo-hoe/goschedule/internal/backend/blobstore"
	"github.com/jo-hoe/goschedule/internal/backend/database"
	"github.com/jo-hoe/goschedule/internal/backend/imageprocessing"
)

const bitmapConverterName = "BitmapConverterCommand"

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	blobStore       blobstore.BlobStore

	byIDPipeline   *imageprocessing.CommandInvoker
	latestPipeline *imageprocessing.CommandInvoker

	now func() time.Time
}

// NewCoreService connects to the configured stores
func NewCoreService(ctx context.Context, config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(ctx, config)
	if err != nil {
		return nil, err
	}

	blobStore, err := blobstore.NewBlobStore(ctx, config.blobStoreConfig())
	if err != nil {
		_ = databaseService.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}
	slog.Info("blob store initialized successfully", "type", config.BlobStore.Type)

	service, err := NewCoreServiceWithStores(config, databaseService, blobStore)
	if err != nil {
		_ = databaseService.Close()
		_ = blobStore.Close()
		return nil, err
	}
	return service, nil
}

// NewCoreServiceWithStores uses already connected stores
func NewCoreServiceWithStores(config *ServiceConfig, databaseService database.DatabaseService, blobStore blobstore.BlobStore) (*CoreService, error) {
	byID, latest := pipelineConfigs(config)

	byIDCommands, err := imageprocessing.DefaultRegistry.CreateAll(byID)
	if err != nil {
		return nil, fmt.Errorf("failed to build image pipeline: %w", err)
	}
	latestCommands, err := imageprocessing.DefaultRegistry.CreateAll(latest)
	if err != nil {
		return nil, fmt.Errorf("failed to build latest image pipeline: %w", err)
	}

	service := &CoreService{
		config:          config,
		databaseService: databaseService,
		blobStore:       blobStore,
		byIDPipeline:    imageprocessing.NewCommandInvoker(byIDCommands),
		latestPipeline:  imageprocessing.NewCommandInvoker(latestCommands),
		now:             time.Now,
	}
	slog.Info("image pipelines ready",
		"byID", service.byIDPipeline.Names(),
		"latest", service.latestPipeline.Names())
	return service, nil
}

// pipelineConfigs returns the command lists of the two retrieval paths. By id
// only converts to bitmap. The configured commands run on the latest path,
// followed by the resize to the display.
func pipelineConfigs(config *ServiceConfig) (byID, latest []imageprocessing.CommandConfig) {
	decodeParams := map[string]any{
		"svgFallbackWidth":  config.Display.Width,
		"svgFallbackHeight": config.Display.Height,
		"maxPixels":         config.MaxImagePixels,
	}
	bitmap := withDefaultParams(imageprocessing.CommandConfig{Name: bitmapConverterName}, decodeParams)
	resize := withDefaultParams(imageprocessing.CommandConfig{
		Name: "ResizeCommand",
		Params: map[string]any{
			"width":  config.Display.Width,
			"height": config.Display.Height,
			"filter": "lanczos",
		},
	}, decodeParams)

	byID = []imageprocessing.CommandConfig{bitmap}
	latest = make([]imageprocessing.CommandConfig, 0, len(config.Commands)+2)
	for _, command := range config.Commands {
		latest = append(latest, withDefaultParams(command, decodeParams))
	}
	latest = append(latest, resize, bitmap)
	return byID, latest
}

// withDefaultParams returns a copy of command with defaults added for every
// parameter it does not set itself
func withDefaultParams(command imageprocessing.CommandConfig, defaults map[string]any) imageprocessing.CommandConfig {
	params := make(map[string]any, len(defaults)+len(command.Params))
	maps.Copy(params, defaults)
	maps.Copy(params, command.Params)
	return imageprocessing.CommandConfig{Name: command.Name, Params: params}
}

func getDatabaseService(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(ctx, config.databaseConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func (service *CoreService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, service.config.StoreTimeout)
}

// ScheduleImage stores the blob first and the record second. If the record
// cannot be written the blob stays behind without a reference.
func (service *CoreService) ScheduleImage(ctx context.Context, filename, contentType string, data []byte, scheduledTime string) (*database.Record, error) {
	normalized, err := NormalizeScheduledTime(scheduledTime, service.now())
	if err != nil {
		return nil, err
	}

	objectKey, err := blobstore.NewObjectKey(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate object key: %w", err)
	}

	putCtx, cancel := service.storeContext(ctx)
	err = service.blobStore.PutObject(putCtx, objectKey, data, contentType)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	record, err := database.NewRecord(service.blobStore.ObjectURL(objectKey), objectKey, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to generate identifier: %w", err)
	}

	createCtx, cancel := service.storeContext(ctx)
	err = service.databaseService.CreateRecord(createCtx, record)
	cancel()
	if err != nil {
		slog.Error("blob stored without record", "objectKey", objectKey, "error", err)
		return nil, fmt.Errorf("failed to store record: %w", err)
	}

	slog.Info("image scheduled", "id", record.ID, "objectKey", objectKey, "scheduledTime", normalized, "size", len(data))
	return record, nil
}

// GetImageBitmap returns the image of the record as 24-bit bitmap in its
// original size
func (service *CoreService) GetImageBitmap(ctx context.Context, id string) ([]byte, error) {
	getCtx, cancel := service.storeContext(ctx)
	record, err := service.databaseService.GetRecordByID(getCtx, id)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	if record == nil {
		return nil, ErrImageNotFound
	}

	return service.renderRecord(ctx, record, service.byIDPipeline)
}

// GetLatestBitmap returns the image with the greatest scheduled time, resized
// to the display
func (service *CoreService) GetLatestBitmap(ctx context.Context) ([]byte, error) {
	scanCtx, cancel := service.storeContext(ctx)
	records, err := service.databaseService.GetAllRecords(scanCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	// full scan on every request, there is no index on scheduled_time
	slog.Info("scanned all records for latest image", "count", len(records))

	latest := selectLatest(records)
	if latest == nil {
		return nil, ErrNoImages
	}

	return service.renderRecord(ctx, latest, service.latestPipeline)
}

// selectLatest returns the first record with the greatest scheduled time string
func selectLatest(records []*database.Record) *database.Record {
	var latest *database.Record
	for _, record := range records {
		if record == nil {
			continue
		}
		if latest == nil || record.ScheduledTime > latest.ScheduledTime {
			latest = record
		}
	}
	return latest
}

func (service *CoreService) renderRecord(ctx context.Context, record *database.Record, pipeline *imageprocessing.CommandInvoker) ([]byte, error) {
	key := record.Key()
	if key == "" {
		return nil, fmt.Errorf("record %s has no object key", record.ID)
	}

	getCtx, cancel := service.storeContext(ctx)
	data, err := service.blobStore.GetObject(getCtx, key)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to get image %s: %w", key, err)
	}

	bitmap, err := pipeline.Execute(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image %s: %w", record.ID, err)
	}
	return bitmap, nil
}

func (service *CoreService) Close() error {
	return errors.Join(service.databaseService.Close(), service.blobStore.Close())
}
