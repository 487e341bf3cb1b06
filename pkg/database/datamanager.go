package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrOffline is returned by reads while the database is unreachable
var ErrOffline = errors.New("database not connected")

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// DataManager provides cached access to a MongoDB collection. Documents are
// written whole: Set replaces the stored document, upserting it.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	options    DataManagerOptions
	cache      *lruCache[T]
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		options:    dmOptions,
		cache:      newLRUCache[T](dmOptions.MaxCacheSize),
	}
}

// Name returns the collection name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

// generateCacheKey creates a deterministic key from a query.
// Keys are sorted so map iteration order does not matter.
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

func (dm *DataManager[T]) collection() *mongo.Collection {
	if !dm.dbInstance.Connected() {
		return nil
	}
	return dm.dbInstance.GetCollection(dm.name)
}

// failed records a write error, dropping to offline mode on network errors
func (dm *DataManager[T]) failed(err error) {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		dm.dbInstance.MarkDisconnected()
	}
}

// Get retrieves a document from cache or database. A missing document
// returns nil without error.
func (dm *DataManager[T]) Get(query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)
	if cached, ok := dm.cache.get(cacheKey); ok {
		return &cached, nil
	}

	col := dm.collection()
	if col == nil {
		return nil, ErrOffline
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var result T
	if err := col.FindOne(ctx, query).Decode(&result); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer de la DB (%s)", dm.name), "DataManager")
		dm.failed(err)
		return nil, err
	}

	dm.cache.put(cacheKey, result)
	return &result, nil
}

// GetAll retrieves all documents matching a query from the database
func (dm *DataManager[T]) GetAll(query bson.M) ([]T, error) {
	col := dm.collection()
	if col == nil {
		return nil, ErrOffline
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := col.Find(ctx, query)
	if err != nil {
		dm.failed(err)
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	results := make([]T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn(fmt.Sprintf("Documento inválido en '%s': %v", dm.name, err), "DataManager")
			continue
		}
		results = append(results, doc)
	}

	return results, cursor.Err()
}

// Set replaces the document matching query, inserting it if needed. The
// cache is updated first; while offline the write is queued.
func (dm *DataManager[T]) Set(query bson.M, doc T) error {
	dm.cache.put(dm.generateCacheKey(query), doc)
	op := QueuedOperation{CollectionName: dm.name, Query: query, Operation: opSet, Data: doc}

	col := dm.collection()
	if col == nil {
		logger.Debug(fmt.Sprintf("DB offline. Encolando escritura para '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(op)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := apply(ctx, col, op); err != nil {
		logger.Error(fmt.Sprintf("Error en 'set' de '%s'. Encolando por seguridad.", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(op)
		dm.failed(err)
		return err
	}
	return nil
}

// Delete removes a document from the database and cache
func (dm *DataManager[T]) Delete(query bson.M) error {
	dm.cache.remove(dm.generateCacheKey(query))
	op := QueuedOperation{CollectionName: dm.name, Query: query, Operation: opDelete}

	col := dm.collection()
	if col == nil {
		logger.Debug(fmt.Sprintf("DB offline. Encolando eliminación para '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(op)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := apply(ctx, col, op); err != nil {
		logger.Error(fmt.Sprintf("Error en 'delete' de '%s'. Encolando por seguridad.", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(op)
		dm.failed(err)
		return err
	}
	return nil
}

// ClearCache clears the cache
func (dm *DataManager[T]) ClearCache() {
	dm.cache.clear()
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	return dm.cache.len()
}
