package config

import "time"

const (
	DefaultDataFilePath     = "storage/data.json"
	DefaultLockTimeout      = 2 * time.Second
	DefaultLockPollInterval = 50 * time.Millisecond

	BackendFile  = "file"
	BackendMongo = "mongo"

	DefaultStorageBackend    = BackendFile
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bookline"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
