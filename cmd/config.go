package cmd

import "time"

// Config carries everything the process reads from its environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// StagingDir is where uploaded import files wait for the worker.
	StagingDir string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// WorkerProcessingTimeout is how long a claimed job may run before the
	// sweep declares its worker dead.
	WorkerProcessingTimeout time.Duration

	// WorkerTickBudget is how long one tick may spend on file rows before
	// pausing the job.
	WorkerTickBudget time.Duration

	// WorkerMaxRetries bounds transient-error requeues per job.
	WorkerMaxRetries int
}
