// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "RESOLVER_PORT"
	EnvLogLevel        = "RESOLVER_LOG_LEVEL"
	EnvShutdownTimeout = "RESOLVER_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir     = "RESOLVER_DATA_DIR"
	EnvDatasetPath = "RESOLVER_DATASET_PATH"

	// Request Limits
	EnvMaxNamesPerRequest = "RESOLVER_MAX_NAMES_PER_REQUEST"
	EnvSearchMaxLimit     = "RESOLVER_SEARCH_MAX_LIMIT"

	// Metrics Auth Feature
	EnvMetricsUsername = "RESOLVER_METRICS_USERNAME"
	EnvMetricsPassword = "RESOLVER_METRICS_PASSWORD"

	// Better Stack Feature
	EnvBetterstackToken    = "RESOLVER_BETTERSTACK_TOKEN"
	EnvBetterstackEndpoint = "RESOLVER_BETTERSTACK_ENDPOINT"

	// Sentry Feature
	EnvSentryToken       = "RESOLVER_SENTRY_TOKEN"
	EnvSentryHost        = "RESOLVER_SENTRY_HOST"
	EnvSentryEnvironment = "RESOLVER_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "RESOLVER_SENTRY_RELEASE"
	EnvSentrySampleRate  = "RESOLVER_SENTRY_SAMPLE_RATE"

	// R2 Dataset Store Feature
	EnvR2AccountID       = "RESOLVER_R2_ACCOUNT_ID"
	EnvR2AccessKeyID     = "RESOLVER_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "RESOLVER_R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "RESOLVER_R2_BUCKET_NAME"
	EnvR2DatasetKey      = "RESOLVER_R2_DATASET_KEY"
)
