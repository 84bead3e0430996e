package config

// Header constants.
const (
	HEADER_KEY_X_UID       = "X-Uid"
	HEADER_KEY_X_CLIENT_ID = "X-Client-Id"
)

// Environment variable keys.
const (
	ENV_KEY_APP_ENV = "APP_ENV"
	ENV_KEY_PORT    = "PORT"

	ENV_KEY_DB_DATABASE             = "DB_DATABASE"
	ENV_KEY_DB_PASSWORD             = "DB_PASSWORD"
	ENV_KEY_DB_USER                 = "DB_USER"
	ENV_KEY_DB_PORT                 = "DB_PORT"
	ENV_KEY_DB_HOST                 = "DB_HOST"
	ENV_KEY_DB_MAX_OPEN_CONNECTIONS = "DB_MAX_OPEN_CONNECTIONS"

	ENV_KEY_MINIO_ENDPOINT    = "MINIO_ENDPOINT"
	ENV_KEY_MINIO_ACCESS_KEY  = "MINIO_ACCESS_KEY"
	ENV_KEY_MINIO_SECRET_KEY  = "MINIO_SECRET_KEY"
	ENV_KEY_MINIO_BUCKET      = "MINIO_BUCKET"
	ENV_KEY_MINIO_PUBLIC_PATH = "MINIO_PUBLIC_PATH"

	ENV_KEY_REDIS_ADDR     = "REDIS_ADDR"
	ENV_KEY_REDIS_PASSWORD = "REDIS_PASSWORD"

	ENV_KEY_CLIENT_ID = "CLIENT_ID"
	ENV_KEY_LOG_LEVEL = "LOG_LEVEL"

	ENV_KEY_MAX_PHOTO_SIZE_BYTES = "MAX_PHOTO_SIZE_BYTES"

	ENV_KEY_SMTP_HOST      = "SMTP_HOST"
	ENV_KEY_SMTP_PORT      = "SMTP_PORT"
	ENV_KEY_SMTP_USER      = "SMTP_USER"
	ENV_KEY_SMTP_PASSWORD  = "SMTP_PASSWORD"
	ENV_KEY_SMTP_FROM      = "SMTP_FROM"
	ENV_KEY_OPERATOR_EMAIL = "OPERATOR_EMAIL"
)

type ContextKey uint

const (
	_ ContextKey = iota
	CTX_KEY_USER_ID
	CTX_KEY_USER_ROLE
)

// DEFAULT_MAX_PHOTO_SIZE_BYTES caps listing photo uploads at 10 MiB
// unless overridden via MAX_PHOTO_SIZE_BYTES.
const DEFAULT_MAX_PHOTO_SIZE_BYTES = 10 << 20
