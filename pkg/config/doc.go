// Package config loads and validates japicc's runtime configuration from
// environment variables.
//
// # Configuration Structure
//
// Report server settings:
//
//	JAPICC_HOST="0.0.0.0"
//	JAPICC_PORT="8080"
//	JAPICC_HEALTH_PORT="8081"
//	JAPICC_READ_TIMEOUT="30s"
//	JAPICC_WRITE_TIMEOUT="30s"
//
// Dump history and result cache settings:
//
//	JAPICC_DUMP_STORE_PATH="/var/lib/japicc/history.db"
//	JAPICC_CACHE_ENABLED="true"
//	JAPICC_REDIS_URL="redis://localhost:6379"
//	JAPICC_REDIS_POOL_SIZE="10"
//	JAPICC_CACHE_TTL="1h"
//
// Remote archive fetch settings:
//
//	JAPICC_S3_ENDPOINT=""
//	JAPICC_S3_REGION="us-east-1"
//	JAPICC_S3_BUCKET=""
//
// Observability settings:
//
//	JAPICC_LOG_LEVEL="info"  # debug, info, warn, error
//	JAPICC_METRICS_ENABLED="true"
//	JAPICC_OTEL_ENABLED="false"
//	JAPICC_OTEL_SERVICE_NAME="japicc"
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
package config
