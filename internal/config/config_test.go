package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("BLOB_DRIVER", "")
	t.Setenv("MAX_CONTENT_MB", "")

	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, BlobDriverLocal, cfg.BlobDriver)
	assert.Equal(t, int64(20<<20), cfg.MaxContentSize)
	assert.False(t, cfg.UseAsynq())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("WORKER_CONCURRENCY", "9")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("PUBLIC_BASE_URL", "https://locker.example.com/")

	cfg := Load()

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.True(t, cfg.UseAsynq())
	assert.Equal(t, 9, cfg.WorkerConcurrency)
	assert.True(t, cfg.S3UseSSL)
	assert.Equal(t, "https://locker.example.com", cfg.PublicBaseURL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_REFRESH_EXPIRY", "soon")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()

	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "postgres ok",
			cfg:  Config{JWTSecret: "s", StoreDriver: StoreDriverPostgres, DBPassword: "p", BlobDriver: BlobDriverLocal},
		},
		{
			name: "memory needs no db password",
			cfg:  Config{JWTSecret: "s", StoreDriver: StoreDriverMemory, BlobDriver: BlobDriverS3},
		},
		{
			name:    "missing jwt secret",
			cfg:     Config{StoreDriver: StoreDriverMemory, BlobDriver: BlobDriverLocal},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "missing db password",
			cfg:     Config{JWTSecret: "s", StoreDriver: StoreDriverPostgres, BlobDriver: BlobDriverLocal},
			wantErr: "DB_PASSWORD",
		},
		{
			name:    "unknown blob driver",
			cfg:     Config{JWTSecret: "s", StoreDriver: StoreDriverMemory, BlobDriver: "ftp"},
			wantErr: "BLOB_DRIVER",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
