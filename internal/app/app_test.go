package app

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-service/internal/core/domain"
	mongodb "github.com/99minutos/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/user-service/internal/infrastructure/db/redis"
	"github.com/99minutos/user-service/internal/pkg/config"
)

type mapStore map[string]map[string]string

func (s mapStore) Read(_ context.Context, path, mountPoint string) (map[string]string, error) {
	return s[mountPoint+"/"+path], nil
}

func fullStore() mapStore {
	return mapStore{
		"secret/Secrets": {
			"Secret":   "signing-key",
			"Issuer":   "auth-service",
			"Audience": "user-service",
		},
		"secret/Connections": {
			"mongoConnectionString": "mongodb://mongo:27017",
			"MongoDbDatabaseName":   "users_db",
			"AuthServiceUrl":        "http://auth:8080",
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Port:        "0",
		Env:         "development",
		AdminRole:   "admin",
		CORSOrigins: config.DefaultCORSOrigins,
		Vault: config.VaultConfig{
			Mount:           "secret",
			SigningPath:     "Secrets",
			ConnectionsPath: "Connections",
		},
		Mongo: config.MongoConfig{Collection: "Users", Timeout: time.Second},
		Redis: config.RedisConfig{Addr: "localhost:6379"},
		Login: config.LoginConfig{MaxAttempts: 5, Window: time.Minute},
	}
}

// countingDialers records every dial and fails it.
func countingDialers(mongoCalls, redisCalls *int) dialers {
	return dialers{
		mongo: func(context.Context, mongodb.Config) (*mongo.Client, *mongo.Database, error) {
			*mongoCalls++
			return nil, nil, errors.New("mongo dialed")
		},
		redis: func(context.Context, redisdb.Config) (*goredis.Client, error) {
			*redisCalls++
			return nil, errors.New("redis dialed")
		},
	}
}

func TestBuild_MissingSecretDialsNothing(t *testing.T) {
	for _, key := range []string{"Secret", "Issuer", "Audience", "mongoConnectionString", "MongoDbDatabaseName", "AuthServiceUrl"} {
		t.Run(key, func(t *testing.T) {
			store := fullStore()
			for _, group := range store {
				delete(group, key)
			}

			var mongoCalls, redisCalls int
			a, err := build(context.Background(), testConfig(), store, zerolog.Nop(), countingDialers(&mongoCalls, &redisCalls))

			require.Error(t, err)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
			assert.Contains(t, err.Error(), key)
			assert.Zero(t, mongoCalls)
			assert.Zero(t, redisCalls)
		})
	}
}

func TestBuild_MongoFailureStopsStartup(t *testing.T) {
	var mongoCalls, redisCalls int
	var got mongodb.Config
	d := countingDialers(&mongoCalls, &redisCalls)
	d.mongo = func(_ context.Context, cfg mongodb.Config) (*mongo.Client, *mongo.Database, error) {
		mongoCalls++
		got = cfg
		return nil, nil, errors.New("connection refused")
	}

	_, err := build(context.Background(), testConfig(), fullStore(), zerolog.Nop(), d)

	require.EqualError(t, err, "connection refused")
	assert.Equal(t, 1, mongoCalls)
	assert.Zero(t, redisCalls)
	assert.Equal(t, "mongodb://mongo:27017", got.URI)
	assert.Equal(t, "users_db", got.Database)
}

func TestBuild_RedisFailureStopsStartup(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(50*time.Millisecond))
	require.NoError(t, err)

	redisErr := errors.New("redis down")
	d := dialers{
		mongo: func(context.Context, mongodb.Config) (*mongo.Client, *mongo.Database, error) {
			return client, client.Database("users_db"), nil
		},
		redis: func(_ context.Context, cfg redisdb.Config) (*goredis.Client, error) {
			assert.Equal(t, "localhost:6379", cfg.Addr)
			return nil, redisErr
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = build(ctx, testConfig(), fullStore(), zerolog.Nop(), d)
	assert.ErrorIs(t, err, redisErr)
}

func TestBuild_ServesRoutes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("router is wired", func(mt *mtest.T) {
		cfg := testConfig()
		cfg.Login.MaxAttempts = 0

		var redisCalls int
		d := dialers{
			mongo: func(context.Context, mongodb.Config) (*mongo.Client, *mongo.Database, error) {
				return mt.Client, mt.DB, nil
			},
			redis: func(context.Context, redisdb.Config) (*goredis.Client, error) {
				redisCalls++
				return nil, errors.New("unexpected")
			},
		}

		// createIndexes, the find behind GET /users, then the insert.
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, mt.DB.Name()+".Users", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		var logs bytes.Buffer
		a, err := build(context.Background(), cfg, fullStore(), zerolog.New(&logs), d)
		require.NoError(mt, err)
		assert.Zero(mt, redisCalls, "redis is not dialed when throttling is off")

		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(mt, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		assert.Equal(mt, http.StatusOK, rec.Code)
		assert.Equal(mt, "[]", strings.TrimSpace(rec.Body.String()))

		rec = httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{}`)))
		assert.Equal(mt, http.StatusUnauthorized, rec.Code)

		rec = httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
		assert.Equal(mt, http.StatusOK, rec.Code, "swagger is served outside production")

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"role": "admin",
			"iss":  "auth-service",
			"aud":  "user-service",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("signing-key"))
		require.NoError(mt, err)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"alice","password":"p1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec = httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, req)
		assert.Equal(mt, http.StatusCreated, rec.Code, rec.Body.String())

		assert.Contains(mt, logs.String(), `"component":"user_service"`)
		for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
			assert.LessOrEqual(mt, strings.Count(line, `"component"`), 1, line)
		}
	})
}

func TestApp_StartFailureStillClosesStores(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	a := &App{
		log:    zerolog.Nop(),
		server: &http.Server{Addr: busy.Addr().String()},
		redis:  rdb,
	}

	require.Error(t, a.Start(), "port already in use")
	require.NoError(t, a.Shutdown(context.Background()))
	assert.ErrorIs(t, rdb.Ping(context.Background()).Err(), goredis.ErrClosed)
}
