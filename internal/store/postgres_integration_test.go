//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"shop-api/internal/api"
	"shop-api/internal/database"
	"shop-api/internal/models"
	"shop-api/internal/store"
)

// setupTestDB starts PostgreSQL, applies the schema and returns a connected handle.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shop"),
		postgres.WithUsername("shop"),
		postgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := database.FromPool(pool)
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestPostgres(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	st := store.New(db)

	t.Run("migrate is idempotent", func(t *testing.T) {
		require.NoError(t, db.Migrate(ctx))
	})

	t.Run("product round trip keeps price and type", func(t *testing.T) {
		p := models.Product{
			ID:    uuid.NewString(),
			Name:  "Tea",
			Price: decimal.RequireFromString("4.50"),
			Type:  uuid.NewString(),
		}
		require.NoError(t, st.Products.Create(ctx, p))

		got, err := st.Products.Get(ctx, uuid.MustParse(p.ID))
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, p.Type, got.Type)
		assert.True(t, p.Price.Equal(got.Price))
	})

	t.Run("order purchased_at is stamped by the server", func(t *testing.T) {
		o := models.Order{ID: uuid.NewString(), ProductID: uuid.NewString(), UserID: uuid.NewString()}
		require.NoError(t, st.Orders.Create(ctx, o))

		got, err := st.Orders.Get(ctx, uuid.MustParse(o.ID))
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), got.PurchasedAt, time.Minute)
	})

	t.Run("missing row is no result", func(t *testing.T) {
		_, err := st.Categories.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, database.ErrNoResult)
	})

	t.Run("duplicate rows are ambiguous", func(t *testing.T) {
		_, err := database.QueryOne(ctx, db, pgx.RowTo[int], "SELECT generate_series(1, 2)")
		assert.ErrorIs(t, err, database.ErrAmbiguousResult)
	})

	t.Run("delete only touches its own table", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, st.Orders.Create(ctx, models.Order{ID: id, ProductID: uuid.NewString(), UserID: uuid.NewString()}))
		require.NoError(t, st.Categories.Create(ctx, models.Category{ID: id, Category: "shares an id"}))

		require.NoError(t, st.Orders.Delete(ctx, uuid.MustParse(id)))

		_, err := st.Orders.Get(ctx, uuid.MustParse(id))
		assert.ErrorIs(t, err, database.ErrNoResult)
		_, err = st.Categories.Get(ctx, uuid.MustParse(id))
		assert.NoError(t, err)
	})
}

func TestPostgres_HTTP(t *testing.T) {
	db := setupTestDB(t)
	st := store.New(db)
	srv := api.NewServer(":0", api.Stores{
		Users:      st.Users,
		Products:   st.Products,
		Categories: st.Categories,
		Orders:     st.Orders,
	}, db, api.Options{})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(method, target, strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, r)
		return w
	}

	w := do(http.MethodGet, "/api/v1/products?id="+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodPost, "/api/v1/users", `{"name":"Ann","email":"ann@x.com","mobile":"555"}`)
	require.Equal(t, http.StatusOK, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	id := loc.Query().Get("id")

	w = do(http.MethodGet, "/api/v1/users?id="+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.User{ID: id, Name: "Ann", Email: "ann@x.com", Mobile: "555"}, body.Data)

	w = do(http.MethodPut, "/api/v1/categories", `{"category":"Tea"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodPut, "/api/v1/users?id="+uuid.NewString(), `{"name":"x","email":"y","mobile":"z"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodDelete, "/api/v1/users?id="+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
