package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipebook/internal/db"
	"recipebook/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open(db.DriverSQLite, ":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}

func strPtr(s string) *string { return &s }

func TestRecipeRepository_CreateAssignsFreshIDs(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	first := &model.Recipe{Title: "Omelette", Description: "Eggs", Ingredients: model.NewEntries("egg")}
	second := &model.Recipe{Title: "Toast", Description: "Bread", Category: strPtr("breakfast")}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.False(t, first.UpdatedAt.IsZero())

	got, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toast", got.Title)
	require.NotNil(t, got.Category)
	assert.Equal(t, "breakfast", *got.Category)
	assert.Nil(t, got.ImageURL)
}

func TestRecipeRepository_List(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)

	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, &model.Recipe{Title: title, Description: "d"}))
	}

	recipes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
}

func TestRecipeRepository_FindByIDMissing(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateFields(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{ID: 1, Name: "John Doe", Email: "johndoe@example.com"}))
	before, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	n, err := repo.UpdateFields(ctx, 1, map[string]interface{}{
		"name":       "Jane",
		"email":      "jane@x.com",
		"updated_at": time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	after, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", after.Name)
	assert.Equal(t, "jane@x.com", after.Email)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	n, err = repo.UpdateFields(ctx, 2, map[string]interface{}{"name": "Nobody"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserRepository_FirstOrCreateAndDeleteAll(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.FirstOrCreate(ctx, &model.User{ID: 1, Name: "John Doe"}))
	existing := &model.User{ID: 1, Name: "Ignored"}
	require.NoError(t, repo.FirstOrCreate(ctx, existing))
	assert.Equal(t, "John Doe", existing.Name)

	require.NoError(t, repo.DeleteAll(ctx))
	_, err := repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
