package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog/internal/database"
	"catalog/internal/models"
	"catalog/internal/otp"
	"catalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New("sqlite://file:"+uuid.NewString()+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	return db
}

// productStores runs the same behaviour against the GORM and the in-memory implementation.
func productStores(t *testing.T) map[string]repositories.ProductStore {
	return map[string]repositories.ProductStore{
		"gorm":   repositories.NewGORMProductRepository(openDB(t)),
		"memory": repositories.NewMockProductRepository(),
	}
}

func seedProduct(t *testing.T, ctx context.Context, repo repositories.ProductRepository) (*models.Product, models.Option) {
	t.Helper()
	product := &models.Product{Name: "Shirt", Status: models.ProductStatusDraft}
	require.NoError(t, repo.Create(ctx, product))

	option := models.Option{ProductID: product.ID, Name: "color", Items: []models.OptionItem{
		{Value: "red", Position: 0},
		{Value: "green", Position: 1},
	}}
	require.NoError(t, repo.CreateOption(ctx, &option))

	variants := make([]models.Variant, 0, len(option.Items))
	for i, item := range option.Items {
		v := models.Variant{ProductID: product.ID, Price: decimal.NewFromInt(10), Position: i}
		v.SetOptionItem(0, item.ID)
		variants = append(variants, v)
	}
	require.NoError(t, repo.CreateVariants(ctx, variants))
	return product, option
}

func TestProductStore_CreateAndRead(t *testing.T) {
	for name, store := range productStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			product, option := seedProduct(t, ctx, store)
			assert.NotEmpty(t, product.ID)
			assert.NotEmpty(t, option.ID)
			for _, item := range option.Items {
				assert.NotEmpty(t, item.ID)
				assert.Equal(t, option.ID, item.OptionID)
			}

			options, err := store.GetOptions(ctx, product.ID)
			require.NoError(t, err)
			require.Len(t, options, 1)
			require.Len(t, options[0].Items, 2)
			assert.Equal(t, "red", options[0].Items[0].Value)
			assert.Equal(t, "green", options[0].Items[1].Value)

			variants, err := store.GetVariants(ctx, product.ID)
			require.NoError(t, err)
			require.Len(t, variants, 2)
			assert.Equal(t, []string{option.Items[0].ID}, variants[0].OptionItemIDs())
			assert.True(t, variants[0].Price.Equal(decimal.NewFromInt(10)))

			_, err = store.GetByID(ctx, "missing")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestProductStore_DuplicateOptionName(t *testing.T) {
	for name, store := range productStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			product, _ := seedProduct(t, ctx, store)

			err := store.CreateOption(ctx, &models.Option{ProductID: product.ID, Name: "color", Position: 1,
				Items: []models.OptionItem{{Value: "blue"}}})
			assert.ErrorIs(t, err, repositories.ErrDuplicate)
		})
	}
}

func TestProductStore_TransactionRollsBack(t *testing.T) {
	for name, store := range productStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			boom := errors.New("boom")

			err := store.Transaction(ctx, func(repo repositories.ProductRepository) error {
				seedProduct(t, ctx, repo)
				return boom
			})
			assert.ErrorIs(t, err, boom)

			products, err := store.GetAll(ctx, repositories.ProductFilter{})
			require.NoError(t, err)
			assert.Empty(t, products)
		})
	}
}

func TestProductStore_FilterUpdateDelete(t *testing.T) {
	for name, store := range productStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			product, _ := seedProduct(t, ctx, store)

			product.Name = "Shirt v2"
			product.Status = models.ProductStatusActive
			require.NoError(t, store.Update(ctx, product))

			active, err := store.GetAll(ctx, repositories.ProductFilter{Status: models.ProductStatusActive})
			require.NoError(t, err)
			require.Len(t, active, 1)
			assert.Equal(t, "Shirt v2", active[0].Name)

			drafts, err := store.GetAll(ctx, repositories.ProductFilter{Status: models.ProductStatusDraft})
			require.NoError(t, err)
			assert.Empty(t, drafts)

			err = store.Update(ctx, &models.Product{ID: "missing", Name: "x"})
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			require.NoError(t, store.Delete(ctx, product.ID))
			assert.ErrorIs(t, store.Delete(ctx, product.ID), repositories.ErrNotFound)

			options, err := store.GetOptions(ctx, product.ID)
			require.NoError(t, err)
			assert.Empty(t, options)
			variants, err := store.GetVariants(ctx, product.ID)
			require.NoError(t, err)
			assert.Empty(t, variants)
		})
	}
}

func TestProductStore_UpdateVariant(t *testing.T) {
	for name, store := range productStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			product, _ := seedProduct(t, ctx, store)
			variants, err := store.GetVariants(ctx, product.ID)
			require.NoError(t, err)

			v := variants[1]
			v.Price = decimal.RequireFromString("12.50")
			v.Stock = 4
			require.NoError(t, store.UpdateVariant(ctx, &v))

			got, err := store.GetVariant(ctx, product.ID, v.ID)
			require.NoError(t, err)
			assert.True(t, got.Price.Equal(decimal.RequireFromString("12.5")))
			assert.Equal(t, 4, got.Stock)

			_, err = store.GetVariant(ctx, "other-product", v.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestGORMAttributeRepository(t *testing.T) {
	repo := repositories.NewGORMAttributeRepository(openDB(t))
	ctx := context.Background()

	size := &models.Attribute{Name: "Size"}
	require.NoError(t, repo.Create(ctx, size))
	assert.ErrorIs(t, repo.Create(ctx, &models.Attribute{Name: "Size"}), repositories.ErrDuplicate)

	items := []models.AttributeItem{{AttributeID: size.ID, Value: "S"}, {AttributeID: size.ID, Value: "M"}}
	require.NoError(t, repo.CreateItems(ctx, items))
	assert.NotEmpty(t, items[0].ID)

	// A clash rolls back the whole batch.
	err := repo.CreateItems(ctx, []models.AttributeItem{{AttributeID: size.ID, Value: "L"}, {AttributeID: size.ID, Value: "S"}})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
	stored, err := repo.GetItems(ctx, size.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	deleted, err := repo.DeleteItems(ctx, []string{items[0].ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.NoError(t, repo.Delete(ctx, size.ID))
	_, err = repo.GetItem(ctx, items[1].ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserAndSessionRepositories(t *testing.T) {
	db := openDB(t)
	users := repositories.NewGORMUserRepository(db)
	sessions := repositories.NewGORMSessionRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "a@example.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, user))
	assert.ErrorIs(t, users.Create(ctx, &models.User{Email: "a@example.com", Password: "hash"}), repositories.ErrDuplicate)

	user.IsActive = true
	require.NoError(t, users.Update(ctx, user))
	got, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	live := &models.Session{ID: uuid.NewString(), UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	stale := &models.Session{ID: uuid.NewString(), UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, sessions.Create(ctx, live))
	require.NoError(t, sessions.Create(ctx, stale))

	ok, err := sessions.Exists(ctx, live.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = sessions.Exists(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, sessions.DeleteByUser(ctx, user.ID))
	ok, err = sessions.Exists(ctx, live.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, sessions.Delete(ctx, live.ID), repositories.ErrNotFound)
}

func TestGORMOTPRepository(t *testing.T) {
	otps := repositories.NewGORMOTPRepository(openDB(t))
	ctx := context.Background()

	first := &models.OTPChallenge{UserID: "u1", Purpose: models.OTPPurposeSignup, CodeHash: "h1",
		State: otp.StatePending, ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, otps.Create(ctx, first))

	require.NoError(t, otps.ExpirePending(ctx, "u1", models.OTPPurposeSignup))
	_, err := otps.GetPending(ctx, "u1", models.OTPPurposeSignup)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	second := &models.OTPChallenge{UserID: "u1", Purpose: models.OTPPurposeSignup, CodeHash: "h2",
		State: otp.StatePending, ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, otps.Create(ctx, second))

	pending, err := otps.GetPending(ctx, "u1", models.OTPPurposeSignup)
	require.NoError(t, err)
	assert.Equal(t, second.ID, pending.ID)

	// Purposes are independent.
	_, err = otps.GetPending(ctx, "u1", models.OTPPurposePasswordReset)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	pending.Attempts = 2
	require.NoError(t, otps.Update(ctx, pending))
	reloaded, err := otps.GetPending(ctx, "u1", models.OTPPurposeSignup)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Attempts)

	// Two readers of the same pending row: only the first write lands.
	racer := *reloaded
	pending.State = otp.StateConfirmed
	require.NoError(t, otps.Update(ctx, pending))
	racer.State = otp.StateConfirmed
	assert.ErrorIs(t, otps.Update(ctx, &racer), repositories.ErrNotFound)

	_, err = otps.GetPending(ctx, "u1", models.OTPPurposeSignup)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
