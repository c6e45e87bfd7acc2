package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Item) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewCartRepository(testDB)

	user := &model.User{Username: "testuser", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	item := &model.Item{
		Name:     "iPhone 15",
		Price:    decimal.RequireFromString("999.00"),
		Category: "Electronics",
	}
	require.NoError(t, testDB.Create(item).Error)

	return testDB, repo, user, item
}

func TestCartRepository_FindByUserID_NotFound(t *testing.T) {
	_, repo, user, _ := setupCartTest(t)

	cart, err := repo.FindByUserID(user.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Nil(t, cart)

	carts, err := repo.ListByUserID(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, carts)
	assert.Empty(t, carts)
}

func TestCartRepository_LinesRoundTrip(t *testing.T) {
	_, repo, user, item := setupCartTest(t)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(cart))
	require.NoError(t, repo.CreateLine(&model.CartItem{CartID: cart.ID, ItemID: item.ID, Quantity: 1}))

	line, err := repo.FindLine(cart.ID, item.ID)
	require.NoError(t, err)
	line.Quantity = 3
	require.NoError(t, repo.UpdateLine(line))

	found, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, uint(3), found.Items[0].Quantity)
	assert.Equal(t, "iPhone 15", found.Items[0].Item.Name)
	assert.Equal(t, "2997.00", found.Total().StringFixed(2))
}

func TestCartRepository_DeleteLineByItem(t *testing.T) {
	_, repo, user, item := setupCartTest(t)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(cart))
	require.NoError(t, repo.CreateLine(&model.CartItem{CartID: cart.ID, ItemID: item.ID, Quantity: 1}))

	n, err := repo.DeleteLineByItem(cart.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteLineByItem(cart.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCartRepository_FindByIDAndUser_Ownership(t *testing.T) {
	testDB, repo, user, _ := setupCartTest(t)

	other := &model.User{Username: "other", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(other).Error)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(cart))

	_, err := repo.FindByIDAndUser(cart.ID, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByIDAndUser(cart.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
}

func TestCartRepository_DeleteEmptyOlderThan(t *testing.T) {
	testDB, repo, user, item := setupCartTest(t)

	owners := []*model.User{
		{Username: "full-owner", PasswordHash: "hash"},
		{Username: "fresh-owner", PasswordHash: "hash"},
	}
	for _, owner := range owners {
		require.NoError(t, testDB.Create(owner).Error)
	}

	stale := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(stale))
	full := &model.Cart{UserID: owners[0].ID}
	require.NoError(t, repo.Create(full))
	require.NoError(t, repo.CreateLine(&model.CartItem{CartID: full.ID, ItemID: item.ID, Quantity: 1}))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, testDB.Model(&model.Cart{}).Where("1 = 1").UpdateColumn("updated_at", past).Error)

	fresh := &model.Cart{UserID: owners[1].ID}
	require.NoError(t, repo.Create(fresh))

	n, err := repo.DeleteEmptyOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByUserID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	for _, owner := range owners {
		_, err := repo.FindByUserID(owner.ID)
		assert.NoError(t, err, owner.Username)
	}
}

func TestCartRepository_Create_OneCartPerUser(t *testing.T) {
	_, repo, user, _ := setupCartTest(t)

	first := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(first))
	require.NotZero(t, first.ID)

	second := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(second))

	carts, err := repo.ListByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, carts, 1)
	assert.Equal(t, first.ID, carts[0].ID)
}

func TestCartRepository_Touch_MissingCart(t *testing.T) {
	_, repo, user, _ := setupCartTest(t)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(cart))
	require.NoError(t, repo.Touch(cart.ID))

	require.NoError(t, repo.Delete(cart.ID))
	assert.ErrorIs(t, repo.Touch(cart.ID), gorm.ErrRecordNotFound)
}

func TestCartRepository_Delete(t *testing.T) {
	testDB, repo, user, item := setupCartTest(t)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(cart))
	require.NoError(t, repo.CreateLine(&model.CartItem{CartID: cart.ID, ItemID: item.ID, Quantity: 2}))

	require.NoError(t, repo.Delete(cart.ID))

	var lines int64
	testDB.Model(&model.CartItem{}).Count(&lines)
	assert.Zero(t, lines)

	_, err := repo.FindByUserID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
