package repository

import (
	"fmt"
	"sort"

	ledgererrors "hotelledger/internal/ledger/errors"
	"hotelledger/pkg/model"

	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	UpdateBalance(id int, balance decimal.Decimal) error
	FindAll() []*model.User
	Count() int
}

type memoryUserRepository struct {
	users map[int]model.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[int]model.User)}
}

func (r *memoryUserRepository) Create(user *model.User) error {
	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user %d: %w", user.ID, ledgererrors.ErrDuplicateID)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByID(id int) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ledgererrors.ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) UpdateBalance(id int, balance decimal.Decimal) error {
	user, ok := r.users[id]
	if !ok {
		return ledgererrors.ErrUserNotFound
	}
	user.Balance = balance
	r.users[id] = user
	return nil
}

// FindAll returns copies of every user ordered by id.
func (r *memoryUserRepository) FindAll() []*model.User {
	result := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, &user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *memoryUserRepository) Count() int {
	return len(r.users)
}
