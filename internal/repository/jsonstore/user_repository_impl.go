package jsonstore

import (
	"context"
	"strings"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/infrastructure/filestore"
)

type userRepository struct {
	store *filestore.Store
}

func NewUserRepository(store *filestore.Store) domainRepo.UserRepository {
	return &userRepository{store: store}
}

// Create rejects a second user with the same email, compared case-insensitively.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.store.Update(ctx, func(tx *filestore.Tx) error {
		users, err := loadAll[entity.User](tx, CollectionUsers)
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.ID == user.ID || strings.EqualFold(u.Email, user.Email) {
				return domainRepo.ErrDuplicateKey
			}
		}
		return saveAll(tx, CollectionUsers, append(users, *user))
	})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, func(u *entity.User) bool {
		return strings.EqualFold(u.Email, email)
	})
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, func(u *entity.User) bool {
		return u.ID == id
	})
}

func (r *userRepository) findOne(ctx context.Context, match func(u *entity.User) bool) (*entity.User, error) {
	var found *entity.User
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		users, err := loadAll[entity.User](tx, CollectionUsers)
		if err != nil {
			return err
		}
		for i := range users {
			if match(&users[i]) {
				found = &users[i]
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
