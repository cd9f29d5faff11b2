package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/h918m/mazmorra/internal/domain"
)

const heroKeyPrefix = "hero:"

// BadgerHeroRepository хранит героев во встроенной BadgerDB
type BadgerHeroRepository struct {
	db *badger.DB
}

// NewBadgerHeroRepository открывает базу в path. Пустой path - база в памяти.
func NewBadgerHeroRepository(path string) (*BadgerHeroRepository, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &BadgerHeroRepository{db: db}, nil
}

func (r *BadgerHeroRepository) Load(_ context.Context, heroID string) (*domain.HeroSnapshot, error) {
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(heroKeyPrefix + heroID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", heroID, ErrHeroNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hero %s: %w", heroID, err)
	}
	return decodeHero(data)
}

func (r *BadgerHeroRepository) Save(_ context.Context, hero *domain.HeroSnapshot) error {
	data, err := encodeHero(hero)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(heroKeyPrefix+hero.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save hero %s: %w", hero.ID, err)
	}
	return nil
}

func (r *BadgerHeroRepository) Close() error {
	return r.db.Close()
}
