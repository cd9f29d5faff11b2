package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/h918m/mazmorra/internal/domain"
)

// ErrHeroNotFound - героя с таким ID нет в хранилище
var ErrHeroNotFound = errors.New("hero not found")

// HeroRepository - хранилище героев между сессиями.
// Load на входе в комнату, Save при выходе (в фоне).
type HeroRepository interface {
	Load(ctx context.Context, heroID string) (*domain.HeroSnapshot, error)
	Save(ctx context.Context, hero *domain.HeroSnapshot) error
	Close() error
}

// Options выбирает и настраивает реализацию хранилища
type Options struct {
	Driver     string // memory | badger | redis
	BadgerPath string
	Redis      RedisConfig
}

// Open создает хранилище по имени драйвера
func Open(opts Options) (HeroRepository, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryHeroRepository(), nil
	case "badger":
		return NewBadgerHeroRepository(opts.BadgerPath)
	case "redis":
		return NewRedisHeroRepository(opts.Redis)
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}

// MemoryHeroRepository - хранилище в памяти процесса (разработка, тесты).
// Хранит JSON, чтобы вызывающий не мог менять сохраненное по указателю.
type MemoryHeroRepository struct {
	mu     sync.RWMutex
	heroes map[string][]byte
}

func NewMemoryHeroRepository() *MemoryHeroRepository {
	return &MemoryHeroRepository{heroes: make(map[string][]byte)}
}

func (r *MemoryHeroRepository) Load(_ context.Context, heroID string) (*domain.HeroSnapshot, error) {
	r.mu.RLock()
	data, ok := r.heroes[heroID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", heroID, ErrHeroNotFound)
	}
	return decodeHero(data)
}

func (r *MemoryHeroRepository) Save(_ context.Context, hero *domain.HeroSnapshot) error {
	data, err := encodeHero(hero)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.heroes[hero.ID] = data
	r.mu.Unlock()
	return nil
}

func (r *MemoryHeroRepository) Close() error {
	return nil
}

func encodeHero(hero *domain.HeroSnapshot) ([]byte, error) {
	if hero == nil || hero.ID == "" {
		return nil, errors.New("hero id is required")
	}
	data, err := json.Marshal(hero)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hero %s: %w", hero.ID, err)
	}
	return data, nil
}

func decodeHero(data []byte) (*domain.HeroSnapshot, error) {
	var hero domain.HeroSnapshot
	if err := json.Unmarshal(data, &hero); err != nil {
		return nil, fmt.Errorf("failed to decode hero: %w", err)
	}
	return &hero, nil
}
