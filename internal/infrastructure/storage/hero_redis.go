package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/h918m/mazmorra/internal/domain"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisHeroRepository хранит героев в Redis (несколько узлов с общими героями)
type RedisHeroRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisHeroRepository подключается к Redis и проверяет соединение
func NewRedisHeroRepository(cfg RedisConfig) (*RedisHeroRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "mazmorra:" + heroKeyPrefix
	}
	return &RedisHeroRepository{client: client, keyPrefix: prefix}, nil
}

func (r *RedisHeroRepository) Load(ctx context.Context, heroID string) (*domain.HeroSnapshot, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+heroID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", heroID, ErrHeroNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hero %s: %w", heroID, err)
	}
	return decodeHero(data)
}

func (r *RedisHeroRepository) Save(ctx context.Context, hero *domain.HeroSnapshot) error {
	data, err := encodeHero(hero)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.keyPrefix+hero.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save hero %s: %w", hero.ID, err)
	}
	return nil
}

func (r *RedisHeroRepository) Close() error {
	return r.client.Close()
}
