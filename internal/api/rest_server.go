package api

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/infrastructure/storage"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

const maxHeroName = 24

// Tokens выдает и проверяет токены героев
type Tokens interface {
	Issue(heroID string) (string, error)
	Verify(token string) (string, error)
}

// RestServer - REST API героев: создание и чтение
type RestServer struct {
	router *gin.Engine
	heroes storage.HeroRepository
	tokens Tokens
	log    *logrus.Entry
}

// NewRestServer собирает роутер. origins - разрешенные источники CORS (пусто - все).
func NewRestServer(heroes storage.HeroRepository, tokens Tokens, origins []string) *RestServer {
	router := gin.New()
	router.Use(gin.Recovery())

	rs := &RestServer{
		router: router,
		heroes: heroes,
		tokens: tokens,
		log:    logger.Component("hero_api"),
	}
	router.Use(rs.requestLogger(), cors(origins))
	rs.setupRoutes()
	return rs
}

// Handler - для http.Server и тестов
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

func (rs *RestServer) setupRoutes() {
	heroes := rs.router.Group("/heroes")
	heroes.POST("", rs.handleCreateHero)
	heroes.GET("/:id", rs.jwtMiddleware(), rs.handleGetHero)

	rs.router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

// CreateHeroRequest - запрос на создание героя
type CreateHeroRequest struct {
	Name             string `json:"name" binding:"required"`
	PrimaryAttribute string `json:"primaryAttribute"`
}

// CreateHeroResponse - герой и токен для входа в комнату
type CreateHeroResponse struct {
	Hero  *domain.HeroSnapshot `json:"hero"`
	Token string               `json:"token"`
}

// ErrorResponse - ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

func (rs *RestServer) handleCreateHero(c *gin.Context) {
	var req CreateHeroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}

	// 1. Имя и основной атрибут
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > maxHeroName {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name must be 1-24 characters"})
		return
	}
	primary := domain.AttrStrength
	if req.PrimaryAttribute != "" {
		attr, ok := domain.ParseAttribute(req.PrimaryAttribute)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown primary attribute"})
			return
		}
		primary = attr
	}

	// 2. Сохраняем и выдаем токен
	hero := domain.NewHero(uuid.NewString(), name, primary)
	if err := rs.heroes.Save(c.Request.Context(), hero); err != nil {
		rs.log.WithError(err).Error("Failed to save new hero")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	token, err := rs.tokens.Issue(hero.ID)
	if err != nil {
		rs.log.WithError(err).Error("Failed to issue token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	rs.log.WithFields(logrus.Fields{"hero_id": hero.ID, "name": hero.Name}).Info("Hero created")
	c.JSON(http.StatusCreated, CreateHeroResponse{Hero: hero, Token: token})
}

func (rs *RestServer) handleGetHero(c *gin.Context) {
	id := c.Param("id")
	if c.GetString("hero_id") != id {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "token belongs to another hero"})
		return
	}

	hero, err := rs.heroes.Load(c.Request.Context(), id)
	if errors.Is(err, storage.ErrHeroNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "hero not found"})
		return
	}
	if err != nil {
		rs.log.WithError(err).WithField("hero_id", id).Error("Failed to load hero")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, hero)
}
