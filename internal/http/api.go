package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"race-registry/internal/domain"
	"race-registry/internal/metrics"
	"race-registry/internal/raceinfo"
	"race-registry/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	accounts      service.AccountService
	registrations service.RegistrationService
	races         *raceinfo.Schedule
	metrics       *metrics.Metrics
	logger        *logrus.Logger
	jwtSecret     []byte
	tokenTTL      time.Duration
	authLimiter   *RateLimiter
}

func NewHandler(
	accounts service.AccountService,
	registrations service.RegistrationService,
	races *raceinfo.Schedule,
	m *metrics.Metrics,
	logger *logrus.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
	authLimiter *RateLimiter,
) *Handler {
	return &Handler{
		accounts:      accounts,
		registrations: registrations,
		races:         races,
		metrics:       m,
		logger:        logger,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
		authLimiter:   authLimiter,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		if h.authLimiter != nil {
			auth.Use(h.authLimiter.middleware())
		}
		auth.POST("/register", h.registerAccount)
		auth.POST("/login", h.login)

		api.POST("/registrations", h.requireAuth(), h.registerParticipant)
		api.GET("/registrations/mine", h.requireAuth(), h.myRegistrations)
		api.GET("/registrations/stats", h.stats)
		api.GET("/registrations/distance/:distance", h.requireAuth(), h.requireAdmin(), h.listByDistance)

		api.GET("/races", h.listRaces)
		api.GET("/races/countdown", h.countdown)
		api.GET("/races/:distance", h.getRace)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) registerAccount(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// A bad password at sign-up is a caller mistake, not a failed login.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"email":      account.Email,
		"created_at": account.CreatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.ObserveLogin(metrics.ResultRejected)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	token, expiresAt, err := h.issueToken(account)
	if err != nil {
		h.metrics.ObserveLogin(metrics.ResultError)
		h.logger.Warnf("issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	h.metrics.ObserveLogin(metrics.ResultOK)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"email":      account.Email,
		"is_admin":   account.IsAdmin,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

type registerParticipantRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	AgeGroup   string `json:"age_group" binding:"required"`
	Gender     string `json:"gender" binding:"required"`
	Distance   string `json:"distance" binding:"required"`
	WantsShirt bool   `json:"wants_shirt"`
}

func (h *Handler) registerParticipant(c *gin.Context) {
	var req registerParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.registrations.Register(c.Request.Context(), authEmail(c), service.RegistrationInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		AgeGroup:   req.AgeGroup,
		Gender:     req.Gender,
		Distance:   req.Distance,
		WantsShirt: req.WantsShirt,
	})
	if err != nil {
		result := metrics.ResultRejected
		if statusForError(err) == http.StatusInternalServerError {
			result = metrics.ResultError
		}
		h.metrics.ObserveRegistration(req.Distance, result)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	h.metrics.ObserveRegistration(participant.Distance, metrics.ResultOK)
	c.JSON(http.StatusCreated, participantToResponse(*participant))
}

func (h *Handler) myRegistrations(c *gin.Context) {
	participants, err := h.registrations.ListByOwner(c.Request.Context(), authEmail(c))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]ParticipantResponse, len(participants))
	for i := range participants {
		resp[i] = participantToResponse(participants[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.registrations.Statistics(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	resp := make(map[string]DistanceStatsResponse, len(stats))
	for distance, s := range stats {
		resp[distance] = DistanceStatsResponse{Occupancy: s.Occupancy, Capacity: s.Capacity}
		h.metrics.SetOccupancy(distance, s.Occupancy, s.Capacity)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listByDistance(c *gin.Context) {
	participants, err := h.registrations.ListByDistance(c.Request.Context(), c.Param("distance"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]ParticipantResponse, len(participants))
	for i := range participants {
		resp[i] = participantToResponse(participants[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listRaces(c *gin.Context) {
	races := h.races.All()
	resp := make([]RaceResponse, len(races))
	for i := range races {
		resp[i] = raceToResponse(races[i], time.Now())
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getRace(c *gin.Context) {
	race, err := h.races.Get(c.Param("distance"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, raceToResponse(race, time.Now()))
}

func (h *Handler) countdown(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"countdown":         h.races.Countdown(now),
		"race_active":       h.races.IsAnyRaceActive(now),
		"registration_open": h.races.IsRegistrationOpenForAnyRace(now),
	})
}

type ParticipantResponse struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	AgeGroup       string `json:"age_group"`
	Gender         string `json:"gender"`
	Distance       string `json:"distance"`
	WantsShirt     bool   `json:"wants_shirt"`
	ShirtColor     string `json:"shirt_color"`
	RegistrationID string `json:"registration_id"`
	RegisteredAt   string `json:"registered_at"`
}

type DistanceStatsResponse struct {
	Occupancy int `json:"occupancy"`
	Capacity  int `json:"capacity"`
}

type RaceResponse struct {
	Distance         string `json:"distance"`
	Name             string `json:"name"`
	Location         string `json:"location"`
	StartsAt         string `json:"starts_at"`
	MapImagePath     string `json:"map_image_path"`
	Description      string `json:"description"`
	Countdown        string `json:"countdown"`
	RegistrationOpen bool   `json:"registration_open"`
}

func participantToResponse(p domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		AgeGroup:       p.AgeGroup,
		Gender:         p.Gender,
		Distance:       p.Distance,
		WantsShirt:     p.WantsShirt,
		ShirtColor:     p.ShirtColor,
		RegistrationID: p.RegistrationID.String(),
		RegisteredAt:   p.RegisteredAt.Format(time.RFC3339),
	}
}

func raceToResponse(race raceinfo.Race, now time.Time) RaceResponse {
	return RaceResponse{
		Distance:         race.Distance,
		Name:             race.Name,
		Location:         race.Location,
		StartsAt:         race.StartsAt.Format(time.RFC3339),
		MapImagePath:     race.MapImagePath,
		Description:      race.Description,
		Countdown:        race.Countdown(now),
		RegistrationOpen: race.IsRegistrationOpen(now),
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidParticipant),
		errors.Is(err, domain.ErrUnknownDistance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
