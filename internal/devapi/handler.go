package devapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jask/subsportal/internal/signup"
)

const role = "subcontractor"

// Response messages.
const (
	msgSignupOK     = "Signup successful"
	msgEmailExists  = "Email already exists"
	msgBadBody      = "Invalid request body"
	msgBadLogin     = "Invalid email or password"
	msgMissingToken = "Missing bearer token"
	msgBadToken     = "Invalid token"
)

// Handler serves the subcontractor endpoints.
type Handler struct {
	store  *Store
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

func NewHandler(store *Store, secret []byte, ttl time.Duration, log *zap.Logger) *Handler {
	return &Handler{store: store, secret: secret, ttl: ttl, log: log}
}

// RegisterRoutes mounts the endpoints under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)

	priv := rg.Group("/")
	priv.Use(h.requireBearer)
	priv.GET("me", h.Me)
}

type userBody struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

func userOf(a Account) userBody {
	return userBody{Name: a.FullName, Role: role}
}

func fieldValue(p signup.Payload, f signup.Field) string {
	switch f {
	case signup.FieldBusinessType:
		return p.BusinessType
	case signup.FieldTeamSize:
		return p.TeamSize
	case signup.FieldYearsInBusiness:
		return p.YearsInBusiness
	default:
		return ""
	}
}

// firstInvalid runs every wizard rule over p and returns the first failure in
// form order.
func firstInvalid(p signup.Payload) (signup.Field, string, bool) {
	d := signup.FormData{
		Email:           p.Email,
		Password:        p.Password,
		FullName:        p.FullName,
		Contact:         p.Contact,
		CompanyName:     p.CompanyName,
		BusinessType:    p.BusinessType,
		TeamSize:        p.TeamSize,
		YearsInBusiness: p.YearsInBusiness,
	}
	errs := signup.FormErrors{}
	for _, step := range signup.Steps {
		for f, msg := range signup.ValidateStep(step, d) {
			errs[f] = msg
		}
	}
	for _, f := range signup.Fields {
		if errs.Has(f) {
			return f, errs[f], true
		}
	}
	return "", "", false
}

func (h *Handler) Signup(c *gin.Context) {
	var req signup.Payload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgBadBody})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if f, msg, bad := firstInvalid(req); bad {
		h.log.Info("signup invalid", zap.String("field", string(f)), zap.String("message", msg))
		body := gin.H{"success": false, "message": msg, "field": f}
		if opts := signup.OptionsFor(f); opts != nil {
			body["suggestion"] = opts.Suggest(fieldValue(req, f))
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	a, err := h.store.Create(req)
	if errors.Is(err, errDuplicateEmail) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": msgEmailExists})
		return
	}
	if err != nil {
		h.log.Error("signup store", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "store error"})
		return
	}
	h.log.Info("signup created", zap.String("id", a.ID), zap.String("email", a.Email))
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msgSignupOK, "id": a.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgBadBody})
		return
	}
	a, ok := h.store.Check(req.Email, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": msgBadLogin})
		return
	}
	token, err := generateJWT(h.secret, a, h.ttl)
	if err != nil {
		h.log.Error("sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "token error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": userOf(a)})
}

func (h *Handler) requireBearer(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msgMissingToken})
		return
	}
	claims, err := parseJWT(h.secret, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msgBadToken})
		return
	}
	c.Set("account_id", claims.Subject)
	c.Next()
}

func (h *Handler) Me(c *gin.Context) {
	a, ok := h.store.ByID(c.GetString("account_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userOf(a), "account": a})
}
