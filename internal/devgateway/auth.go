package devgateway

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"shopstream/app/models"
	"shopstream/internal/gateway"
	"shopstream/pkg/logger"
	"shopstream/pkg/token"
	"shopstream/pkg/validate"
)

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	if errs := validate.Struct(creds); validate.HasErrors(errs) {
		respondError(w, http.StatusUnprocessableEntity, "validation", validate.First(errs))
		return
	}

	var existing models.User
	err := s.db.Where("email = ?", creds.Email).First(&existing).Error
	if err == nil {
		respondError(w, http.StatusConflict, "duplicate_email", "email already registered")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, "internal", "could not check email")
		return
	}

	hash, err := token.HashPassword(creds.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not hash password")
		return
	}

	user := models.User{
		Email:    creds.Email,
		Username: firstNonEmpty(creds.Username, strings.Split(creds.Email, "@")[0]),
		Password: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not create account")
		return
	}

	// No mailer here: the verification token lands in the log, where a
	// developer can copy it into the verify flow.
	verify, err := token.GenerateVerify(user.ID, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not issue verification token")
		return
	}
	logger.Info("verification token issued", "email", user.Email, "token", verify)

	respondData(w, http.StatusCreated, models.Identity{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	var user models.User
	err := s.db.Where("email = ?", in.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !token.CheckPassword(user.Password, in.Password)) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not load account")
		return
	}

	if !user.Verified {
		respondError(w, http.StatusForbidden, "email_not_verified", "email not verified")
		return
	}

	s.respondSession(w, http.StatusOK, user)
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
		Type  string `json:"type"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	claims, err := token.Validate(in.Token)
	if err != nil {
		if token.IsExpired(err) {
			respondError(w, http.StatusUnauthorized, "token_expired", "verification token expired")
			return
		}
		respondError(w, http.StatusUnauthorized, "token_invalid", "verification token invalid")
		return
	}
	if claims.Purpose != "verify" {
		respondError(w, http.StatusUnauthorized, "token_invalid", "wrong token purpose")
		return
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "account not found")
		return
	}

	if !user.Verified {
		user.Verified = true
		if err := s.db.Save(&user).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "internal", "could not mark verified")
			return
		}
	}

	s.respondSession(w, http.StatusOK, user)
}

// setSession validates a pre-issued access/refresh pair, the other
// encoding a verification redirect link can carry.
func (s *Server) setSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	s.sessionFromAccessToken(w, in.AccessToken)
}

func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.sessionFromAccessToken(w, raw)
}

func (s *Server) sessionFromAccessToken(w http.ResponseWriter, accessToken string) {
	claims, err := token.Validate(accessToken)
	if err != nil {
		if token.IsExpired(err) {
			respondError(w, http.StatusUnauthorized, "token_expired", "session expired")
			return
		}
		respondError(w, http.StatusUnauthorized, "token_invalid", "session token invalid")
		return
	}
	if claims.Purpose != "access" {
		respondError(w, http.StatusUnauthorized, "token_invalid", "wrong token purpose")
		return
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "token_invalid", "account no longer exists")
		return
	}

	s.respondSession(w, http.StatusOK, user)
}

func (s *Server) respondSession(w http.ResponseWriter, status int, user models.User) {
	access, err := token.GenerateAccess(user.ID, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not issue session")
		return
	}
	refresh, err := token.GenerateRefresh(user.ID, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not issue session")
		return
	}

	respondData(w, status, gateway.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		Identity: models.Identity{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
		},
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
