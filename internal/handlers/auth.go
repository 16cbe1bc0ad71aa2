package handlers

import (
	"net/http"
	"strings"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/middleware"
	"completions-tracker/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type registerForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register creates a plain user profile. New profiles only see the
// dashboard until an admin grants more pages.
func Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.FullName = strings.TrimSpace(form.FullName)
	if !strings.Contains(form.Email, "@") || len(form.Password) < 6 {
		fail(c, http.StatusBadRequest, "Correo inválido o contraseña demasiado corta")
		return
	}

	var existing int64
	if err := store(c).Model(&models.User{}).Where("email = ?", form.Email).Count(&existing).Error; err != nil {
		dbError(c, err, "Error al registrar usuario")
		return
	}
	if existing > 0 {
		fail(c, http.StatusConflict, "El usuario ya existe")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		dbError(c, err, "Error al registrar usuario")
		return
	}
	user := models.User{
		Email:        form.Email,
		FullName:     form.FullName,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Permissions:  []string{models.PageDashboard},
	}
	if err := store(c).Create(&user).Error; err != nil {
		dbError(c, err, "Error al registrar usuario")
		return
	}

	logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, user)
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	var user models.User
	if err := store(c).Where("email = ?", strings.ToLower(strings.TrimSpace(form.Email))).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, "Correo o contraseña incorrectos")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Correo o contraseña incorrectos")
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	if err := sess.Save(); err != nil {
		dbError(c, err, "No se pudo iniciar sesión")
		return
	}

	c.JSON(http.StatusOK, user)
}

func Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

// Me returns the logged-in profile and the pages it may open.
func Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Debe iniciar sesión")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"pages": allowedPages(user),
	})
}
