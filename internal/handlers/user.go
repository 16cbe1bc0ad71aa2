package handlers

import (
	"net/http"
	"strings"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func ListUsers(c *gin.Context) {
	var users []models.User
	if err := store(c).Order("email asc").Find(&users).Error; err != nil {
		dbError(c, err, "Error al cargar usuarios")
		return
	}
	c.JSON(http.StatusOK, users)
}

type userForm struct {
	FullName    *string          `json:"full_name"`
	Role        *models.UserRole `json:"role"`
	Permissions *[]string        `json:"permissions"`
}

// UpdateUser changes a profile's name, role or page permissions. Fields
// left out of the body are kept.
func UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := store(c).First(&user, id).Error; err != nil {
		fail(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	var form userForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	if form.FullName != nil {
		user.FullName = strings.TrimSpace(*form.FullName)
	}
	if form.Role != nil {
		if !models.ValidRole(*form.Role) {
			fail(c, http.StatusBadRequest, "Rol inválido")
			return
		}
		if user.ID == currentUserID(c) && *form.Role != models.RoleAdmin {
			fail(c, http.StatusBadRequest, "No puede quitarse el rol de administrador")
			return
		}
		user.Role = *form.Role
	}
	if form.Permissions != nil {
		pages := []string{}
		seen := map[string]bool{}
		for _, p := range *form.Permissions {
			if !models.ValidPage(p) {
				fail(c, http.StatusBadRequest, "Página desconocida: "+p)
				return
			}
			if !seen[p] {
				seen[p] = true
				pages = append(pages, p)
			}
		}
		user.Permissions = pages
	}

	if err := store(c).Save(&user).Error; err != nil {
		dbError(c, err, "Error al guardar el usuario")
		return
	}

	logger.Info("user updated", "user_id", user.ID, "role", user.Role, "by", currentUserID(c))
	c.JSON(http.StatusOK, user)
}
