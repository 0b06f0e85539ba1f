package routes

import (
	"strings"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"

	"fleet-admin-server/models"
	"fleet-admin-server/storage"
	"fleet-admin-server/utils"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a staff user and issues the access/refresh pair.
func Login(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.JSONError(ctx, iris.StatusUnauthorized, "invalid_credentials", "email or password incorrect")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.JSONError(ctx, iris.StatusUnauthorized, "invalid_credentials", "email or password incorrect")
		return
	}

	tokenPair, err := utils.CreateTokenPair(user.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"user":         user,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
