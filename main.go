package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"fleet-admin-server/routes"
	"fleet-admin-server/services"
	"fleet-admin-server/storage"
	"fleet-admin-server/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	db := storage.InitializeDB()
	storage.InitializeRedis()
	storage.EnsureSuperAdmin(db)

	routes.InitializeFleet(services.NewFleetService(
		storage.NewVehicles(db),
		[]services.MirrorStore{
			storage.NewVehicleDocumentMirror(db),
			storage.NewDocumentSubmissionMirror(db),
		},
		services.SystemClock{},
	))

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/login", routes.Login)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/fleet", routes.AdminListVehicles)
		admin.Post("/fleet", routes.AdminCreateVehicle)
		admin.Get("/fleet/stats", routes.AdminFleetStats)
		admin.Get("/fleet/document-types", routes.AdminListDocumentTypes)
		admin.Post("/fleet/reconcile", routes.AdminCreateReconcile)
		admin.Get("/fleet/reconcile/{id:string}", routes.AdminGetReconcile)
		admin.Get("/fleet/{id:uint}", routes.AdminGetVehicle)
		admin.Post("/fleet/{id:uint}/approve", routes.AdminApproveVehicle)
		admin.Post("/fleet/{id:uint}/reject", routes.AdminRejectVehicle)
		admin.Patch("/fleet/{id:uint}/documents/{type:string}", routes.AdminDecideDocument)
		admin.Post("/fleet/{id:uint}/visibility", routes.AdminToggleVisibility)
		admin.Delete("/fleet/{id:uint}", utils.SuperAdminOnlyMiddleware, routes.AdminDeleteVehicle)
		admin.Get("/activity", routes.AdminActivity)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
