package main

import (
	"gym_backend/internal/database"
	"gym_backend/internal/router"
	"gym_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	utils.InitLogger()
	utils.SetJWTSecret(utils.Getenv("JWT_SECRET", ""))

	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "postgres")
	dbPassword := utils.Getenv("DB_PASSWORD", "postgres")
	dbName := utils.Getenv("DB_NAME", "gym")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	migrationsPath := utils.Getenv("MIGRATIONS_PATH", "migrations")
	tierCatalogPath := utils.Getenv("TIER_CATALOG_PATH", "config/membership_tiers.json")

	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, migrationsPath)
	db := database.GetDB()
	defer db.Close()

	if utils.Getenv("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{utils.Getenv("CORS_ORIGIN", "http://localhost:4200")}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	router.Setup(r, db, tierCatalogPath)

	port := utils.Getenv("PORT", "8080")
	log.Info().Str("port", port).Msg("Starting gym backend server")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
