package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-depot-api/internal/handler"
	"go-depot-api/internal/middleware"
	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"
	"go-depot-api/internal/service"
	"go-depot-api/internal/ws"
	"go-depot-api/pkg/database"
	applogger "go-depot-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zapLogger, err := applogger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Material{},
		&model.StockMovement{},
		&model.MaterialRequest{},
		&model.RequestItem{},
		&model.DeliveryNote{},
		&model.DeliveryNoteItem{},
		&model.Site{},
		&model.SequenceCounter{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db, zapLogger)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	materialRepo := repository.NewMaterialRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	requestRepo := repository.NewRequestRepo(db)
	noteRepo := repository.NewNoteRepo(db)
	seqRepo := repository.NewSequenceRepo(db)
	siteRepo := repository.NewSiteRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(db, materialRepo, movementRepo, wsHub)
	noteService := service.NewNoteService(noteRepo, seqRepo, ledgerService, wsHub, zapLogger)
	requestService := service.NewRequestService(requestRepo, materialRepo, siteRepo, seqRepo, noteService, ledgerService, wsHub, zapLogger)
	distributionService := service.NewDistributionService(materialRepo, userRepo, siteRepo, noteService)
	catalogService := service.NewCatalogService(materialRepo)
	dashService := service.NewDashboardService(movementRepo)
	authService := service.NewAuthService(userRepo, roleRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	siteService := service.NewSiteService(siteRepo, userRepo)

	materialHandler := handler.NewMaterialHandler(catalogService)
	movementHandler := handler.NewMovementHandler(ledgerService)
	requestHandler := handler.NewRequestHandler(requestService)
	distributionHandler := handler.NewDistributionHandler(distributionService)
	noteHandler := handler.NewNoteHandler(noteService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	siteHandler := handler.NewSiteHandler(siteService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Depot Materiaux API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat) // Heartbeat uses Auth but available to all authenticated

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStats)
	protected.Get("/dashboard/daily-flow", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDailyFlow)

	// Material catalog Routes
	protected.Get("/materials", middleware.RequirePrivilege("material:view"), materialHandler.GetMaterials)
	protected.Get("/materials/code/:code", middleware.RequirePrivilege("material:view"), materialHandler.GetMaterialByCode)
	protected.Get("/materials/:id", middleware.RequirePrivilege("material:view"), materialHandler.GetMaterial)
	protected.Post("/materials", middleware.RequirePrivilege("material:create"), materialHandler.CreateMaterial)
	protected.Put("/materials/:id", middleware.RequirePrivilege("material:update"), materialHandler.UpdateMaterial)
	protected.Delete("/materials/:id", middleware.RequirePrivilege("material:deactivate"), materialHandler.DeactivateMaterial)

	// Stock ledger Routes
	protected.Get("/movements", middleware.RequirePrivilege("stock:view"), movementHandler.GetMovements)
	protected.Get("/movements/material/:materialId", middleware.RequirePrivilege("stock:view"), movementHandler.GetMaterialMovements)
	protected.Post("/movements", middleware.RequirePrivilege("stock:commit"), movementHandler.CommitMovement)

	// Material request Routes
	protected.Get("/requests", middleware.RequirePrivilege("demande:view"), requestHandler.GetRequests)
	protected.Get("/requests/:id", middleware.RequirePrivilege("demande:view"), requestHandler.GetRequest)
	protected.Post("/requests", middleware.RequirePrivilege("demande:create"), requestHandler.CreateRequest)
	protected.Post("/requests/:id/validate", middleware.RequirePrivilege("demande:validate"), requestHandler.ValidateRequest)
	protected.Post("/requests/:id/delivery-note", middleware.RequirePrivilege("demande:validate"), requestHandler.GenerateDeliveryNote)
	protected.Post("/requests/:id/deliver", middleware.RequirePrivilege("demande:deliver"), requestHandler.MarkDelivered)
	protected.Delete("/requests/:id", middleware.RequirePrivilege("demande:delete"), requestHandler.DeleteRequest)

	// Direct distribution Route
	protected.Post("/distributions", middleware.RequirePrivilege("distribution:create"), distributionHandler.Submit)

	// Delivery note Routes
	protected.Get("/delivery-notes", middleware.RequirePrivilege("bon:view"), noteHandler.GetNotes)
	protected.Get("/delivery-notes/:id", middleware.RequirePrivilege("bon:view"), noteHandler.GetNote)
	protected.Get("/delivery-notes/request/:requestId", middleware.RequirePrivilege("bon:view"), noteHandler.GetNoteByRequest)

	// Site Routes
	protected.Get("/sites", middleware.RequirePrivilege("site:view"), siteHandler.GetSites)
	protected.Get("/sites/:id", middleware.RequirePrivilege("site:view"), siteHandler.GetSite)
	protected.Post("/sites", middleware.RequirePrivilege("site:create"), siteHandler.CreateSite)
	protected.Put("/sites/:id", middleware.RequirePrivilege("site:update"), siteHandler.UpdateSite)
	protected.Delete("/sites/:id", middleware.RequirePrivilege("site:delete"), siteHandler.DeleteSite)

	// User Management Routes
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/pending", middleware.RequirePrivilege("user:approve"), userHandler.GetPendingUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Post("/users/:id/approve", middleware.RequirePrivilege("user:approve"), userHandler.ApproveUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	zapLogger.Info("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB, zapLogger *zap.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		zapLogger.Warn("Failed to seed privileges", zap.Error(err))
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		zapLogger.Warn("Failed to seed roles", zap.Error(err))
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// DIRECTEUR gets ALL privileges
	directeurRole, err := roleRepo.FindByCode(model.RoleDirecteur)
	if err == nil && len(directeurRole.Privileges) == 0 {
		db.Model(&directeurRole).Association("Privileges").Replace(allPrivileges)
		zapLogger.Info("DIRECTEUR role assigned all privileges")
	}

	// MAGAZINIER runs depot operations but does not manage users or sites
	magazinierRole, err := roleRepo.FindByCode(model.RoleMagazinier)
	if err == nil && len(magazinierRole.Privileges) == 0 {
		magazinierCodes := map[string]bool{
			"material:view": true, "material:create": true, "material:update": true, "material:deactivate": true,
			"demande:view": true, "demande:validate": true, "demande:deliver": true, "demande:delete": true,
			"stock:view": true, "stock:commit": true,
			"distribution:create": true, "bon:view": true,
			"site:view": true, "dashboard:view": true,
		}
		magazinierPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if magazinierCodes[p.Code] {
				magazinierPrivileges = append(magazinierPrivileges, p)
			}
		}
		db.Model(&magazinierRole).Association("Privileges").Replace(magazinierPrivileges)
		zapLogger.Info("MAGAZINIER role assigned depot privileges")
	}

	// CHEF_CHANTIER raises requests and follows their progress
	chefRole, err := roleRepo.FindByCode(model.RoleChefChantier)
	if err == nil && len(chefRole.Privileges) == 0 {
		chefCodes := map[string]bool{
			"material:view": true,
			"demande:view":  true, "demande:create": true,
			"bon:view": true, "site:view": true,
		}
		chefPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if chefCodes[p.Code] {
				chefPrivileges = append(chefPrivileges, p)
			}
		}
		db.Model(&chefRole).Association("Privileges").Replace(chefPrivileges)
		zapLogger.Info("CHEF_CHANTIER role assigned request privileges")
	}

	// 4. Create default directeur account
	_, err = userRepo.FindByEmail("directeur@example.com")
	if err != nil {
		directeurRole, _ := roleRepo.FindByCode(model.RoleDirecteur)

		admin := &model.User{
			Email:       "directeur@example.com",
			FullName:    "Directeur General",
			PhoneNumber: "",
			RoleID:      &directeurRole.ID,
			IsActive:    true,
			Privileges:  directeurRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("directeur123"); err != nil {
			zapLogger.Warn("Failed to hash directeur password", zap.Error(err))
			return
		}

		if err := userRepo.Create(admin); err != nil {
			zapLogger.Warn("Failed to create directeur account", zap.Error(err))
		} else {
			zapLogger.Info("Directeur account created", zap.String("email", "directeur@example.com"))
		}
	}
}
