package router

import (
	"go-commerce-api/internal/application"
	"go-commerce-api/internal/container"
	pginfra "go-commerce-api/internal/infrastructure/postgres"
	handlers "go-commerce-api/internal/interface/http"
	"go-commerce-api/internal/router/modules"
)

func buildAccountHandler() *handlers.AccountHandler {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := application.NewAccountService(
		repo,
		container.GetJWT(),
		container.GetAssets(),
		container.GetMailer(),
		container.GetLogger(),
		cfg.AppName,
		cfg.ResetPasswordURL,
		cfg.ResetTokenTTL,
	)
	return handlers.NewAccountHandler(service, container.GetAssets(), container.GetLogger())
}

func buildCatalogHandlers() (*handlers.ProductHandler, *handlers.CollectionHandler, *handlers.CollectionHandler) {
	pool := container.GetPGPool()
	store := container.GetAssets()
	logger := container.GetLogger()

	categoryRepo := pginfra.NewCategoryRepository(pool)
	brandRepo := pginfra.NewBrandRepository(pool)
	productRepo := pginfra.NewProductRepository(pool)

	categorySvc := application.NewCollectionService(categoryRepo, store, logger, application.CategoryKind)
	brandSvc := application.NewCollectionService(brandRepo, store, logger, application.BrandKind)
	productSvc := application.NewProductService(
		productRepo,
		categoryRepo,
		brandRepo,
		store,
		logger,
		container.GetES(),
		container.GetConfig().ESProductsIndex,
	)

	return handlers.NewProductHandler(productSvc, store, logger),
		handlers.NewCollectionHandler(categorySvc, store, logger),
		handlers.NewCollectionHandler(brandSvc, store, logger)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	jwt := container.GetJWT()

	r.Add(modules.NewAccountModule(buildAccountHandler(), jwt))

	products, categories, brands := buildCatalogHandlers()
	r.Add(modules.NewCatalogModule(products, categories, brands, jwt))
}
