package api

import (
	"time"

	"github.com/akshay-builds/techkart/auth"
	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, store *storage.LocalStore, sessions *auth.SessionManager, maxUploadBytes int64, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		authHandler:    newAuthHandler(sessions, database.UserRepo()),
		catalogHandler: newCatalogHandler(database.TechCategoryRepo(), database.ProjectRepo()),
		inquiryHandler: newInquiryHandler(database.InquiryRepo()),
		uploadHandler:  newUploadHandler(store),
		adminHandler:   newAdminHandler(database.TechCategoryRepo(), database.UserRepo(), database.ProjectRepo(), database.InquiryRepo(), startupTime),
		adminProjectHandler: newAdminProjectHandler(
			database.ProjectRepo(),
			database.ProjectImageRepo(),
			database.TechCategoryRepo(),
			store,
			maxUploadBytes,
		),
	}
}
