package api

import "github.com/akshay-builds/techkart/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler         authHandler
	catalogHandler      catalogHandler
	inquiryHandler      inquiryHandler
	uploadHandler       uploadHandler
	adminHandler        adminHandler
	adminProjectHandler adminProjectHandler
}

// adminProjectRow pairs a project with its resolved category name for the
// back-office listing.
type adminProjectRow struct {
	Project      *models.Project
	CategoryName string
}
