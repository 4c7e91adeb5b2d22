package api

import (
	"github.com/mfolden/portfolio-backend/database"
	"github.com/mfolden/portfolio-backend/identity"
)

// Deps bundles everything the route handlers need. Wiring happens once in
// main; handlers only ever see the narrow interfaces they declare.
type Deps struct {
	Database   database.Database
	Identity   identity.Provider
	Submission Submitter
	Contact    ContactSender
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Deps) *routeHandlers {
	projects := deps.Database.ProjectRepo()
	roles := deps.Database.UserRepo()

	return &routeHandlers{
		projectHandler: newProjectHandler(projects, deps.Submission),
		galleryHandler: newGalleryHandler(projects),
		streamHandler:  newStreamHandler(deps.Database.Watcher()),
		authHandler:    newAuthHandler(deps.Identity, roles),
		contactHandler: newContactHandler(deps.Contact),
	}
}
