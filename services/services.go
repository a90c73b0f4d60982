// Package services provides thin, declarative request builders for each API
// resource. Services own no state beyond the shared transport client; every
// method is one endpoint call with typed input and output.
package services

import "mingle/client"

// Services bundles one instance of every domain service over a shared client.
type Services struct {
	Auth         *AuthService
	Users        *UserService
	Posts        *PostService
	Files        *FileService
	Interactions *InteractionService
	Friends      *FriendService
	Groups       *GroupService
	Pages        *PageService
	Events       *EventService
	Admin        *AdminService
}

// New wires all services to the given transport client.
func New(api *client.Client) *Services {
	files := &FileService{api: api}
	return &Services{
		Auth:         &AuthService{api: api},
		Users:        &UserService{api: api},
		Posts:        &PostService{api: api, files: files},
		Files:        files,
		Interactions: &InteractionService{api: api},
		Friends:      &FriendService{api: api},
		Groups:       &GroupService{api: api},
		Pages:        &PageService{api: api},
		Events:       &EventService{api: api},
		Admin:        &AdminService{api: api},
	}
}
