package directoryRepo

import "driveline/models"

// UserDirectory looks up profile display data in the user domain. It is a
// collaborator contract: the engine reads it and never writes through it.
type UserDirectory interface {
	GetUserByID(id string) (*models.UserProfile, error)
}

// FleetDirectory looks up car display data in the fleet domain.
type FleetDirectory interface {
	GetCarByID(id string) (*models.CarInfo, error)
}
