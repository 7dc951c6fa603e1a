package models

// UserProfile is the read model returned by the profile directory. The
// engine only needs display data and contact channels.
type UserProfile struct {
	ID    string        `bson:"id" json:"id"`
	Name  string        `bson:"name" json:"name"`
	Email string        `bson:"email,omitempty" json:"email,omitempty"`
	Phone string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Role  RecipientRole `bson:"role" json:"role"`
}

// CarInfo is the read model returned by the fleet directory.
type CarInfo struct {
	ID          string `bson:"id" json:"id"`
	DisplayName string `bson:"display_name" json:"display_name"`
	OwnerID     string `bson:"owner_id" json:"owner_id"`
}
