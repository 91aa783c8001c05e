package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// ProfilePhoto describes an uploaded profile image stored in the blob store.
type ProfilePhoto struct {
	PhotoID   string `bson:"photoId,omitempty" json:"photoId,omitempty"`
	PhotoURL  string `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	PhotoData string `bson:"photoData,omitempty" json:"photoData,omitempty"`
}

// User is a single document in the users collection. Password hash and
// refresh token are never serialized into responses.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	ProfilePhoto *ProfilePhoto      `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	RefreshToken string             `bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    primitive.DateTime `bson:"createdAt" json:"createdAt"`
	UpdatedAt    primitive.DateTime `bson:"updatedAt" json:"updatedAt"`
}

// FullName is the derived display name: first + " " + last.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Summary is the public projection of a user embedded in auth and post
// responses.
type Summary struct {
	ID           primitive.ObjectID `json:"id"`
	FullName     string             `json:"fullName"`
	Email        string             `json:"email"`
	ProfilePhoto *ProfilePhoto      `json:"profilePhoto,omitempty"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:           u.ID,
		FullName:     u.FullName(),
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
	}
}

// RefreshTokenMatches reports whether the presented refresh token is the one
// currently stored on the user. Rotation overwrites the stored token, so a
// rotated-out token fails here even though its signature still verifies. A
// user with no stored token matches nothing.
func (u *User) RefreshTokenMatches(presented string) bool {
	return u.RefreshToken != "" && u.RefreshToken == presented
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored hash against a candidate password.
// bcrypt's compare is constant-time over the hash output.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
