package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"feedgram/apperror"
	"feedgram/cache"
	"feedgram/database"
	"feedgram/middleware"
	"feedgram/models"
	"feedgram/storage"
)

// profileView is the public profile shape: the user record with password and
// refresh token stripped. This is also what gets cached.
type profileView struct {
	ID           primitive.ObjectID   `json:"id"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	FullName     string               `json:"fullName"`
	Email        string               `json:"email"`
	ProfilePhoto *models.ProfilePhoto `json:"profilePhoto,omitempty"`
	CreatedAt    primitive.DateTime   `json:"createdAt"`
	UpdatedAt    primitive.DateTime   `json:"updatedAt"`
}

func newProfileView(u *models.User) profileView {
	return profileView{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// GetMyProfile returns the authenticated caller's profile through the cache.
func GetMyProfile(c *gin.Context) {
	userIDHex := c.GetString(middleware.CtxUserID)
	if userIDHex == "" {
		respondError(c, apperror.Unauthorized("User not authenticated"))
		return
	}
	respondProfile(c, userIDHex)
}

// GetProfile returns any user's profile by id. Public route.
func GetProfile(c *gin.Context) {
	respondProfile(c, c.Param("id"))
}

func respondProfile(c *gin.Context, userIDHex string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	view, fromCache, err := profileByID(ctx, userIDHex)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Profile fetched successfully", gin.H{
		"profile":   view,
		"fromCache": fromCache,
	})
}

// profileByID is the cache-aside read path: cache hit short-circuits the
// store; a miss loads from Mongo and populates the cache with the default
// TTL.
func profileByID(ctx context.Context, userIDHex string) (*profileView, bool, error) {
	key := cache.ProfileKey(userIDHex)

	var cached profileView
	if profileCache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	view, err := loadProfile(ctx, userIDHex)
	if err != nil {
		return nil, false, err
	}

	profileCache.Set(ctx, key, view, cache.DefaultTTL)
	return view, false, nil
}

func loadProfile(ctx context.Context, userIDHex string) (*profileView, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, apperror.InvalidInput("Invalid ID format")
	}

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, err
	}

	view := newProfileView(&user)
	return &view, nil
}

// UpdateProfile updates name fields and/or the profile photo, then
// invalidates and refills the cache entry. Delete-then-refill: if the refill
// fails the next read misses instead of serving a stale profile.
func UpdateProfile(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondError(c, apperror.NotFound("User"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	set := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if firstName := c.PostForm("firstName"); firstName != "" {
		set["firstName"] = firstName
	}
	if lastName := c.PostForm("lastName"); lastName != "" {
		set["lastName"] = lastName
	}

	if photo, err := uploadedProfilePhoto(ctx, c, userID); err != nil {
		respondError(c, err)
		return
	} else if photo != nil {
		set["profilePhoto"] = photo
	}

	_, err = database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		respondError(c, err)
		return
	}

	// Write-invalidate, then repopulate with the fresh value.
	key := cache.ProfileKey(userID.Hex())
	profileCache.Delete(ctx, key)

	view, err := loadProfile(ctx, userID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	profileCache.Set(ctx, key, view, cache.DefaultTTL)

	respondSuccess(c, http.StatusOK, "Profile updated successfully", gin.H{
		"profile": view,
	})
}

func uploadedProfilePhoto(ctx context.Context, c *gin.Context, userID primitive.ObjectID) (*models.ProfilePhoto, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, nil
	}

	mimeType := header.Header.Get("Content-Type")
	if models.MediaTypeOf(mimeType) != models.MediaTypeImage || !storage.ValidateMediaFile(mimeType, header.Size) {
		return nil, apperror.InvalidInput("Profile photo must be an image under 5MB")
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := storage.UniqueFileName(header.Filename)
	url, err := media.Upload(ctx, file, "feedgram/profiles", userID.Hex())
	if err != nil {
		return nil, err
	}

	meta, _ := json.Marshal(gin.H{"type": mimeType, "size": header.Size})
	return &models.ProfilePhoto{
		PhotoID:   name,
		PhotoURL:  url,
		PhotoData: string(meta),
	}, nil
}
