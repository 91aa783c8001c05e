package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"feedgram/apperror"
	"feedgram/database"
	"feedgram/models"
	"feedgram/token"
)

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Signup registers a new user. No tokens are issued here; the client logs in
// separately.
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.InvalidInput("Invalid request body"))
		return
	}

	if req.Email == "" {
		respondError(c, apperror.InvalidInput("Email is required"))
		return
	}
	if req.Password == "" {
		respondError(c, apperror.InvalidInput("Password is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		respondError(c, apperror.Conflict("email"))
		return
	}
	if err != mongo.ErrNoDocuments {
		respondError(c, err)
		return
	}

	hashed, err := models.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	user := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Signup successful", nil)
}

// Login checks credentials and issues a fresh token pair. The new refresh
// token overwrites whatever was stored, invalidating any previous session.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.InvalidInput("Invalid request body"))
		return
	}

	if req.Email == "" {
		respondError(c, apperror.InvalidInput("Email is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Same message whether the email is unknown or the password is wrong.
	invalidCredentials := apperror.Unauthorized("Invalid email or password")

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondError(c, invalidCredentials)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if !user.CheckPassword(req.Password) {
		respondError(c, invalidCredentials)
		return
	}

	pair, err := issueTokens(ctx, &user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", gin.H{
		"user":         user.Summary(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// RefreshToken rotates the token pair. The presented refresh token must both
// verify and match the token currently stored on the user, so a rotated-out
// token is rejected even though its signature is still valid.
func RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.InvalidInput("Invalid request body"))
		return
	}

	if req.RefreshToken == "" {
		respondError(c, apperror.InvalidInput("Refresh token is required"))
		return
	}

	payload, err := tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		respondError(c, apperror.Unauthorized("Invalid refresh token"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		respondError(c, refreshLookupError(err))
		return
	}
	if !user.RefreshTokenMatches(req.RefreshToken) {
		respondError(c, apperror.Unauthorized("Invalid refresh token"))
		return
	}

	pair, err := issueTokens(ctx, &user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Tokens refreshed successfully", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// refreshLookupError keeps an unknown user indistinguishable from a
// rotated-out token while letting store failures surface as internal errors.
func refreshLookupError(err error) error {
	if err == mongo.ErrNoDocuments {
		return apperror.Unauthorized("Invalid refresh token")
	}
	return err
}

// issueTokens generates a pair for the user and persists the refresh token,
// rotating out the previous one.
func issueTokens(ctx context.Context, user *models.User) (*token.Pair, error) {
	pair, err := tokens.GeneratePair(token.Payload{
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		FullName: user.FullName(),
	})
	if err != nil {
		return nil, err
	}

	_, err = database.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"refreshToken": pair.RefreshToken,
		"updatedAt":    primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		return nil, err
	}

	return pair, nil
}
