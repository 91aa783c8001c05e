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
	"feedgram/feed"
	"feedgram/middleware"
	"feedgram/models"
	"feedgram/storage"
)

// postView is the single-post response shape: the post plus its owner
// summary and the derived per-viewer fields.
type postView struct {
	models.Post
	User              models.Summary `json:"user"`
	LikesCount        int            `json:"likesCount"`
	CommentsCount     int            `json:"commentsCount"`
	IsLikedByUser     bool           `json:"isLikedByUser"`
	IsCommentedByUser bool           `json:"isCommentedByUser"`
}

func newPostView(post *models.Post, owner models.Summary, viewerID primitive.ObjectID) postView {
	v := postView{
		Post:          *post,
		User:          owner,
		LikesCount:    len(post.Likes),
		CommentsCount: len(post.Comments),
	}
	if !viewerID.IsZero() {
		v.IsLikedByUser = post.IsLikedBy(viewerID)
		v.IsCommentedByUser = post.IsCommentedBy(viewerID)
	}
	return v
}

// CreatePost creates a post with an optional media attachment. Either a
// caption or a file must be present.
func CreatePost(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	caption := c.PostForm("caption")
	uploaded, err := uploadedMedia(ctx, c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !models.ValidateContent(caption, uploaded) {
		respondError(c, apperror.InvalidInput("Either caption or media file is required"))
		return
	}
	if models.CaptionTooLong(caption) {
		respondError(c, apperror.InvalidInput("Caption cannot exceed 500 characters"))
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	post := models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Caption:   caption,
		Media:     uploaded,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		respondError(c, err)
		return
	}

	owner, err := ownerSummary(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Post created successfully", newPostView(&post, owner, userID))
}

// UpdatePost replaces caption and/or media on an owned post. isRemoveMedia
// clears the attachment; it wins over a simultaneously uploaded file, and a
// replaced blob is left in the object store.
func UpdatePost(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	post, err := loadPost(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	if post.UserID != userID {
		respondError(c, apperror.Forbidden("Not authorized to update this post"))
		return
	}

	caption := c.PostForm("caption")
	removeMedia := c.PostForm("isRemoveMedia") == "true"
	_, fileErr := c.FormFile("file")
	hasFile := fileErr == nil

	if caption == "" && !hasFile {
		respondError(c, apperror.InvalidInput("Either caption or media file is required"))
		return
	}
	if models.CaptionTooLong(caption) {
		respondError(c, apperror.InvalidInput("Caption cannot exceed 500 characters"))
		return
	}

	var uploaded *models.Media
	if wantsUpload(hasFile, removeMedia) {
		if uploaded, err = uploadedMedia(ctx, c, userID); err != nil {
			respondError(c, err)
			return
		}
	}

	finalCaption := post.Caption
	if caption != "" {
		finalCaption = caption
	}
	finalMedia := post.Media
	if uploaded != nil {
		finalMedia = uploaded
	}
	if removeMedia {
		finalMedia = nil
	}
	if !models.ValidateContent(finalCaption, finalMedia) {
		respondError(c, apperror.InvalidInput("Either caption or media file is required"))
		return
	}

	set := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if caption != "" {
		set["caption"] = caption
	}
	update := bson.M{"$set": set}
	if finalMedia == nil && post.Media != nil {
		update["$unset"] = bson.M{"media": ""}
	} else if uploaded != nil {
		set["media"] = uploaded
	}

	if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
		respondError(c, err)
		return
	}

	fresh, err := loadPost(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	owner, err := ownerSummary(ctx, fresh.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Post updated successfully", newPostView(fresh, owner, userID))
}

// DeletePost soft-deletes an owned post. The document stays, with its likes
// and comments, but disappears from every read path.
func DeletePost(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := loadPost(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	if post.UserID != userID {
		respondError(c, apperror.Forbidden("Not authorized to delete this post"))
		return
	}

	_, err = database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": bson.M{
		"isDeleted": true,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Post deleted successfully", nil)
}

// LikePost toggles the caller's like. Both halves are element-keyed atomic
// updates, so concurrent toggles by different users cannot lose each other's
// entries.
func LikePost(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := loadPost(ctx, postID); err != nil {
		respondError(c, err)
		return
	}

	res, err := database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"likes": bson.M{"userId": userID}}},
	)
	if err != nil {
		respondError(c, err)
		return
	}

	if res.ModifiedCount > 0 {
		respondSuccess(c, http.StatusOK, "Post unliked successfully", nil)
		return
	}

	like := models.Like{
		UserID:    userID,
		Name:      c.GetString(middleware.CtxFullName),
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	// The filter guard keeps the like set keyed by userId even under
	// concurrent toggles.
	_, err = database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID, "likes.userId": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": like}},
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Post liked successfully", nil)
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// CommentPost appends a comment and returns its id.
func CommentPost(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid ID format"))
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Comment == "" {
		respondError(c, apperror.InvalidInput("Comment text is required"))
		return
	}
	if models.CommentTooLong(req.Comment) {
		respondError(c, apperror.InvalidInput("Comment cannot exceed 500 characters"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := loadPost(ctx, postID); err != nil {
		respondError(c, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Name:      c.GetString(middleware.CtxFullName),
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Comment added successfully", gin.H{
		"commentId": comment.ID,
	})
}

type deleteCommentRequest struct {
	CommentID string `json:"commentId"`
}

// DeleteComment removes a comment. Allowed for the comment's author and the
// post's owner; the permission check runs on the loaded document, the
// removal itself is an atomic $pull.
func DeleteComment(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid ID format"))
		return
	}

	var req deleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CommentID == "" {
		respondError(c, apperror.InvalidInput("Comment ID is required"))
		return
	}
	commentID, err := primitive.ObjectIDFromHex(req.CommentID)
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := loadPost(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		respondError(c, apperror.NotFound("Comment"))
		return
	}
	if !post.CanRemoveComment(comment, userID) {
		respondError(c, apperror.Forbidden("Not authorized to delete this comment"))
		return
	}

	_, err = database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Comment deleted successfully", nil)
}

// listedOwner and listedPost mirror the aggregation projection.
type listedOwner struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	FullName     string               `bson:"fullName" json:"fullName"`
	Email        string               `bson:"email" json:"email"`
	ProfilePhoto *models.ProfilePhoto `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
}

type listedPost struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	User              listedOwner        `bson:"user" json:"user"`
	Caption           string             `bson:"caption,omitempty" json:"caption,omitempty"`
	Media             *models.Media      `bson:"media,omitempty" json:"media,omitempty"`
	Likes             []models.Like      `bson:"likes" json:"likes"`
	LikesCount        int                `bson:"likesCount" json:"likesCount"`
	CommentsCount     int                `bson:"commentsCount" json:"commentsCount"`
	IsLikedByUser     bool               `bson:"isLikedByUser" json:"isLikedByUser"`
	IsCommentedByUser bool               `bson:"isCommentedByUser" json:"isCommentedByUser"`
	CreatedAt         primitive.DateTime `bson:"createdAt" json:"createdAt"`
	UpdatedAt         primitive.DateTime `bson:"updatedAt" json:"updatedAt"`
}

// ListPosts runs the feed query: filters, search, viewer annotation, sort,
// pagination.
func ListPosts(c *gin.Context) {
	params, err := feed.ParseParams(c.Query)
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid user ID"))
		return
	}
	params.ViewerID = viewerID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	respondFeed(ctx, c, params)
}

// GetUserPosts lists one user's posts through the same feed engine.
func GetUserPosts(c *gin.Context) {
	ownerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid user ID"))
		return
	}

	params, err := feed.ParseParams(c.Query)
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid user ID"))
		return
	}
	params.OwnerID = ownerID
	params.ViewerID = viewerID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	respondFeed(ctx, c, params)
}

func respondFeed(ctx context.Context, c *gin.Context, params feed.Params) {
	cursor, err := database.Posts.Aggregate(ctx, params.Pipeline())
	if err != nil {
		respondError(c, err)
		return
	}
	defer cursor.Close(ctx)

	posts := make([]listedPost, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		respondError(c, err)
		return
	}

	countCursor, err := database.Posts.Aggregate(ctx, params.CountPipeline())
	if err != nil {
		respondError(c, err)
		return
	}
	defer countCursor.Close(ctx)

	var countResult []struct {
		Total int `bson:"total"`
	}
	if err := countCursor.All(ctx, &countResult); err != nil {
		respondError(c, err)
		return
	}
	total := 0
	if len(countResult) > 0 {
		total = countResult[0].Total
	}

	respondSuccess(c, http.StatusOK, "Posts fetched successfully", gin.H{
		"posts":      posts,
		"pagination": feed.NewPagination(total, params.Page, params.Limit),
		"filters":    params.FilterEcho(),
	})
}

// GetPost fetches a single post with owner summary and viewer annotation.
func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, apperror.InvalidInput("Invalid ID format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := loadPost(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	owner, err := ownerSummary(ctx, post.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Post fetched successfully", newPostView(post, owner, viewerID(c)))
}

// loadPost fetches a non-deleted post or a NotFound error.
func loadPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := database.Posts.FindOne(ctx, bson.M{
		"_id":       postID,
		"isDeleted": bson.M{"$ne": true},
	}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Post")
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func ownerSummary(ctx context.Context, userID primitive.ObjectID) (models.Summary, error) {
	var owner models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&owner); err != nil {
		return models.Summary{}, err
	}
	return owner.Summary(), nil
}

// wantsUpload reports whether an attached file should actually be uploaded.
// A file sent together with isRemoveMedia=true is discarded unread: the
// removal wins, and no blob is pushed to the object store for it.
func wantsUpload(hasFile, removeMedia bool) bool {
	return hasFile && !removeMedia
}

// uploadedMedia parses the optional "file" form field, validates it against
// the size/type limits, uploads it, and returns the media descriptor. No
// file present is (nil, nil).
func uploadedMedia(ctx context.Context, c *gin.Context, userID primitive.ObjectID) (*models.Media, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, nil
	}

	mimeType := header.Header.Get("Content-Type")
	if !storage.ValidateMediaFile(mimeType, header.Size) {
		return nil, apperror.InvalidInput("Invalid file type or size. Images under 5MB and videos under 50MB are allowed.")
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := storage.UniqueFileName(header.Filename)
	url, err := media.Upload(ctx, file, "feedgram/posts", userID.Hex()+"_"+name)
	if err != nil {
		return nil, err
	}

	return &models.Media{
		URL:       url,
		Name:      name,
		Type:      mimeType,
		Size:      header.Size,
		MediaType: models.MediaTypeOf(mimeType),
	}, nil
}

func callerID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		return primitive.NilObjectID, apperror.Unauthorized("User not authenticated")
	}
	return id, nil
}

// viewerID returns the authenticated caller's id, or the zero id for
// anonymous requests on optional-auth routes.
func viewerID(c *gin.Context) primitive.ObjectID {
	hex := c.GetString(middleware.CtxUserID)
	if hex == "" {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
