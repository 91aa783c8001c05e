package models

import (
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxCaptionLength = 500
	MaxCommentLength = 500
)

// Media types derived from the MIME type of an uploaded file.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media describes the uploaded file attached to a post.
type Media struct {
	URL       string `bson:"url" json:"url"`
	Name      string `bson:"name" json:"name"`
	Type      string `bson:"type" json:"type"`
	Size      int64  `bson:"size" json:"size"`
	MediaType string `bson:"mediaType" json:"mediaType"`
	Width     int    `bson:"width,omitempty" json:"width,omitempty"`
	Height    int    `bson:"height,omitempty" json:"height,omitempty"`
	Duration  int    `bson:"duration,omitempty" json:"duration,omitempty"`
}

// Like is an embedded sub-document keyed by the liking user's id.
type Like struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt primitive.DateTime `bson:"createdAt" json:"createdAt"`
}

// Comment is an embedded sub-document in a post's ordered comment list.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt primitive.DateTime `bson:"createdAt" json:"createdAt"`
	UpdatedAt primitive.DateTime `bson:"updatedAt" json:"updatedAt"`
}

// Post is a single document in the posts collection. Likes and comments live
// inside the document; isDeleted marks a soft delete that excludes the post
// from every read path.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Caption   string             `bson:"caption,omitempty" json:"caption,omitempty"`
	Media     *Media             `bson:"media,omitempty" json:"media,omitempty"`
	Likes     []Like             `bson:"likes" json:"likes"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	IsDeleted bool               `bson:"isDeleted" json:"-"`
	CreatedAt primitive.DateTime `bson:"createdAt" json:"createdAt"`
	UpdatedAt primitive.DateTime `bson:"updatedAt" json:"updatedAt"`
}

// ValidateContent enforces the post content invariant: at least one of
// caption or media must be present, both at creation and after any update.
func ValidateContent(caption string, media *Media) bool {
	return strings.TrimSpace(caption) != "" || (media != nil && media.URL != "")
}

// CaptionTooLong reports whether a caption exceeds the 500-character limit.
// The limit is counted in characters, not bytes, so multibyte text gets the
// full length.
func CaptionTooLong(caption string) bool {
	return utf8.RuneCountInString(caption) > MaxCaptionLength
}

// CommentTooLong reports whether a comment exceeds the 500-character limit,
// counted the same way as captions.
func CommentTooLong(comment string) bool {
	return utf8.RuneCountInString(comment) > MaxCommentLength
}

// IsLikedBy reports whether userID is present in the post's like set.
func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// IsCommentedBy reports whether userID authored any comment on the post.
func (p *Post) IsCommentedBy(userID primitive.ObjectID) bool {
	for _, c := range p.Comments {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(commentID primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// CanRemoveComment reports whether userID may delete the given comment:
// only the comment's author or the post's owner.
func (p *Post) CanRemoveComment(c *Comment, userID primitive.ObjectID) bool {
	return c.UserID == userID || p.UserID == userID
}

// MediaTypeOf derives image/video from a MIME type. Only whitelisted types
// are accepted; everything else returns "".
func MediaTypeOf(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return MediaTypeImage
	case "video/mp4", "video/mpeg", "video/quicktime", "video/x-msvideo":
		return MediaTypeVideo
	}
	return ""
}
