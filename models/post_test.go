package models

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		media   *Media
		want    bool
	}{
		{name: "caption only", caption: "hello", want: true},
		{name: "media only", media: &Media{URL: "https://cdn.example.com/a.jpg"}, want: true},
		{name: "both", caption: "hello", media: &Media{URL: "https://cdn.example.com/a.jpg"}, want: true},
		{name: "neither", want: false},
		{name: "whitespace caption", caption: "   ", want: false},
		{name: "media without url", media: &Media{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateContent(tt.caption, tt.media); got != tt.want {
				t.Errorf("ValidateContent(%q, %v) = %v, want %v", tt.caption, tt.media, got, tt.want)
			}
		})
	}
}

// The 500-character limits count characters, not bytes: multibyte text
// must get the full length.
func TestLengthLimitsCountCharacters(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: false},
		{name: "exactly 500 ascii", text: strings.Repeat("a", 500), want: false},
		{name: "501 ascii", text: strings.Repeat("a", 501), want: true},
		{name: "300 cyrillic chars (600 bytes)", text: strings.Repeat("я", 300), want: false},
		{name: "500 cyrillic chars (1000 bytes)", text: strings.Repeat("я", 500), want: false},
		{name: "501 cyrillic chars", text: strings.Repeat("я", 501), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommentTooLong(tt.text); got != tt.want {
				t.Errorf("CommentTooLong(%d chars) = %v, want %v", len([]rune(tt.text)), got, tt.want)
			}
			if got := CaptionTooLong(tt.text); got != tt.want {
				t.Errorf("CaptionTooLong(%d chars) = %v, want %v", len([]rune(tt.text)), got, tt.want)
			}
		})
	}
}

func TestIsLikedBy(t *testing.T) {
	liker := primitive.NewObjectID()
	other := primitive.NewObjectID()

	post := Post{Likes: []Like{{UserID: liker, Name: "Jane Doe"}}}

	if !post.IsLikedBy(liker) {
		t.Error("IsLikedBy should report true for a user in the like set")
	}
	if post.IsLikedBy(other) {
		t.Error("IsLikedBy should report false for a user not in the like set")
	}
}

func TestIsCommentedBy(t *testing.T) {
	author := primitive.NewObjectID()

	post := Post{Comments: []Comment{{ID: primitive.NewObjectID(), UserID: author, Comment: "nice"}}}

	if !post.IsCommentedBy(author) {
		t.Error("IsCommentedBy should report true for a comment author")
	}
	if post.IsCommentedBy(primitive.NewObjectID()) {
		t.Error("IsCommentedBy should report false for a non-commenter")
	}
}

func TestFindComment(t *testing.T) {
	commentID := primitive.NewObjectID()
	post := Post{Comments: []Comment{
		{ID: primitive.NewObjectID(), Comment: "first"},
		{ID: commentID, Comment: "second"},
	}}

	found := post.FindComment(commentID)
	if found == nil || found.Comment != "second" {
		t.Errorf("FindComment returned %v, want the second comment", found)
	}

	if post.FindComment(primitive.NewObjectID()) != nil {
		t.Error("FindComment should return nil for an unknown id")
	}
}

func TestCanRemoveComment(t *testing.T) {
	owner := primitive.NewObjectID()
	author := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	comment := Comment{ID: primitive.NewObjectID(), UserID: author}
	post := Post{UserID: owner, Comments: []Comment{comment}}

	tests := []struct {
		name   string
		caller primitive.ObjectID
		want   bool
	}{
		{name: "comment author may delete", caller: author, want: true},
		{name: "post owner may delete", caller: owner, want: true},
		{name: "anyone else may not", caller: stranger, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := post.CanRemoveComment(&comment, tt.caller); got != tt.want {
				t.Errorf("CanRemoveComment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMediaTypeOf(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/jpeg", MediaTypeImage},
		{"image/png", MediaTypeImage},
		{"image/webp", MediaTypeImage},
		{"video/mp4", MediaTypeVideo},
		{"video/quicktime", MediaTypeVideo},
		{"application/pdf", ""},
		{"text/plain", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := MediaTypeOf(tt.mimeType); got != tt.want {
				t.Errorf("MediaTypeOf(%q) = %q, want %q", tt.mimeType, got, tt.want)
			}
		})
	}
}
