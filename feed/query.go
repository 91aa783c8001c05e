// Package feed builds the post listing aggregation: filtering, search,
// viewer annotation, sorting and pagination over the posts collection.
package feed

import (
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"

	defaultLimit = 10
	maxLimit     = 100
)

// Params are the normalized feed query inputs. OwnerID and ViewerID are the
// zero ObjectID when absent.
type Params struct {
	Page      int
	Limit     int
	Search    string
	OwnerID   primitive.ObjectID
	MediaType string
	SortBy    string
	MinLikes  int
	ViewerID  primitive.ObjectID
}

// ParseParams reads feed parameters from raw query values, applying defaults
// and clamping out-of-range numbers. Invalid owner ids are an error; an
// absent owner id is not.
func ParseParams(get func(key string) string) (Params, error) {
	p := Params{
		Page:      atoiDefault(get("page"), 1),
		Limit:     atoiDefault(get("limit"), defaultLimit),
		Search:    get("search"),
		MediaType: get("mediaType"),
		SortBy:    get("sortBy"),
		MinLikes:  atoiDefault(get("minLikes"), 0),
	}

	if ownerHex := get("userId"); ownerHex != "" {
		ownerID, err := primitive.ObjectIDFromHex(ownerHex)
		if err != nil {
			return Params{}, err
		}
		p.OwnerID = ownerID
	}

	p.normalize()
	return p, nil
}

func (p *Params) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.MinLikes < 0 {
		p.MinLikes = 0
	}
	switch p.SortBy {
	case SortOldest, SortPopular:
	default:
		p.SortBy = SortNewest
	}
}

// baseStages are the pipeline steps shared between the listing and the
// count: filter, owner join, derived fields, search, min-likes. Order
// matters; minLikes must match against the computed likesCount.
func (p Params) baseStages() mongo.Pipeline {
	match := bson.M{"isDeleted": bson.M{"$ne": true}}
	if !p.OwnerID.IsZero() {
		match["userId"] = p.OwnerID
	}
	if p.MediaType != "" {
		match["media.mediaType"] = p.MediaType
	}

	stages := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
		bson.D{{Key: "$addFields", Value: p.derivedFields()}},
	}

	if p.Search != "" {
		stages = append(stages, bson.D{{Key: "$match", Value: p.searchMatch()}})
	}

	if p.MinLikes > 0 {
		stages = append(stages, bson.D{{Key: "$match", Value: bson.M{
			"likesCount": bson.M{"$gte": p.MinLikes},
		}}})
	}

	return stages
}

func (p Params) derivedFields() bson.M {
	fields := bson.M{
		"likesCount":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
		"commentsCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
	}
	if p.ViewerID.IsZero() {
		fields["isLikedByUser"] = bson.M{"$literal": false}
		fields["isCommentedByUser"] = bson.M{"$literal": false}
	} else {
		fields["isLikedByUser"] = bson.M{"$in": bson.A{p.ViewerID, bson.M{"$ifNull": bson.A{"$likes.userId", bson.A{}}}}}
		fields["isCommentedByUser"] = bson.M{"$in": bson.A{p.ViewerID, bson.M{"$ifNull": bson.A{"$comments.userId", bson.A{}}}}}
	}
	return fields
}

// searchMatch does a case-insensitive substring match against the caption or
// the owner's first, last, or concatenated full name. The search term is
// escaped so it is never interpreted as a pattern.
func (p Params) searchMatch() bson.M {
	pattern := regexp.QuoteMeta(p.Search)
	return bson.M{"$or": bson.A{
		bson.M{"caption": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"user.firstName": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"user.lastName": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"$expr": bson.M{"$regexMatch": bson.M{
			"input":   bson.M{"$concat": bson.A{"$user.firstName", " ", "$user.lastName"}},
			"regex":   pattern,
			"options": "i",
		}}},
	}}
}

func (p Params) sortStage() bson.D {
	switch p.SortBy {
	case SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}}
	case SortPopular:
		// Ties broken by recency.
		return bson.D{{Key: "likesCount", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// Pipeline is the full listing aggregation including sort, pagination and
// the response projection.
func (p Params) Pipeline() mongo.Pipeline {
	skip := (p.Page - 1) * p.Limit

	return append(p.baseStages(),
		bson.D{{Key: "$sort", Value: p.sortStage()}},
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: p.Limit}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id": 1,
			"user": bson.M{
				"_id":          "$user._id",
				"fullName":     bson.M{"$concat": bson.A{"$user.firstName", " ", "$user.lastName"}},
				"email":        "$user.email",
				"profilePhoto": "$user.profilePhoto",
			},
			"caption":           1,
			"media":             1,
			"likes":             1,
			"likesCount":        1,
			"commentsCount":     1,
			"isLikedByUser":     1,
			"isCommentedByUser": 1,
			"createdAt":         1,
			"updatedAt":         1,
		}}},
	)
}

// CountPipeline mirrors the filter stages and ends in $count, so the total
// reflects every filter including minLikes but not pagination.
func (p Params) CountPipeline() mongo.Pipeline {
	return append(p.baseStages(), bson.D{{Key: "$count", Value: "total"}})
}

// Pagination is the listing metadata block.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	Limit       int  `json:"limit"`
}

// NewPagination computes page metadata for a total match count.
func NewPagination(total, page, limit int) Pagination {
	totalPages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
		Limit:       limit,
	}
}

// Filters echoes the applied filters back to the client; unset string
// filters serialize as null.
type Filters struct {
	Search    *string `json:"search"`
	UserID    *string `json:"userId"`
	MediaType *string `json:"mediaType"`
	SortBy    string  `json:"sortBy"`
	MinLikes  int     `json:"minLikes"`
}

func (p Params) FilterEcho() Filters {
	f := Filters{SortBy: p.SortBy, MinLikes: p.MinLikes}
	if p.Search != "" {
		f.Search = &p.Search
	}
	if !p.OwnerID.IsZero() {
		owner := p.OwnerID.Hex()
		f.UserID = &owner
	}
	if p.MediaType != "" {
		f.MediaType = &p.MediaType
	}
	return f
}

func atoiDefault(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
