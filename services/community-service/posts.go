package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"civicsync/pkg/media"
	"civicsync/pkg/response"
	"civicsync/services/community-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func postsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listPosts(w, r)
	case http.MethodPost:
		createPost(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

// postDetailHandler handles /api/posts/{id}/like.
func postDetailHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	id, sub, _ := strings.Cut(rest, "/")

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid post ID", err.Error())
		return
	}

	if sub != "like" || r.Method != http.MethodPut {
		response.NotFound(w, "Not found")
		return
	}
	likePost(w, r, objID)
}

func listPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.Collection("community_posts").Find(ctx, bson.M{}, opts)
	if err != nil {
		response.Internal(w, "Failed to fetch posts", err)
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		response.Internal(w, "Failed to decode posts", err)
		return
	}

	response.Success(w, http.StatusOK, "Posts fetched successfully", posts)
}

func createPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart payload", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// At most one post image; stored before field validation so a
	// rejected request can clean up after itself.
	var storedKey string
	if files := r.MultipartForm.File[media.FieldPostImage]; len(files) > 0 {
		fh := files[0]
		contentType := fh.Header.Get("Content-Type")
		if err := media.Validate(media.FieldPostImage, fh.Filename, contentType, fh.Size); err != nil {
			response.Error(w, http.StatusBadRequest, "Upload rejected", err.Error())
			return
		}
		key, err := media.ObjectKey(media.FieldPostImage, fh.Filename)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Upload rejected", err.Error())
			return
		}
		f, err := fh.Open()
		if err != nil {
			response.Internal(w, "Failed to read upload", err)
			return
		}
		defer f.Close()
		if err := store.Put(ctx, key, f, fh.Size, contentType); err != nil {
			response.Internal(w, "Failed to store upload", err)
			return
		}
		storedKey = key
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	authorName := strings.TrimSpace(r.FormValue("author_name"))
	authorAvatar := strings.TrimSpace(r.FormValue("author_avatar"))

	if title == "" || content == "" || authorName == "" || authorAvatar == "" {
		if storedKey != "" {
			store.RemoveAll(ctx, []string{storedKey})
		}
		response.Error(w, http.StatusBadRequest, "Title, content, and author details are required", "")
		return
	}

	post := models.Post{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Content:      content,
		AuthorName:   authorName,
		AuthorAvatar: authorAvatar,
		CreatedAt:    time.Now().UTC(),
	}
	if storedKey != "" {
		post.ImageURL = media.URLFor(storedKey)
	}

	if _, err := db.Collection("community_posts").InsertOne(ctx, post); err != nil {
		if storedKey != "" {
			store.RemoveAll(ctx, []string{storedKey})
		}
		response.Internal(w, "Failed to save post", err)
		return
	}

	response.Success(w, http.StatusCreated, "Post created successfully!", post)
}

func likePost(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.Collection("community_posts").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"likes": 1}},
	)
	if err != nil {
		response.Internal(w, "Failed to like post", err)
		return
	}
	if result.MatchedCount == 0 {
		response.NotFound(w, "Post not found")
		return
	}

	response.Success(w, http.StatusOK, "Post liked successfully!", nil)
}
