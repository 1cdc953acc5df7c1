package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/types"
)

// CommentService handles recipe comments
type CommentService struct {
	api *client.Client
}

// NewCommentService creates a new CommentService instance
func NewCommentService(api *client.Client) *CommentService {
	return &CommentService{api: api}
}

// List returns the comments on a recipe. A null, empty or unreadable body
// means no comments; only transport and HTTP failures are errors.
func (s *CommentService) List(ctx context.Context, recipeID int64) ([]models.Comment, error) {
	data, err := s.api.Send(ctx, http.MethodGet, "/comments/"+strconv.FormatInt(recipeID, 10), nil, "")
	if err != nil {
		return nil, err
	}
	var rows []types.CommentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return []models.Comment{}, nil
	}
	return types.NormalizeComments(rows), nil
}

// Post adds a comment. The backend usually answers 201 with no body; the
// submitted comment is echoed back in that case.
func (s *CommentService) Post(ctx context.Context, recipeID int64, body string, rating float64) (*models.Comment, error) {
	payload, err := json.Marshal(types.CommentRequest{Comment: body, Rating: rating})
	if err != nil {
		return nil, err
	}

	path := "/comments/post/" + strconv.FormatInt(recipeID, 10)
	data, err := s.api.Send(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	var row types.CommentRow
	if err := json.Unmarshal(data, &row); err == nil && (row.ID != 0 || row.Comment != "") {
		comment := row.ToModel()
		if comment.RecipeID == 0 {
			comment.RecipeID = recipeID
		}
		return &comment, nil
	}
	return &models.Comment{RecipeID: recipeID, Body: body, Rating: rating}, nil
}
