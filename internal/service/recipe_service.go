package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"recipebook/internal/cache"
	"recipebook/internal/errors"
	"recipebook/internal/model"
	"recipebook/internal/repository"
)

const (
	recipeCacheTTL   = time.Minute
	recipeListKey    = "recipes:all"
	recipeKeyPattern = "recipe:%d"
)

// CreateRecipeInput is a recipe submission before validation and normalization.
type CreateRecipeInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Ingredients Payload
	Steps       Payload
	Category    string
	CreatedBy   string
	ImageURL    string
}

// RecipeService handles recipe operations.
type RecipeService interface {
	Create(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error)
	Get(ctx context.Context, id uint) (*model.Recipe, error)
	List(ctx context.Context) ([]model.Recipe, error)
}

type recipeService struct {
	repo     repository.RecipeRepository
	cache    *cache.Client
	validate *validator.Validate
}

// NewRecipeService creates a new recipe service. cache may be nil.
func NewRecipeService(repo repository.RecipeRepository, cache *cache.Client) RecipeService {
	return &recipeService{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
	}
}

// Create validates, normalizes and stores a new recipe.
func (s *recipeService) Create(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate.Struct(input); err != nil {
		return nil, missingFields(err)
	}

	ingredients, err := Normalize("ingredients", input.Ingredients)
	if err != nil {
		return nil, err
	}
	steps, err := Normalize("steps", input.Steps)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    optional(input.ImageURL),
		Ingredients: ingredients,
		Steps:       steps,
		Category:    optional(input.Category),
		CreatedBy:   optional(input.CreatedBy),
	}
	// Cleared on both sides of the insert: a List running concurrently may
	// refill the key with the old rows in between.
	_ = s.cache.Delete(ctx, recipeListKey)
	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	_ = s.cache.Delete(ctx, recipeListKey)
	return recipe, nil
}

// Get retrieves a recipe by ID with caching.
func (s *recipeService) Get(ctx context.Context, id uint) (*model.Recipe, error) {
	key := fmt.Sprintf(recipeKeyPattern, id)
	var cached model.Recipe
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe %d: %w", id, err)
	}

	s.cache.SetJSON(ctx, key, recipe, recipeCacheTTL)
	return recipe, nil
}

// List returns every recipe; the result is never nil.
func (s *recipeService) List(ctx context.Context) ([]model.Recipe, error) {
	var cached []model.Recipe
	if s.cache.GetJSON(ctx, recipeListKey, &cached) && cached != nil {
		return cached, nil
	}

	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	s.cache.SetJSON(ctx, recipeListKey, recipes, recipeCacheTTL)
	return recipes, nil
}

func missingFields(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errors.ErrMissingField, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: %s", errors.ErrMissingField, strings.Join(fields, ", "))
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
