package handler

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"recipebook/internal/service"
	"recipebook/internal/upload"
)

// RecipeHandler handles recipe endpoints.
type RecipeHandler struct {
	recipeService service.RecipeService
	log           *slog.Logger
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipeService service.RecipeService, log *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, log: orDefault(log)}
}

// CreateRecipeRequest is the JSON form of a recipe submission. Ingredients and
// steps may be arrays or JSON-encoded strings.
type CreateRecipeRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Ingredients json.RawMessage `json:"ingredients" swaggertype:"array,string"`
	Steps       json.RawMessage `json:"steps" swaggertype:"array,string"`
	Category    string          `json:"category"`
	CreatedBy   string          `json:"createdBy"`
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Tags recipes
// @Accept mpfd
// @Accept json
// @Produce json
// @Param title formData string true "Recipe title"
// @Param description formData string true "Recipe description"
// @Param ingredients formData string false "JSON array of ingredients"
// @Param steps formData string false "JSON array of steps"
// @Param category formData string false "Category"
// @Param createdBy formData string false "Author"
// @Param image formData file false "Recipe image"
// @Success 201 {object} model.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes [post]
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	input, err := bindCreateRecipe(c)
	if err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if f := upload.FromContext(c); f != nil {
		input.ImageURL = f.URL
	}

	recipe, err := h.recipeService.Create(c.Request().Context(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create recipe", "CREATE_RECIPE_FAILED")
	}
	return c.JSON(http.StatusCreated, recipe)
}

// ListRecipes godoc
// @Summary List all recipes
// @Tags recipes
// @Produce json
// @Success 200 {array} model.Recipe
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes [get]
func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	recipes, err := h.recipeService.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch recipes", "LIST_RECIPES_FAILED")
	}
	return c.JSON(http.StatusOK, recipes)
}

// GetRecipe godoc
// @Summary Get recipe by id
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} model.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest("invalid recipe ID", "INVALID_ID")
	}

	recipe, err := h.recipeService.Get(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch recipe", "GET_RECIPE_FAILED")
	}
	return c.JSON(http.StatusOK, recipe)
}

func bindCreateRecipe(c echo.Context) (service.CreateRecipeInput, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var req CreateRecipeRequest
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
			return service.CreateRecipeInput{}, err
		}
		return service.CreateRecipeInput{
			Title:       req.Title,
			Description: req.Description,
			Ingredients: service.PayloadFromJSON(req.Ingredients),
			Steps:       service.PayloadFromJSON(req.Steps),
			Category:    req.Category,
			CreatedBy:   req.CreatedBy,
		}, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return service.CreateRecipeInput{}, err
	}
	createdBy := form.Get("createdBy")
	if createdBy == "" {
		createdBy = form.Get("created_by")
	}
	return service.CreateRecipeInput{
		Title:       form.Get("title"),
		Description: form.Get("description"),
		Ingredients: formPayload(form, "ingredients"),
		Steps:       formPayload(form, "steps"),
		Category:    form.Get("category"),
		CreatedBy:   createdBy,
	}, nil
}

// formPayload treats bracketed keys (steps[]=a&steps[]=b) as a structured
// list and a plain key as client-encoded JSON.
func formPayload(form url.Values, key string) service.Payload {
	if items := form[key+"[]"]; len(items) > 0 {
		return service.ListOf(items...)
	}
	return service.PayloadFromForm(form[key])
}
