package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user records. Errors are returned to
// the central error handler, which owns the status mapping.
type UserHandler struct {
	service ports.UserService
	log     zerolog.Logger
}

func NewUserHandler(service ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With().Str("component", "user_handler").Logger(),
	}
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id (UUID)"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List handles GET /users.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      503  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Header       201   {string}  Location  "/users/{id}"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), toDomainUser(req))
	if err != nil {
		return err
	}

	h.log.Info().Str("user_id", created.ID).Str("actor", actor(c)).Msg("user created")
	c.Response().Header().Set(echo.HeaderLocation, "/users/"+created.ID)
	return c.JSON(http.StatusCreated, toUserResponse(created))
}

// Update handles PUT /users/:id. The record is fully replaced; the path id
// wins over any id in the body.
//
// @Summary      Replace a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "User id (UUID)"
// @Param        body  body      userRequest  true  "User details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), id, toDomainUser(req))
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound)
	}

	h.log.Info().Str("user_id", id).Str("actor", actor(c)).Msg("user updated")
	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User id (UUID)"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	found, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound)
	}

	h.log.Info().Str("user_id", id).Str("actor", actor(c)).Msg("user deleted")
	return c.NoContent(http.StatusNoContent)
}
