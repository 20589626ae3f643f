// Package api exposes the menu operations as an API Gateway Lambda handler.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/jacentio/menutree/menu"
	"github.com/jacentio/menutree/store"
)

// MenuService is the set of menu operations served over HTTP.
type MenuService interface {
	CreateItem(ctx context.Context, workspaceID string, in menu.ItemInput) (*menu.MenuItem, error)
	GetItem(ctx context.Context, id string) (*menu.MenuItem, error)
	ListItems(ctx context.Context, workspaceID string) ([]*menu.MenuItem, error)
	Tree(ctx context.Context, workspaceID string) ([]*menu.Node, error)
	UpdateItem(ctx context.Context, id string, in menu.ItemInput) (*menu.MenuItem, error)
	PatchItems(ctx context.Context, inputs []menu.ItemInput) ([]*menu.MenuItem, error)
	ReplaceStructure(ctx context.Context, workspaceID string, nodes []menu.StructureNode) error
	DeleteItem(ctx context.Context, id string) error
	DeleteAllForWorkspace(ctx context.Context, workspaceID string) error
}

// Resource templates as configured on the API Gateway.
const (
	ResourceItems      = "/workspaces/{id}/menuItems"
	ResourceItem       = "/workspaces/{id}/menuItems/{menuItemId}"
	ResourceTree       = "/workspaces/{id}/menuItems/tree"
	ResourceTreeUpload = "/workspaces/{id}/menuItems/tree/upload"
)

// StructureUpload is the body of a structure replace request.
type StructureUpload struct {
	MenuItems []menu.StructureNode `json:"menuItems"`
}

// Problem is the error body returned for failed requests.
type Problem struct {
	ErrorCode string `json:"errorCode"`
	Detail    string `json:"detail"`
}

type route func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Handler routes API Gateway proxy requests to a MenuService.
type Handler struct {
	menus  MenuService
	logger zerolog.Logger
	routes map[string]route
}

// NewHandler creates a Handler.
func NewHandler(menus MenuService, logger zerolog.Logger) *Handler {
	h := &Handler{
		menus:  menus,
		logger: logger.With().Str("component", "api").Logger(),
	}
	h.routes = map[string]route{
		http.MethodPost + " " + ResourceItems:      h.create,
		http.MethodGet + " " + ResourceItems:       h.list,
		http.MethodPatch + " " + ResourceItems:     h.patch,
		http.MethodDelete + " " + ResourceItems:    h.deleteAll,
		http.MethodGet + " " + ResourceTree:        h.tree,
		http.MethodPost + " " + ResourceTreeUpload: h.upload,
		http.MethodGet + " " + ResourceItem:        h.get,
		http.MethodPut + " " + ResourceItem:        h.update,
		http.MethodDelete + " " + ResourceItem:     h.deleteOne,
	}
	return h
}

// Handle serves one API Gateway proxy request. Operation failures become
// problem responses; the returned error is reserved for failures to build a
// response at all.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	r, ok := h.routes[req.HTTPMethod+" "+req.Resource]
	if !ok {
		return problem(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("no route for %s %s", req.HTTPMethod, req.Resource))
	}

	resp, err := r(ctx, req)
	if err != nil {
		return h.fail(req, err)
	}
	h.logger.Debug().
		Str("method", req.HTTPMethod).
		Str("resource", req.Resource).
		Int("status", resp.StatusCode).
		Msg("request served")
	return resp, nil
}

func (h *Handler) create(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var in menu.ItemInput
	if err := decode(req, &in); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	item, err := h.menus.CreateItem(ctx, req.PathParameters["id"], in)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	resp, err := respond(http.StatusCreated, item)
	resp.Headers["Location"] = fmt.Sprintf("/workspaces/%s/menuItems/%s", item.WorkspaceID, item.ID)
	return resp, err
}

func (h *Handler) list(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	items, err := h.menus.ListItems(ctx, req.PathParameters["id"])
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if items == nil {
		items = []*menu.MenuItem{}
	}
	return respond(http.StatusOK, items)
}

func (h *Handler) tree(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	forest, err := h.menus.Tree(ctx, req.PathParameters["id"])
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if forest == nil {
		forest = []*menu.Node{}
	}
	return respond(http.StatusOK, forest)
}

func (h *Handler) get(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	item, err := h.menus.GetItem(ctx, req.PathParameters["menuItemId"])
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, item)
}

func (h *Handler) update(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var in menu.ItemInput
	if err := decode(req, &in); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	item, err := h.menus.UpdateItem(ctx, req.PathParameters["menuItemId"], in)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, item)
}

func (h *Handler) patch(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var inputs []menu.ItemInput
	if err := decode(req, &inputs); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if len(inputs) == 0 {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("%w: empty batch", menu.ErrInvalidInput)
	}
	items, err := h.menus.PatchItems(ctx, inputs)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, items)
}

func (h *Handler) upload(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body StructureUpload
	if err := decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if err := h.menus.ReplaceStructure(ctx, req.PathParameters["id"], body.MenuItems); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return noContent(), nil
}

func (h *Handler) deleteOne(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.menus.DeleteItem(ctx, req.PathParameters["menuItemId"]); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return noContent(), nil
}

func (h *Handler) deleteAll(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.menus.DeleteAllForWorkspace(ctx, req.PathParameters["id"]); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return noContent(), nil
}

// fail maps an operation error to a problem response.
func (h *Handler) fail(req events.APIGatewayProxyRequest, err error) (events.APIGatewayProxyResponse, error) {
	status, code := classify(err)

	event := h.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.Err(err).
		Str("method", req.HTTPMethod).
		Str("resource", req.Resource).
		Str("errorCode", code).
		Int("status", status).
		Msg("request failed")

	detail := err.Error()
	if status >= http.StatusInternalServerError {
		detail = "internal error"
	}
	return problem(status, code, detail)
}

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{menu.ErrWorkspaceNotFound, http.StatusBadRequest, "WORKSPACE_DOES_NOT_EXIST"},
	{menu.ErrParentNotFound, http.StatusBadRequest, "PARENT_MENU_DOES_NOT_EXIST"},
	{menu.ErrCrossWorkspaceParent, http.StatusBadRequest, "WORKSPACE_DIFFERENT"},
	{menu.ErrSelfParent, http.StatusBadRequest, "PARENT_IS_SELF"},
	{menu.ErrCycleDetected, http.StatusBadRequest, "CYCLE_DEPENDENCY"},
	{menu.ErrEmptyStructure, http.StatusBadRequest, "MENU_ITEMS_NULL"},
	{menu.ErrInvalidInput, http.StatusBadRequest, "CONSTRAINT_VIOLATIONS"},
	{store.ErrTransactionTooLarge, http.StatusBadRequest, "MENU_STRUCTURE_TOO_LARGE"},
	{menu.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{menu.ErrConcurrentModification, http.StatusConflict, "CONCURRENT_MODIFICATION"},
	{menu.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
}

// classify returns the HTTP status and error code for err.
func classify(err error) (int, string) {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.status, c.code
		}
	}
	if menu.IsClientError(err) {
		return http.StatusBadRequest, "BAD_REQUEST"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func decode(req events.APIGatewayProxyRequest, v any) error {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return fmt.Errorf("%w: body is not valid base64", menu.ErrInvalidInput)
		}
		body = decoded
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: request body is required", menu.ErrInvalidInput)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", menu.ErrInvalidInput, err)
	}
	return nil
}

func respond(status int, v any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{Headers: map[string]string{}}, fmt.Errorf("encode response: %w", err)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func problem(status int, code, detail string) (events.APIGatewayProxyResponse, error) {
	return respond(status, Problem{ErrorCode: code, Detail: detail})
}

func noContent() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent}
}
