// Package stream provides DynamoDB Streams handlers for cascade operations.
package stream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/jacentio/menutree/store"
)

// MenuCleaner deletes the menu of a workspace.
type MenuCleaner interface {
	DeleteAllForWorkspace(ctx context.Context, workspaceID string) error
}

// MembershipExpirer expires the membership record of a deleted menu item.
type MembershipExpirer interface {
	SetMembershipTTL(ctx context.Context, workspaceID, itemID string, ttl int64) error
}

// Handler processes DynamoDB stream events of the items and workspaces
// tables.
type Handler struct {
	menus       MenuCleaner
	memberships MembershipExpirer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewHandler creates a new stream handler.
func NewHandler(menus MenuCleaner, memberships MembershipExpirer, logger zerolog.Logger) *Handler {
	return &Handler{
		menus:       menus,
		memberships: memberships,
		logger:      logger.With().Str("component", "stream").Logger(),
		now:         time.Now,
	}
}

// HandleCascadeDelete processes DynamoDB stream events for deleted records.
// A deleted menu item gets its membership record expired; a deleted
// workspace gets its whole menu deleted.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleCascadeDelete(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error().
				Str("eventID", record.EventID).
				Err(err).
				Msg("failed to process record")
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord processes a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	var image map[string]events.DynamoDBAttributeValue
	var ttl int64

	switch record.EventName {
	case "MODIFY":
		oldTTL := getNumberAttr(record.Change.OldImage, "ttl")
		newTTL := getNumberAttr(record.Change.NewImage, "ttl")

		// Only process when TTL is newly set (was absent/0, now present)
		if oldTTL != 0 || newTTL == 0 {
			return nil
		}
		image, ttl = record.Change.NewImage, newTTL
	case "REMOVE":
		image, ttl = record.Change.OldImage, h.now().Unix()
	default:
		return nil
	}

	id := getStringAttr(image, "id")
	if id == "" {
		id = getStringAttr(record.Change.Keys, "id")
	}
	if id == "" {
		return nil
	}

	if strings.HasPrefix(getStringAttr(image, "entity_ref"), store.ItemRef("")) {
		return h.expireMembership(ctx, id, getStringAttr(image, "workspace_id"), ttl)
	}
	return h.deleteWorkspaceMenu(ctx, id)
}

func (h *Handler) expireMembership(ctx context.Context, itemID, workspaceID string, ttl int64) error {
	if workspaceID == "" {
		h.logger.Warn().Str("itemID", itemID).Msg("menu item record without workspace, skipping")
		return nil
	}
	if err := h.memberships.SetMembershipTTL(ctx, workspaceID, itemID, ttl); err != nil {
		return fmt.Errorf("expire membership of %s: %w", itemID, err)
	}
	h.logger.Debug().
		Str("itemID", itemID).
		Str("workspaceID", workspaceID).
		Int64("ttl", ttl).
		Msg("membership expired")
	return nil
}

func (h *Handler) deleteWorkspaceMenu(ctx context.Context, workspaceID string) error {
	h.logger.Info().Str("workspaceID", workspaceID).Msg("processing workspace cascade delete")

	if err := h.menus.DeleteAllForWorkspace(ctx, workspaceID); err != nil {
		return fmt.Errorf("delete menu of workspace %s: %w", workspaceID, err)
	}

	h.logger.Info().Str("workspaceID", workspaceID).Msg("workspace cascade delete completed")
	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeString {
			return v.String()
		}
	}
	return ""
}

// getNumberAttr extracts a number attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeNumber {
			n, _ := strconv.ParseInt(v.Number(), 10, 64)
			return n
		}
	}
	return 0
}
